package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, entry Entry) (Entry, error)
	// List returns the newest entries of the user first.
	List(ctx context.Context, userId int, limit int) ([]Entry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewActivityRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, entry Entry) (Entry, error) {
	query := `INSERT INTO activity (user_id, kind, message, created) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, entry.UserId, string(entry.Kind), entry.Message, entry.Created).Scan(&entry.Id)
	if err != nil {
		err := fmt.Errorf("could not store activity: %w", err)
		log.Error(err)
		return Entry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) List(ctx context.Context, userId int, limit int) ([]Entry, error) {
	query := `SELECT id, user_id, kind, message, created FROM activity
			  WHERE user_id = $1
			  ORDER BY created DESC, id DESC
			  LIMIT $2`
	rows, err := r.db.Query(ctx, query, userId, limit)
	if err != nil {
		log.Errorf("failed to list activity of user %d: %v", userId, err)
		return nil, err
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		var kind string
		err := row.Scan(&e.Id, &e.UserId, &kind, &e.Message, &e.Created)
		e.Kind = Kind(kind)
		return e, err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
