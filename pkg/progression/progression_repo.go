package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// AwardBadge records the badge for the user and adds its experience points to the user's
	// total in one transaction. Returns ErrAlreadyAwarded when the user holds the badge.
	AwardBadge(ctx context.Context, userId int, badgeId int) (Badge, int, error)
	GetExperiencePoints(ctx context.Context, userId int) (int, error)
	GetBadge(ctx context.Context, badgeId int) (Badge, error)
	ListBadges(ctx context.Context) ([]Badge, error)
	ListUserBadges(ctx context.Context, userId int) ([]UserBadge, error)
	ListLevels(ctx context.Context) ([]Level, error)
	// ImportCatalog upserts badges by id and replaces the level table.
	ImportCatalog(ctx context.Context, badges []Badge, levels []Level) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewProgressionRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectBadge = `SELECT id, name, description, icon_url, experience_points FROM badge`

func (r *RepositoryImpl) AwardBadge(ctx context.Context, userId int, badgeId int) (Badge, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Badge{}, 0, err
	}
	defer tx.Rollback(ctx)

	badge, err := scanBadge(tx.QueryRow(ctx, selectBadge+` WHERE id = $1`, badgeId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Badge{}, 0, ErrBadgeNotFound
	}
	if err != nil {
		log.Errorf("failed to get badge %d: %v", badgeId, err)
		return Badge{}, 0, err
	}

	var awardedId int
	err = tx.QueryRow(ctx,
		`INSERT INTO user_badge (user_id, badge_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, badge_id) DO NOTHING
		 RETURNING badge_id`,
		userId, badgeId,
	).Scan(&awardedId)
	if errors.Is(err, pgx.ErrNoRows) {
		return badge, 0, ErrAlreadyAwarded
	}
	if err != nil {
		err := fmt.Errorf("could not award badge: %w", err)
		log.Error(err)
		return Badge{}, 0, err
	}

	var total int
	err = tx.QueryRow(ctx,
		`UPDATE users SET total_experience_points = total_experience_points + $1 WHERE id = $2
		 RETURNING total_experience_points`,
		badge.ExperiencePoints, userId,
	).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return Badge{}, 0, user.ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not add experience points: %w", err)
		log.Error(err)
		return Badge{}, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Badge{}, 0, err
	}
	return badge, total, nil
}

func (r *RepositoryImpl) GetExperiencePoints(ctx context.Context, userId int) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT total_experience_points FROM users WHERE id = $1`, userId).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, user.ErrUserNotFound
	}
	if err != nil {
		log.Errorf("failed to get experience points of user %d: %v", userId, err)
		return 0, err
	}
	return total, nil
}

func (r *RepositoryImpl) GetBadge(ctx context.Context, badgeId int) (Badge, error) {
	badge, err := scanBadge(r.db.QueryRow(ctx, selectBadge+` WHERE id = $1`, badgeId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Badge{}, ErrBadgeNotFound
	}
	if err != nil {
		log.Errorf("failed to get badge %d: %v", badgeId, err)
		return Badge{}, err
	}
	return badge, nil
}

func (r *RepositoryImpl) ListBadges(ctx context.Context) ([]Badge, error) {
	rows, err := r.db.Query(ctx, selectBadge+` ORDER BY id`)
	if err != nil {
		log.Errorf("failed to list badges: %v", err)
		return nil, err
	}
	defer rows.Close()

	badges := []Badge{}
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	return badges, rows.Err()
}

func (r *RepositoryImpl) ListUserBadges(ctx context.Context, userId int) ([]UserBadge, error) {
	query := `SELECT b.id, b.name, b.description, b.icon_url, b.experience_points, ub.awarded
			  FROM user_badge ub
			  JOIN badge b ON b.id = ub.badge_id
			  WHERE ub.user_id = $1
			  ORDER BY ub.awarded, b.id`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("failed to list badges of user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	result := []UserBadge{}
	for rows.Next() {
		var ub UserBadge
		err := rows.Scan(
			&ub.Badge.Id,
			&ub.Badge.Name,
			&ub.Badge.Description,
			&ub.Badge.IconUrl,
			&ub.Badge.ExperiencePoints,
			&ub.Awarded,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, ub)
	}
	return result, rows.Err()
}

func (r *RepositoryImpl) ListLevels(ctx context.Context) ([]Level, error) {
	rows, err := r.db.Query(ctx, `SELECT id, experience_points_threshold FROM level ORDER BY id`)
	if err != nil {
		log.Errorf("failed to list levels: %v", err)
		return nil, err
	}
	defer rows.Close()

	levels := []Level{}
	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.Id, &l.ExperiencePointsThreshold); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (r *RepositoryImpl) ImportCatalog(ctx context.Context, badges []Badge, levels []Level) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, b := range badges {
		batch.Queue(`INSERT INTO badge (id, name, description, icon_url, experience_points)
					 VALUES ($1, $2, $3, $4, $5)
					 ON CONFLICT (id) DO UPDATE SET
					     name = EXCLUDED.name,
					     description = EXCLUDED.description,
					     icon_url = EXCLUDED.icon_url,
					     experience_points = EXCLUDED.experience_points`,
			b.Id, b.Name, b.Description, b.IconUrl, b.ExperiencePoints)
	}
	if len(badges) > 0 {
		batch.Queue(`SELECT setval(pg_get_serial_sequence('badge', 'id'), (SELECT MAX(id) FROM badge))`)
	}
	if len(levels) > 0 {
		batch.Queue(`DELETE FROM level`)
		for _, l := range levels {
			batch.Queue(`INSERT INTO level (id, experience_points_threshold) VALUES ($1, $2)`, l.Id, l.ExperiencePointsThreshold)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		err := fmt.Errorf("could not import catalog: %w", err)
		log.Error(err)
		return err
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBadge(row rowScanner) (Badge, error) {
	var b Badge
	err := row.Scan(&b.Id, &b.Name, &b.Description, &b.IconUrl, &b.ExperiencePoints)
	return b, err
}
