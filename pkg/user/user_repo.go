package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type Repo interface {
	// CreateUser returns ErrUserAlreadyExists when a user with the same Google id is stored.
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserByGoogleId(ctx context.Context, googleId string) (User, error)
	UpdateProfile(ctx context.Context, userId int, identity Identity) (User, error)
	DeleteUser(ctx context.Context, id int) error
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

const selectUser = `SELECT id, uid, google_id, given_name, family_name, photo_url, total_experience_points FROM users`

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, google_id, given_name, family_name, photo_url) VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (google_id) DO NOTHING
			  RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.GoogleId,
		user.GivenName,
		user.FamilyName,
		user.PhotoUrl,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserAlreadyExists
	}
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE uid = $1`, uid)
}

func (u *UserRepoImpl) GetUserByGoogleId(ctx context.Context, googleId string) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE google_id = $1`, googleId)
}

func (u *UserRepoImpl) getOne(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := u.db.QueryRow(ctx, query, arg).Scan(
		&user.Id,
		&user.Uid,
		&user.GoogleId,
		&user.GivenName,
		&user.FamilyName,
		&user.PhotoUrl,
		&user.TotalExperiencePoints,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user %v not found", arg)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateProfile(ctx context.Context, userId int, identity Identity) (User, error) {
	query := `UPDATE users SET given_name = $1, family_name = $2, photo_url = $3 WHERE id = $4`
	result, err := u.db.Exec(ctx, query, identity.GivenName, identity.FamilyName, identity.PhotoUrl, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return User{}, err
	}
	if result.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}
	return u.GetUser(ctx, userId)
}

func (u *UserRepoImpl) DeleteUser(ctx context.Context, id int) error {
	result, err := u.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Errorf("failed to delete user: %v", err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
