package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrUserDataInvalid = errors.New("invalid user data")

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	// SignIn returns the user bound to the identity, creating it on first sign-in.
	// The boolean reports whether the user was created.
	SignIn(ctx context.Context, identity Identity) (User, bool, error)
	DeleteCurrentUser(ctx context.Context) error
}

type UserServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) SignIn(ctx context.Context, identity Identity) (User, bool, error) {
	if identity.GoogleId == "" {
		return User{}, false, ErrUserDataInvalid
	}

	existing, err := u.repo.GetUserByGoogleId(ctx, identity.GoogleId)
	if err == nil {
		if existing.GivenName == identity.GivenName &&
			existing.FamilyName == identity.FamilyName &&
			existing.PhotoUrl == identity.PhotoUrl {
			return existing, false, nil
		}
		log.Debugf("refreshing profile of user %d", existing.Id)
		updated, err := u.repo.UpdateProfile(ctx, existing.Id, identity)
		return updated, false, err
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, false, err
	}

	newUser := User{
		Uid:        uuid.NewString(),
		GoogleId:   identity.GoogleId,
		GivenName:  identity.GivenName,
		FamilyName: identity.FamilyName,
		PhotoUrl:   identity.PhotoUrl,
	}
	id, err := u.repo.CreateUser(ctx, newUser)
	if errors.Is(err, ErrUserAlreadyExists) {
		// a concurrent first sign-in of the same account stored the user first
		log.Debugf("user with google id %s created concurrently", identity.GoogleId)
		existing, err := u.repo.GetUserByGoogleId(ctx, identity.GoogleId)
		return existing, false, err
	}
	if err != nil {
		return User{}, false, err
	}
	newUser.Id = id
	log.Infof("created user %d on first sign-in", id)
	return newUser, true, nil
}

func (u *UserServiceImpl) DeleteCurrentUser(ctx context.Context) error {
	userId, err := CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.DeleteUser(ctx, userId)
}
