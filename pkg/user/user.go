package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type User struct {
	Id         int
	Uid        string
	GoogleId   string
	GivenName  string
	FamilyName string
	PhotoUrl   string
	// TotalExperiencePoints only grows, and only through badge awards.
	TotalExperiencePoints int
}

// Identity is a profile vouched for by the external identity provider.
type Identity struct {
	GoogleId   string
	GivenName  string
	FamilyName string
	PhotoUrl   string
}

type contextKey string

const UserKey contextKey = "user"

var ErrNoUser = errors.New("no user in context")

// CurrentId retrieves the current user's ID from the context. Returns ErrNoUser if ID not present in context.
func CurrentId(ctx context.Context) (int, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return u.Id, nil
}

func CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrNoUser
	}
	return u, nil
}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}
