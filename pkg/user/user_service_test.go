package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T) (*UserServiceImpl, *StubUserRepository) {
	repo := NewStubUserRepository()
	return NewUserService(repo), repo
}

// lateUserRepository misses the first Google id lookups, as if another request stored the
// user between the lookup and the insert.
type lateUserRepository struct {
	*StubUserRepository
	misses int
}

func (r *lateUserRepository) GetUserByGoogleId(ctx context.Context, googleId string) (User, error) {
	if r.misses > 0 {
		r.misses--
		return User{}, ErrUserNotFound
	}
	return r.StubUserRepository.GetUserByGoogleId(ctx, googleId)
}

func TestUserServiceImpl_SignIn(t *testing.T) {
	identity := Identity{GoogleId: "g-123", GivenName: "Ada", FamilyName: "Lovelace", PhotoUrl: "https://photo/ada"}

	t.Run("should create user on first sign-in", func(t *testing.T) {
		service, _ := setupServiceTest(t)

		// when
		u, created, err := service.SignIn(context.Background(), identity)

		// then
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, u.Id)
		assert.Len(t, u.Uid, 36)
		assert.Equal(t, "Ada", u.GivenName)
		assert.Equal(t, 0, u.TotalExperiencePoints)
	})

	t.Run("should return existing user on repeated sign-in", func(t *testing.T) {
		service, _ := setupServiceTest(t)
		first, _, err := service.SignIn(context.Background(), identity)
		require.NoError(t, err)

		// when
		second, created, err := service.SignIn(context.Background(), identity)

		// then
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, first.Uid, second.Uid)
	})

	t.Run("should refresh changed profile data", func(t *testing.T) {
		service, _ := setupServiceTest(t)
		first, _, err := service.SignIn(context.Background(), identity)
		require.NoError(t, err)
		changed := identity
		changed.PhotoUrl = "https://photo/new"

		// when
		second, created, err := service.SignIn(context.Background(), changed)

		// then
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, "https://photo/new", second.PhotoUrl)
	})

	t.Run("should return user stored by a concurrent first sign-in", func(t *testing.T) {
		repo := NewStubUserRepository()
		existingId, err := repo.CreateUser(context.Background(), User{Uid: "uid-race", GoogleId: identity.GoogleId,
			GivenName: identity.GivenName, FamilyName: identity.FamilyName, PhotoUrl: identity.PhotoUrl})
		require.NoError(t, err)
		service := NewUserService(&lateUserRepository{StubUserRepository: repo, misses: 1})

		// when
		u, created, err := service.SignIn(context.Background(), identity)

		// then
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existingId, u.Id)
		assert.Equal(t, "uid-race", u.Uid)
	})

	t.Run("should reject identity without google id", func(t *testing.T) {
		service, _ := setupServiceTest(t)

		_, _, err := service.SignIn(context.Background(), Identity{GivenName: "Nobody"})

		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should return user from context id", func(t *testing.T) {
		service, repo := setupServiceTest(t)
		id, _ := repo.CreateUser(context.Background(), User{Uid: "uid-1", GoogleId: "g-1", GivenName: "Grace"})
		ctx := WithUser(context.Background(), User{Id: id})

		u, err := service.GetCurrentUser(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Grace", u.GivenName)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _ := setupServiceTest(t)

		_, err := service.GetCurrentUser(context.Background())

		assert.ErrorIs(t, err, ErrNoUser)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestUserServiceImpl_DeleteCurrentUser(t *testing.T) {
	service, repo := setupServiceTest(t)
	id, _ := repo.CreateUser(context.Background(), User{Uid: "uid-1", GoogleId: "g-1"})
	ctx := WithUser(context.Background(), User{Id: id})

	require.NoError(t, service.DeleteCurrentUser(ctx))

	_, err := repo.GetUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
