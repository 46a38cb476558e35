package progression

import (
	"context"
	"testing"

	"github.com/budgetquest/budgetquest/internal/event_bus"
	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T) (*ServiceImpl, *StubProgressionRepository, *event_bus.EventBus) {
	repo := NewStubProgressionRepository()
	repo.SetLevels(levelTable)
	require.NoError(t, repo.ImportCatalog(context.Background(), []Badge{
		{Id: 3, Name: "Budget Beginner", ExperiencePoints: 50},
		{Id: 4, Name: "Saver", ExperiencePoints: 60},
		{Id: 5, Name: "Legend", ExperiencePoints: 1000},
	}, nil))
	bus := event_bus.NewEventBus()
	return NewService(repo, bus), repo, bus
}

func TestServiceImpl_AwardBadge(t *testing.T) {
	t.Run("awarding the same badge twice adds experience points once", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(7, 0)
		ctx := context.Background()

		first, err := service.AwardBadge(ctx, 7, 3)
		require.NoError(t, err)
		second, err := service.AwardBadge(ctx, 7, 3)
		require.NoError(t, err)

		assert.True(t, first.Awarded)
		assert.Equal(t, 50, first.TotalExperiencePoints)
		assert.False(t, second.Awarded)
		assert.Equal(t, 50, second.TotalExperiencePoints)
		assert.Equal(t, "Budget Beginner", second.Badge.Name)
		badges, err := repo.ListUserBadges(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, badges, 1)
	})

	t.Run("should publish badge and level events", func(t *testing.T) {
		service, repo, bus := setupServiceTest(t)
		repo.AddUser(1, 90)
		var awarded []event_bus.BadgeAwarded
		var reached []event_bus.LevelReached
		event_bus.SubscribeTyped(bus, event_bus.BadgeAwardedEvent, func(e event_bus.EventT[event_bus.BadgeAwarded]) error {
			awarded = append(awarded, e.Data)
			return nil
		})
		event_bus.SubscribeTyped(bus, event_bus.LevelReachedEvent, func(e event_bus.EventT[event_bus.LevelReached]) error {
			reached = append(reached, e.Data)
			return nil
		})

		result, err := service.AwardBadge(context.Background(), 1, 4)

		require.NoError(t, err)
		assert.True(t, result.LevelChanged)
		require.NotNil(t, result.Level)
		assert.Equal(t, 2, result.Level.Id)
		require.Len(t, awarded, 1)
		assert.Equal(t, event_bus.BadgeAwarded{UserId: 1, BadgeId: 4, BadgeName: "Saver", ExperiencePoints: 60, TotalExperiencePoints: 150}, awarded[0])
		require.Len(t, reached, 1)
		assert.Equal(t, event_bus.LevelReached{UserId: 1, PreviousLevelId: 1, LevelId: 2, TotalExperiencePoints: 150}, reached[0])
	})

	t.Run("should not publish level event without level change", func(t *testing.T) {
		service, repo, bus := setupServiceTest(t)
		repo.AddUser(1, 0)
		levelEvents := 0
		bus.Subscribe(event_bus.LevelReachedEvent, func(e event_bus.Event) error { levelEvents++; return nil })

		result, err := service.AwardBadge(context.Background(), 1, 3)

		require.NoError(t, err)
		assert.False(t, result.LevelChanged)
		assert.Equal(t, 0, levelEvents)
	})

	t.Run("should not publish on repeated award", func(t *testing.T) {
		service, repo, bus := setupServiceTest(t)
		repo.AddUser(1, 0)
		_, err := service.AwardBadge(context.Background(), 1, 3)
		require.NoError(t, err)
		events := 0
		bus.Subscribe(event_bus.BadgeAwardedEvent, func(e event_bus.Event) error { events++; return nil })

		_, err = service.AwardBadge(context.Background(), 1, 3)

		require.NoError(t, err)
		assert.Equal(t, 0, events)
	})

	t.Run("should resolve previous and new level from one read of the level table", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(1, 90)

		result, err := service.AwardBadge(context.Background(), 1, 4)

		require.NoError(t, err)
		assert.True(t, result.LevelChanged)
		assert.Equal(t, 1, repo.LevelReads())
	})

	t.Run("should report unknown badge", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(1, 0)

		_, err := service.AwardBadge(context.Background(), 1, 99)

		assert.ErrorIs(t, err, ErrBadgeNotFound)
	})

	t.Run("should award even when level table is broken", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(1, 0)
		repo.SetLevels([]Level{{Id: 2, ExperiencePointsThreshold: 100}})

		result, err := service.AwardBadge(context.Background(), 1, 3)

		require.NoError(t, err)
		assert.True(t, result.Awarded)
		assert.Nil(t, result.Level)
		assert.False(t, result.LevelChanged)
	})
}

func TestServiceImpl_GetProgress(t *testing.T) {
	t.Run("should resolve level and next level", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(1, 150)
		ctx := user.WithUser(context.Background(), user.User{Id: 1})

		progress, err := service.GetProgress(ctx)

		require.NoError(t, err)
		assert.Equal(t, 150, progress.TotalExperiencePoints)
		require.NotNil(t, progress.Level)
		require.NotNil(t, progress.NextLevel)
		assert.Equal(t, 2, progress.Level.Id)
		assert.Equal(t, 3, progress.NextLevel.Id)
	})

	t.Run("should leave next level empty at the top", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(1, 5000)
		ctx := user.WithUser(context.Background(), user.User{Id: 1})

		progress, err := service.GetProgress(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, progress.Level.Id)
		assert.Nil(t, progress.NextLevel)
	})

	t.Run("should degrade on misconfigured levels", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)
		repo.AddUser(1, 10)
		repo.SetLevels(nil)
		ctx := user.WithUser(context.Background(), user.User{Id: 1})

		progress, err := service.GetProgress(ctx)

		require.NoError(t, err)
		assert.Equal(t, 10, progress.TotalExperiencePoints)
		assert.Nil(t, progress.Level)
		assert.Nil(t, progress.NextLevel)
	})

	t.Run("should require user", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		_, err := service.GetProgress(context.Background())

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestServiceImpl_ImportCatalog(t *testing.T) {
	t.Run("should reject invalid level table", func(t *testing.T) {
		service, repo, _ := setupServiceTest(t)

		err := service.ImportCatalog(context.Background(), nil, []Level{{Id: 1, ExperiencePointsThreshold: 5}})

		assert.ErrorIs(t, err, ErrInvalidLevels)
		levels, _ := repo.ListLevels(context.Background())
		assert.Equal(t, levelTable, levels)
	})

	t.Run("should reject badge without name", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)

		err := service.ImportCatalog(context.Background(), []Badge{{Id: 9}}, nil)

		assert.ErrorIs(t, err, ErrInvalidBadge)
	})

	t.Run("should import badges and levels", func(t *testing.T) {
		service, _, _ := setupServiceTest(t)
		levels := []Level{{Id: 1, ExperiencePointsThreshold: 0}, {Id: 2, ExperiencePointsThreshold: 10}}

		err := service.ImportCatalog(context.Background(), []Badge{{Id: 9, Name: "New", ExperiencePoints: 5}}, levels)

		require.NoError(t, err)
		storedLevels, _ := service.ListLevels(context.Background())
		assert.Equal(t, levels, storedLevels)
		badges, _ := service.ListBadges(context.Background())
		assert.Len(t, badges, 4)
	})
}
