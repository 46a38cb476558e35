package activity

import (
	"context"
	"testing"
	"time"

	"github.com/budgetquest/budgetquest/internal/event_bus"
	"github.com/budgetquest/budgetquest/internal/utils"
	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func setupServiceTest(t *testing.T) (*ServiceImpl, *StubActivityRepository, *event_bus.EventBus, *utils.FixedClock) {
	repo := NewStubActivityRepository()
	bus := event_bus.NewEventBus()
	clock := &utils.FixedClock{At: startTime}
	return NewService(repo, bus, clock), repo, bus, clock
}

func TestServiceImpl_RecordsEvents(t *testing.T) {
	service, _, bus, clock := setupServiceTest(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.BadgeAwardedEvent, event_bus.BadgeAwarded{
		UserId: 1, BadgeId: 3, BadgeName: "Saver", ExperiencePoints: 60, TotalExperiencePoints: 150,
	})))
	clock.Advance(time.Minute)
	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.LevelReachedEvent, event_bus.LevelReached{
		UserId: 1, PreviousLevelId: 1, LevelId: 2, TotalExperiencePoints: 150,
	})))
	clock.Advance(time.Minute)
	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.ExpenseRecordedEvent, event_bus.ExpenseRecorded{
		UserId: 1, Amount: decimal.RequireFromString("12.5"), Spent: decimal.RequireFromString("12.5"), Leftover: decimal.RequireFromString("612.5"),
	})))
	require.NoError(t, bus.Publish(event_bus.NewEvent(ctx, event_bus.LevelReachedEvent, event_bus.LevelReached{
		UserId: 2, LevelId: 2,
	})))

	entries, err := service.List(user.WithUser(ctx, user.User{Id: 1}), 0)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, KindExpenseRecorded, entries[0].Kind)
	assert.Equal(t, "Spent 12.50, 612.50 left this week", entries[0].Message)
	assert.Equal(t, startTime.Add(2*time.Minute), entries[0].Created)
	assert.Equal(t, KindLevelReached, entries[1].Kind)
	assert.Equal(t, "Reached level 2", entries[1].Message)
	assert.Equal(t, KindBadgeAwarded, entries[2].Kind)
	assert.Equal(t, "Earned badge Saver (+60 XP)", entries[2].Message)
	assert.Equal(t, startTime, entries[2].Created)
}

func TestServiceImpl_List(t *testing.T) {
	t.Run("should apply limit", func(t *testing.T) {
		service, repo, _, _ := setupServiceTest(t)
		ctx := user.WithUser(context.Background(), user.User{Id: 1})
		for i := 0; i < MaxLimit+10; i++ {
			_, err := repo.Store(ctx, Entry{UserId: 1, Kind: KindExpenseRecorded})
			require.NoError(t, err)
		}

		defaultPage, err := service.List(ctx, 0)
		require.NoError(t, err)
		limited, err := service.List(ctx, 5)
		require.NoError(t, err)
		capped, err := service.List(ctx, 1000)
		require.NoError(t, err)

		assert.Len(t, defaultPage, DefaultLimit)
		assert.Len(t, limited, 5)
		assert.Len(t, capped, MaxLimit)
	})

	t.Run("should require user", func(t *testing.T) {
		service, _, _, _ := setupServiceTest(t)

		_, err := service.List(context.Background(), 5)

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestServiceImpl_StoreFailureReachesPublisher(t *testing.T) {
	_, repo, bus, _ := setupServiceTest(t)
	repo.Fail = true

	err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.LevelReachedEvent, event_bus.LevelReached{UserId: 1, LevelId: 2}))

	assert.Error(t, err)
}
