package activity

import (
	"context"
	"fmt"

	"github.com/budgetquest/budgetquest/internal/event_bus"
	"github.com/budgetquest/budgetquest/internal/utils"
	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, limit int) ([]Entry, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	service := &ServiceImpl{repo: repo, clock: clock}
	event_bus.SubscribeTyped[event_bus.BadgeAwarded](
		eventBus,
		event_bus.BadgeAwardedEvent,
		func(e event_bus.EventT[event_bus.BadgeAwarded]) error {
			return service.record(e.Context(), e.Data.UserId, KindBadgeAwarded,
				fmt.Sprintf("Earned badge %s (+%d XP)", e.Data.BadgeName, e.Data.ExperiencePoints))
		},
	)
	event_bus.SubscribeTyped[event_bus.LevelReached](
		eventBus,
		event_bus.LevelReachedEvent,
		func(e event_bus.EventT[event_bus.LevelReached]) error {
			return service.record(e.Context(), e.Data.UserId, KindLevelReached,
				fmt.Sprintf("Reached level %d", e.Data.LevelId))
		},
	)
	event_bus.SubscribeTyped[event_bus.ExpenseRecorded](
		eventBus,
		event_bus.ExpenseRecordedEvent,
		func(e event_bus.EventT[event_bus.ExpenseRecorded]) error {
			return service.record(e.Context(), e.Data.UserId, KindExpenseRecorded,
				fmt.Sprintf("Spent %s, %s left this week", e.Data.Amount.StringFixed(2), e.Data.Leftover.StringFixed(2)))
		},
	)
	return service
}

func (s *ServiceImpl) record(ctx context.Context, userId int, kind Kind, message string) error {
	_, err := s.repo.Store(ctx, Entry{
		UserId:  userId,
		Kind:    kind,
		Message: message,
		Created: s.clock.Now(),
	})
	if err != nil {
		log.Errorf("failed to record %s activity for user %d: %v", kind, userId, err)
		return err
	}
	return nil
}

// List returns the current user's newest entries. A non-positive limit selects
// DefaultLimit; limits above MaxLimit are capped.
func (s *ServiceImpl) List(ctx context.Context, limit int) ([]Entry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	return s.repo.List(ctx, userId, limit)
}
