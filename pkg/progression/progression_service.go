package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/budgetquest/budgetquest/internal/event_bus"
	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// AwardBadge grants the badge to the user. Awarding a badge the user already holds is
	// not an error: the result then has Awarded=false and unchanged totals.
	AwardBadge(ctx context.Context, userId int, badgeId int) (AwardResult, error)
	GetProgress(ctx context.Context) (Progress, error)
	ProgressFor(ctx context.Context, totalExperiencePoints int) Progress
	ListBadges(ctx context.Context) ([]Badge, error)
	ListLevels(ctx context.Context) ([]Level, error)
	ListCurrentUserBadges(ctx context.Context) ([]UserBadge, error)
	ImportCatalog(ctx context.Context, badges []Badge, levels []Level) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) AwardBadge(ctx context.Context, userId int, badgeId int) (AwardResult, error) {
	badge, total, err := s.repo.AwardBadge(ctx, userId, badgeId)
	if errors.Is(err, ErrAlreadyAwarded) {
		log.Debugf("user %d already holds badge %d", userId, badgeId)
		current, err := s.repo.GetExperiencePoints(ctx, userId)
		if err != nil {
			return AwardResult{}, err
		}
		return AwardResult{
			Awarded:               false,
			Badge:                 badge,
			TotalExperiencePoints: current,
			Level:                 resolveIn(s.levels(ctx), current),
		}, nil
	}
	if err != nil {
		return AwardResult{}, err
	}

	levels := s.levels(ctx)
	previous := resolveIn(levels, total-badge.ExperiencePoints)
	level := resolveIn(levels, total)
	changed := level != nil && (previous == nil || previous.Id != level.Id)
	log.Infof("user %d awarded badge %d (+%d xp, total %d)", userId, badge.Id, badge.ExperiencePoints, total)

	s.publish(event_bus.NewEvent(ctx, event_bus.BadgeAwardedEvent, event_bus.BadgeAwarded{
		UserId:                userId,
		BadgeId:               badge.Id,
		BadgeName:             badge.Name,
		ExperiencePoints:      badge.ExperiencePoints,
		TotalExperiencePoints: total,
	}))
	if changed {
		previousId := 0
		if previous != nil {
			previousId = previous.Id
		}
		s.publish(event_bus.NewEvent(ctx, event_bus.LevelReachedEvent, event_bus.LevelReached{
			UserId:                userId,
			PreviousLevelId:       previousId,
			LevelId:               level.Id,
			TotalExperiencePoints: total,
		}))
	}

	return AwardResult{
		Awarded:               true,
		Badge:                 badge,
		TotalExperiencePoints: total,
		Level:                 level,
		LevelChanged:          changed,
	}, nil
}

// The award is committed before subscribers run, so their failures are only logged.
func (s *ServiceImpl) publish(e event_bus.Event) {
	if err := s.eventBus.Publish(e); err != nil {
		log.Errorf("failed to publish %s event: %v", e.Type, err)
	}
}

func (s *ServiceImpl) GetProgress(ctx context.Context) (Progress, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("failed to get current user: %w", err)
	}
	total, err := s.repo.GetExperiencePoints(ctx, userId)
	if err != nil {
		return Progress{}, err
	}
	return s.ProgressFor(ctx, total), nil
}

// ProgressFor resolves level and next level for a total. Lookup misses leave the
// corresponding field nil.
func (s *ServiceImpl) ProgressFor(ctx context.Context, totalExperiencePoints int) Progress {
	progress := Progress{TotalExperiencePoints: totalExperiencePoints}
	levels := s.levels(ctx)
	progress.Level = resolveIn(levels, totalExperiencePoints)
	if progress.Level == nil {
		return progress
	}

	next, err := NextLevel(levels, *progress.Level)
	if errors.Is(err, ErrLevelNotFound) {
		return progress
	}
	progress.NextLevel = &next
	return progress
}

// levels returns nil when the table cannot be read; callers then resolve no level.
func (s *ServiceImpl) levels(ctx context.Context) []Level {
	levels, err := s.repo.ListLevels(ctx)
	if err != nil {
		log.Warnf("failed to load levels: %v", err)
		return nil
	}
	return levels
}

func resolveIn(levels []Level, totalExperiencePoints int) *Level {
	if levels == nil {
		return nil
	}
	level, err := ResolveLevel(levels, totalExperiencePoints)
	if err != nil {
		log.Warnf("level table misconfigured: %v", err)
		return nil
	}
	return &level
}

func (s *ServiceImpl) ListBadges(ctx context.Context) ([]Badge, error) {
	return s.repo.ListBadges(ctx)
}

func (s *ServiceImpl) ListLevels(ctx context.Context) ([]Level, error) {
	return s.repo.ListLevels(ctx)
}

func (s *ServiceImpl) ListCurrentUserBadges(ctx context.Context) ([]UserBadge, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListUserBadges(ctx, userId)
}

func (s *ServiceImpl) ImportCatalog(ctx context.Context, badges []Badge, levels []Level) error {
	for _, b := range badges {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if len(levels) > 0 {
		if err := ValidateLevels(levels); err != nil {
			return err
		}
	}
	if err := s.repo.ImportCatalog(ctx, badges, levels); err != nil {
		return err
	}
	log.Infof("imported %d badges and %d levels", len(badges), len(levels))
	return nil
}
