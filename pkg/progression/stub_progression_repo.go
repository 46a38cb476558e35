package progression

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/budgetquest/budgetquest/pkg/user"
)

type StubProgressionRepository struct {
	mu         sync.Mutex
	badges     map[int]Badge
	levels     []Level
	xp         map[int]int
	userBadges map[int][]UserBadge
	levelReads int
}

func NewStubProgressionRepository() *StubProgressionRepository {
	return &StubProgressionRepository{
		badges:     map[int]Badge{},
		levels:     []Level{{Id: 1, ExperiencePointsThreshold: 0}},
		xp:         map[int]int{},
		userBadges: map[int][]UserBadge{},
	}
}

// AddUser registers a user with the given experience points.
func (s *StubProgressionRepository) AddUser(userId int, experiencePoints int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.xp[userId] = experiencePoints
}

func (s *StubProgressionRepository) SetLevels(levels []Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = levels
}

func (s *StubProgressionRepository) AwardBadge(ctx context.Context, userId int, badgeId int) (Badge, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badge, ok := s.badges[badgeId]
	if !ok {
		return Badge{}, 0, ErrBadgeNotFound
	}
	total, ok := s.xp[userId]
	if !ok {
		return Badge{}, 0, user.ErrUserNotFound
	}
	for _, ub := range s.userBadges[userId] {
		if ub.Badge.Id == badgeId {
			return badge, 0, ErrAlreadyAwarded
		}
	}
	s.userBadges[userId] = append(s.userBadges[userId], UserBadge{Badge: badge, Awarded: time.Now()})
	total += badge.ExperiencePoints
	s.xp[userId] = total
	return badge, total, nil
}

func (s *StubProgressionRepository) GetExperiencePoints(ctx context.Context, userId int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total, ok := s.xp[userId]
	if !ok {
		return 0, user.ErrUserNotFound
	}
	return total, nil
}

func (s *StubProgressionRepository) GetBadge(ctx context.Context, badgeId int) (Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badge, ok := s.badges[badgeId]
	if !ok {
		return Badge{}, ErrBadgeNotFound
	}
	return badge, nil
}

func (s *StubProgressionRepository) ListBadges(ctx context.Context) ([]Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badges := []Badge{}
	for _, id := range slices.Sorted(maps.Keys(s.badges)) {
		badges = append(badges, s.badges[id])
	}
	return badges, nil
}

func (s *StubProgressionRepository) ListUserBadges(ctx context.Context, userId int) ([]UserBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UserBadge{}, s.userBadges[userId]...), nil
}

// LevelReads counts ListLevels calls.
func (s *StubProgressionRepository) LevelReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levelReads
}

func (s *StubProgressionRepository) ListLevels(ctx context.Context) ([]Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levelReads++
	return append([]Level{}, s.levels...), nil
}

func (s *StubProgressionRepository) ImportCatalog(ctx context.Context, badges []Badge, levels []Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range badges {
		s.badges[b.Id] = b
	}
	if len(levels) > 0 {
		s.levels = append([]Level{}, levels...)
	}
	return nil
}
