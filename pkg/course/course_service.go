package course

import (
	"context"
	"fmt"
	"slices"

	"github.com/budgetquest/budgetquest/pkg/progression"
	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	ListCourses(ctx context.Context) ([]CourseStatus, error)
	GetCourse(ctx context.Context, courseId int) (Course, error)
	// CompleteCourse awards the course badge to the current user. Completing a course
	// again reports AlreadyCompleted and changes nothing.
	CompleteCourse(ctx context.Context, courseId int) (Completion, error)
	ImportCourses(ctx context.Context, courses []Course) error
}

type BadgeAwarder interface {
	AwardBadge(ctx context.Context, userId int, badgeId int) (progression.AwardResult, error)
}

type ServiceImpl struct {
	repo    Repository
	awarder BadgeAwarder
}

func NewService(repo Repository, awarder BadgeAwarder) *ServiceImpl {
	return &ServiceImpl{repo: repo, awarder: awarder}
}

func (s *ServiceImpl) ListCourses(ctx context.Context) ([]CourseStatus, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.ListCompletedCourseIds(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]CourseStatus, 0, len(courses))
	for _, c := range courses {
		result = append(result, CourseStatus{Course: c, Completed: slices.Contains(completed, c.Id)})
	}
	return result, nil
}

func (s *ServiceImpl) GetCourse(ctx context.Context, courseId int) (Course, error) {
	return s.repo.GetCourse(ctx, courseId)
}

func (s *ServiceImpl) CompleteCourse(ctx context.Context, courseId int) (Completion, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to get current user: %w", err)
	}
	c, err := s.repo.GetCourse(ctx, courseId)
	if err != nil {
		return Completion{}, err
	}
	if c.BadgeId == nil {
		return Completion{}, fmt.Errorf("%w: %d", ErrCourseHasNoBadge, courseId)
	}

	result, err := s.awarder.AwardBadge(ctx, userId, *c.BadgeId)
	if err != nil {
		return Completion{}, err
	}
	if result.Awarded {
		log.Debugf("user %d completed course %d", userId, courseId)
	}

	completion := Completion{
		CourseId:              courseId,
		AlreadyCompleted:      !result.Awarded,
		BadgeId:               result.Badge.Id,
		BadgeName:             result.Badge.Name,
		ExperiencePoints:      result.Badge.ExperiencePoints,
		TotalExperiencePoints: result.TotalExperiencePoints,
		LevelChanged:          result.LevelChanged,
	}
	if result.Level != nil {
		completion.LevelId = result.Level.Id
	}
	return completion, nil
}

func (s *ServiceImpl) ImportCourses(ctx context.Context, courses []Course) error {
	ids := make(map[int]bool, len(courses))
	for _, c := range courses {
		if err := c.Validate(); err != nil {
			return err
		}
		if ids[c.Id] {
			return fmt.Errorf("%w: duplicate course id %d", ErrInvalidCourse, c.Id)
		}
		ids[c.Id] = true
	}
	if err := s.repo.ImportCourses(ctx, courses); err != nil {
		return err
	}
	log.Infof("imported %d courses", len(courses))
	return nil
}
