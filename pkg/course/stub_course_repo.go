package course

import (
	"context"
	"slices"
)

// StubCourseRepository keeps courses in memory. Completion is derived from the badge ids
// registered per user with SetUserBadges.
type StubCourseRepository struct {
	courses    []Course
	userBadges map[int][]int
}

func NewStubCourseRepository() *StubCourseRepository {
	return &StubCourseRepository{userBadges: map[int][]int{}}
}

func (s *StubCourseRepository) SetUserBadges(userId int, badgeIds ...int) {
	s.userBadges[userId] = badgeIds
}

func (s *StubCourseRepository) ListCourses(ctx context.Context) ([]Course, error) {
	result := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		c.Concepts = nil
		result = append(result, c)
	}
	return result, nil
}

func (s *StubCourseRepository) GetCourse(ctx context.Context, courseId int) (Course, error) {
	for _, c := range s.courses {
		if c.Id == courseId {
			return c, nil
		}
	}
	return Course{}, ErrCourseNotFound
}

func (s *StubCourseRepository) ListCompletedCourseIds(ctx context.Context, userId int) ([]int, error) {
	ids := []int{}
	for _, c := range s.courses {
		if c.BadgeId != nil && slices.Contains(s.userBadges[userId], *c.BadgeId) {
			ids = append(ids, c.Id)
		}
	}
	return ids, nil
}

func (s *StubCourseRepository) ImportCourses(ctx context.Context, courses []Course) error {
	for _, imported := range courses {
		i := slices.IndexFunc(s.courses, func(c Course) bool { return c.Id == imported.Id })
		if i >= 0 {
			s.courses[i] = imported
		} else {
			s.courses = append(s.courses, imported)
		}
	}
	slices.SortFunc(s.courses, func(a, b Course) int { return a.Id - b.Id })
	return nil
}
