package course

import (
	"errors"
	"fmt"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCourseHasNoBadge = errors.New("course has no badge")
	ErrInvalidCourse    = errors.New("invalid course")
)

// Course is a node of the course tree. A course is completed once the user holds its badge.
type Course struct {
	Id       int
	ParentId *int
	Topic    string
	BadgeId  *int
	Concepts []Concept
}

type Concept struct {
	Id       int
	Name     string
	Content  string
	Position int
	Answers  []Answer
}

type Answer struct {
	Id      int
	Text    string
	Correct bool
}

type CourseStatus struct {
	Course
	Completed bool
}

// Completion is the outcome of finishing a course. AlreadyCompleted is set when the
// course badge was held before, in which case no experience points were added.
type Completion struct {
	CourseId              int
	AlreadyCompleted      bool
	BadgeId               int
	BadgeName             string
	ExperiencePoints      int
	TotalExperiencePoints int
	LevelId               int // 0 when no level resolves
	LevelChanged          bool
}

func (c Course) Validate() error {
	if c.Id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidCourse)
	}
	if c.Topic == "" {
		return fmt.Errorf("%w: course %d has no topic", ErrInvalidCourse, c.Id)
	}
	if c.ParentId != nil && *c.ParentId == c.Id {
		return fmt.Errorf("%w: course %d is its own parent", ErrInvalidCourse, c.Id)
	}
	for _, concept := range c.Concepts {
		if concept.Name == "" {
			return fmt.Errorf("%w: course %d has a concept without name", ErrInvalidCourse, c.Id)
		}
	}
	return nil
}
