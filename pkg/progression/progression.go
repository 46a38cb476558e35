package progression

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadyAwarded = errors.New("badge already awarded")
	ErrBadgeNotFound  = errors.New("badge not found")
	ErrNoLevelFound   = errors.New("no level found for experience points")
	ErrLevelNotFound  = errors.New("level not found")
	ErrInvalidLevels  = errors.New("invalid level table")
	ErrInvalidBadge   = errors.New("invalid badge")
)

type Badge struct {
	Id               int
	Name             string
	Description      string
	IconUrl          string
	ExperiencePoints int
}

func (b Badge) Validate() error {
	if b.Id <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidBadge)
	}
	if b.Name == "" {
		return fmt.Errorf("%w: badge %d has no name", ErrInvalidBadge, b.Id)
	}
	if b.ExperiencePoints < 0 {
		return fmt.Errorf("%w: badge %d has negative experience points", ErrInvalidBadge, b.Id)
	}
	return nil
}

type UserBadge struct {
	Badge   Badge
	Awarded time.Time
}

type Level struct {
	Id                        int
	ExperiencePointsThreshold int
}

// AwardResult describes the user's standing after an award attempt. Awarded is false when
// the user already held the badge; totals are then unchanged.
type AwardResult struct {
	Awarded               bool
	Badge                 Badge
	TotalExperiencePoints int
	// Level is nil when the level table cannot resolve the total.
	Level        *Level
	LevelChanged bool
}

type Progress struct {
	TotalExperiencePoints int
	Level                 *Level
	NextLevel             *Level
}
