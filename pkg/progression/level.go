package progression

import (
	"fmt"
	"slices"
)

// ResolveLevel returns the level with the greatest threshold not above totalExperiencePoints.
// The table must contain a threshold-0 floor level, otherwise ErrNoLevelFound is returned.
func ResolveLevel(levels []Level, totalExperiencePoints int) (Level, error) {
	hasFloor := false
	var best Level
	found := false
	for _, l := range levels {
		if l.ExperiencePointsThreshold == 0 {
			hasFloor = true
		}
		if l.ExperiencePointsThreshold > totalExperiencePoints {
			continue
		}
		if !found || l.ExperiencePointsThreshold > best.ExperiencePointsThreshold {
			best = l
			found = true
		}
	}
	if !hasFloor || !found {
		return Level{}, fmt.Errorf("%w: %d", ErrNoLevelFound, totalExperiencePoints)
	}
	return best, nil
}

// NextLevel returns the level following current, or ErrLevelNotFound at the top of the table.
func NextLevel(levels []Level, current Level) (Level, error) {
	for _, l := range levels {
		if l.Id == current.Id+1 {
			return l, nil
		}
	}
	return Level{}, fmt.Errorf("%w: no level after %d", ErrLevelNotFound, current.Id)
}

// ValidateLevels checks that ids are consecutive from 1, thresholds strictly increase with id
// and the first level is the threshold-0 floor.
func ValidateLevels(levels []Level) error {
	if len(levels) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidLevels)
	}
	sorted := slices.Clone(levels)
	slices.SortFunc(sorted, func(a, b Level) int { return a.Id - b.Id })

	for i, l := range sorted {
		if l.Id != i+1 {
			return fmt.Errorf("%w: expected level id %d, got %d", ErrInvalidLevels, i+1, l.Id)
		}
		if i == 0 {
			if l.ExperiencePointsThreshold != 0 {
				return fmt.Errorf("%w: first level must have threshold 0", ErrInvalidLevels)
			}
			continue
		}
		if l.ExperiencePointsThreshold <= sorted[i-1].ExperiencePointsThreshold {
			return fmt.Errorf("%w: threshold of level %d must be above %d", ErrInvalidLevels, l.Id, sorted[i-1].ExperiencePointsThreshold)
		}
	}
	return nil
}
