package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var levelTable = []Level{
	{Id: 1, ExperiencePointsThreshold: 0},
	{Id: 2, ExperiencePointsThreshold: 100},
	{Id: 3, ExperiencePointsThreshold: 500},
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{150, 2},
		{499, 2},
		{500, 3},
		{100000, 3},
	}
	for _, tt := range tests {
		got, err := ResolveLevel(levelTable, tt.xp)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Id, "xp %d", tt.xp)
	}

	t.Run("should not depend on table order", func(t *testing.T) {
		shuffled := []Level{levelTable[2], levelTable[0], levelTable[1]}

		got, err := ResolveLevel(shuffled, 150)

		require.NoError(t, err)
		assert.Equal(t, 2, got.Id)
	})

	t.Run("should fail without floor level", func(t *testing.T) {
		_, err := ResolveLevel(levelTable[1:], 600)
		assert.ErrorIs(t, err, ErrNoLevelFound)

		_, err = ResolveLevel(nil, 0)
		assert.ErrorIs(t, err, ErrNoLevelFound)
	})

	t.Run("should be monotonic in experience points", func(t *testing.T) {
		prev := 0
		for xp := 0; xp <= 1000; xp += 7 {
			l, err := ResolveLevel(levelTable, xp)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, l.Id, prev, "xp %d", xp)
			prev = l.Id
		}
	})
}

func TestNextLevel(t *testing.T) {
	current, err := ResolveLevel(levelTable, 150)
	require.NoError(t, err)

	next, err := NextLevel(levelTable, current)

	require.NoError(t, err)
	assert.Equal(t, 3, next.Id)
	assert.Equal(t, 500, next.ExperiencePointsThreshold)

	_, err = NextLevel(levelTable, next)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestValidateLevels(t *testing.T) {
	tests := []struct {
		name    string
		levels  []Level
		wantErr bool
	}{
		{"valid table", levelTable, false},
		{"valid unordered table", []Level{levelTable[1], levelTable[0]}, false},
		{"empty table", nil, true},
		{"no floor", []Level{{Id: 1, ExperiencePointsThreshold: 10}}, true},
		{"gap in ids", []Level{{Id: 1, ExperiencePointsThreshold: 0}, {Id: 3, ExperiencePointsThreshold: 10}}, true},
		{"equal thresholds", []Level{{Id: 1, ExperiencePointsThreshold: 0}, {Id: 2, ExperiencePointsThreshold: 0}}, true},
		{"decreasing thresholds", []Level{{Id: 1, ExperiencePointsThreshold: 0}, {Id: 2, ExperiencePointsThreshold: 50}, {Id: 3, ExperiencePointsThreshold: 40}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLevels(tt.levels)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLevels)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
