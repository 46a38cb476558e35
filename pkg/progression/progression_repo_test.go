package progression

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/budgetquest/budgetquest/internal/test_utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl, int) {
	ctx := context.Background()
	require.NoError(t, test_utils.ResetDB(ctx, db))
	repo := NewProgressionRepo(db)
	require.NoError(t, repo.ImportCatalog(ctx,
		[]Badge{
			{Id: 3, Name: "Budget Beginner", Description: "Set up a budget", IconUrl: "https://icons/3.png", ExperiencePoints: 50},
			{Id: 4, Name: "Saver", ExperiencePoints: 60},
		},
		levelTable,
	))
	userId := test_utils.InsertUser(t, ctx, db, "google-progression")
	return ctx, repo, userId
}

func TestRepositoryImpl_AwardBadge(t *testing.T) {
	t.Run("should store award and add experience points", func(t *testing.T) {
		ctx, repo, userId := setupTestRepository(t)

		badge, total, err := repo.AwardBadge(ctx, userId, 3)

		require.NoError(t, err)
		assert.Equal(t, "Budget Beginner", badge.Name)
		assert.Equal(t, 50, total)
		xp, err := repo.GetExperiencePoints(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, 50, xp)
		badges, err := repo.ListUserBadges(ctx, userId)
		require.NoError(t, err)
		require.Len(t, badges, 1)
		assert.Equal(t, "https://icons/3.png", badges[0].Badge.IconUrl)
		assert.False(t, badges[0].Awarded.IsZero())
	})

	t.Run("should fail on second award without adding experience points", func(t *testing.T) {
		ctx, repo, userId := setupTestRepository(t)
		_, _, err := repo.AwardBadge(ctx, userId, 3)
		require.NoError(t, err)

		_, _, err = repo.AwardBadge(ctx, userId, 3)

		assert.ErrorIs(t, err, ErrAlreadyAwarded)
		xp, err := repo.GetExperiencePoints(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, 50, xp)
	})

	t.Run("concurrent awards of one badge add experience points once", func(t *testing.T) {
		ctx, repo, userId := setupTestRepository(t)

		var wg sync.WaitGroup
		results := make(chan error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := repo.AwardBadge(ctx, userId, 4)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrAlreadyAwarded)
			}
		}
		assert.Equal(t, 1, succeeded)
		xp, err := repo.GetExperiencePoints(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, 60, xp)
		badges, err := repo.ListUserBadges(ctx, userId)
		require.NoError(t, err)
		assert.Len(t, badges, 1)
	})

	t.Run("should fail for unknown badge", func(t *testing.T) {
		ctx, repo, userId := setupTestRepository(t)

		_, _, err := repo.AwardBadge(ctx, userId, 42)

		assert.ErrorIs(t, err, ErrBadgeNotFound)
	})
}

func TestRepositoryImpl_ImportCatalog(t *testing.T) {
	t.Run("should update existing badges and replace levels", func(t *testing.T) {
		ctx, repo, _ := setupTestRepository(t)

		err := repo.ImportCatalog(ctx,
			[]Badge{{Id: 3, Name: "Renamed", ExperiencePoints: 70}},
			[]Level{{Id: 1, ExperiencePointsThreshold: 0}, {Id: 2, ExperiencePointsThreshold: 1000}},
		)

		require.NoError(t, err)
		badge, err := repo.GetBadge(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", badge.Name)
		assert.Equal(t, 70, badge.ExperiencePoints)
		badges, err := repo.ListBadges(ctx)
		require.NoError(t, err)
		assert.Len(t, badges, 2)
		levels, err := repo.ListLevels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Level{{Id: 1, ExperiencePointsThreshold: 0}, {Id: 2, ExperiencePointsThreshold: 1000}}, levels)
	})

	t.Run("should keep levels when none are given", func(t *testing.T) {
		ctx, repo, _ := setupTestRepository(t)

		require.NoError(t, repo.ImportCatalog(ctx, []Badge{{Id: 5, Name: "Extra"}}, nil))

		levels, err := repo.ListLevels(ctx)
		require.NoError(t, err)
		assert.Equal(t, levelTable, levels)
	})
}

func TestRepositoryImpl_GetBadge(t *testing.T) {
	ctx, repo, _ := setupTestRepository(t)

	_, err := repo.GetBadge(ctx, 77)

	assert.ErrorIs(t, err, ErrBadgeNotFound)
}
