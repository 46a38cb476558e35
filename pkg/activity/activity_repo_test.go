package activity

import (
	"context"
	"os"
	"testing"
	"time"

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

func TestRepositoryImpl_StoreAndList(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, test_utils.ResetDB(ctx, db))
	repo := NewActivityRepo(db)
	userId := test_utils.InsertUser(t, ctx, db, "google-activity")
	otherUserId := test_utils.InsertUser(t, ctx, db, "google-activity-other")

	for i, kind := range []Kind{KindBadgeAwarded, KindLevelReached, KindExpenseRecorded} {
		stored, err := repo.Store(ctx, Entry{
			UserId:  userId,
			Kind:    kind,
			Message: string(kind),
			Created: startTime.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		assert.NotZero(t, stored.Id)
	}
	_, err := repo.Store(ctx, Entry{UserId: otherUserId, Kind: KindBadgeAwarded, Message: "other", Created: startTime})
	require.NoError(t, err)

	entries, err := repo.List(ctx, userId, 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, KindExpenseRecorded, entries[0].Kind)
	assert.Equal(t, KindLevelReached, entries[1].Kind)
	assert.True(t, startTime.Add(2*time.Hour).Equal(entries[0].Created))
	assert.Equal(t, userId, entries[0].UserId)
}
