package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertUser stores a user row directly and returns its id, for repository tests that need
// a valid foreign key without going through the user package.
func InsertUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, googleId string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(ctx,
		`INSERT INTO users (uid, google_id, given_name, family_name) VALUES ($1, $2, 'Test', 'User') RETURNING id`,
		uuid.NewString(), googleId,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
