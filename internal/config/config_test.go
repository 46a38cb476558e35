package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "budgetquest", cfg.Database.Schema)
	})

	t.Run("should override defaults with file values", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := []byte("server:\n  port: 9090\ndb:\n  host: db.internal\n  name: quest\ngoogle:\n  clientid: abc.apps.googleusercontent.com\n")
		require.NoError(t, os.WriteFile(path, content, 0644))

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "quest", cfg.Database.Name)
		assert.Equal(t, "budgetquest", cfg.Database.User)
		assert.Equal(t, "abc.apps.googleusercontent.com", cfg.Google.ClientId)
	})

	t.Run("should override file values with environment", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("db:\n  host: db.internal\n"), 0644))
		t.Setenv("BUDGETQUEST_DB_HOST", "db.from.env")
		t.Setenv("BUDGETQUEST_DB_PASS", "secret")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "db.from.env", cfg.Database.Host)
		assert.Equal(t, "secret", cfg.Database.Pass)
	})

	t.Run("should fail on malformed file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

		// when
		_, err := Load(path)

		// then
		assert.Error(t, err)
	})
}
