package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_NoCredentials(t *testing.T) {
	d := Defaults()
	assert.Empty(t, d.DBUser)
	assert.Empty(t, d.DBPassword)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LIGHTBNB_DB_USER", "lightbnb_app")

	c, err := Load()
	require.NoError(t, err)

	want := Defaults()
	want.DBUser = "lightbnb_app"
	assert.Equal(t, want, c)
	assert.Empty(t, c.DBPassword)
}

func TestLoad_RelationalStoreNeedsUser(t *testing.T) {
	for _, store := range []string{"postgres", "mysql"} {
		t.Run(store, func(t *testing.T) {
			t.Setenv("LIGHTBNB_STORE", store)
			t.Setenv("LIGHTBNB_DB_USER", "")
			_, err := Load()
			assert.Error(t, err, "no user configured")
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LIGHTBNB_STORE", "mysql")
	t.Setenv("LIGHTBNB_DB_HOST", "db")
	t.Setenv("LIGHTBNB_DB_PORT", "3306")
	t.Setenv("LIGHTBNB_DB_USER", "app")
	t.Setenv("LIGHTBNB_DB_PASSWORD", "s3cret")
	t.Setenv("LIGHTBNB_CACHE_TTL", "90s")
	t.Setenv("LIGHTBNB_SEED_WORKERS", "3")
	t.Setenv("LIGHTBNB_REDIS_ADDR", "redis:6379")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.Store)
	assert.Equal(t, 3306, c.DBPort)
	assert.Equal(t, 90*time.Second, c.CacheTTL)
	assert.Equal(t, 3, c.SeedWorkers)
	assert.Equal(t, "redis:6379", c.RedisAddr)

	o := c.DBOptions()
	assert.Equal(t, "mysql", o.Driver)
	assert.Equal(t, "db", o.Host)
	assert.Equal(t, 3306, o.Port)
	assert.Equal(t, "app", o.User)
	assert.Equal(t, "s3cret", o.Password)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("LIGHTBNB_DB_USER", "app")
		t.Setenv("LIGHTBNB_STORE", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("database name required", func(t *testing.T) {
		t.Setenv("LIGHTBNB_DB_USER", "app")
		t.Setenv("LIGHTBNB_DB_NAME", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("memory store needs no database", func(t *testing.T) {
		t.Setenv("LIGHTBNB_STORE", "memory")
		t.Setenv("LIGHTBNB_DB_NAME", "")
		_, err := Load()
		assert.NoError(t, err)
	})
}
