package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, int64(5242880), cfg.Store.QuotaBytes)
	assert.Equal(t, "@every 5m", cfg.Sync.CronSpec)
	assert.False(t, cfg.MailEnabled())
}

func TestValidateBackends(t *testing.T) {
	t.Run("firestore needs credentials", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "firestore")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FIREBASE_CREDENTIALS_PATH")
	})

	t.Run("postgres needs a DSN", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DSN")
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "s3")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("redis backend needs nothing extra", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "redis")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "portfolio:projects", cfg.Redis.Key)
	})
}

func TestAdminUIDList(t *testing.T) {
	t.Setenv("ADMIN_UIDS", "uid-1, uid-2 ,,uid-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"uid-1", "uid-2", "uid-3"}, cfg.Firebase.AdminUIDs)
}

func TestIntFallback(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestMailEnabled(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("MAIL_FROM", "site@example.com")
	t.Setenv("MAIL_TO", "owner@example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MailEnabled())
}
