package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "nl", cfg.Catalog.Locale)
	assert.Equal(t, MailProviderLog, cfg.Mail.Provider)
	assert.Equal(t, 2500*time.Millisecond, cfg.Signup.SuccessDelay)
	assert.Zero(t, cfg.Signup.Timeout)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, cfg.DeliveryLog.Retention)
	assert.Empty(t, cfg.Dedupe.Secret)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://uncodesociety.org, http://localhost:5173 ,")
	t.Setenv("MAIL_PROVIDER", "RESEND")
	t.Setenv("DUPLICATE_GUARD_TTL", "bogus")
	t.Setenv("ENABLE_DELIVERY_LOG", "true")
	t.Setenv("CATALOG_LOCALE", "EN")
	t.Setenv("DELIVERY_LOG_RETENTION", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://uncodesociety.org", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, MailProviderResend, cfg.Mail.Provider)
	assert.Equal(t, 10*time.Minute, cfg.Dedupe.TTL)
	assert.True(t, cfg.DeliveryLog.Enabled)
	assert.Equal(t, "en", cfg.Catalog.Locale)
	assert.Equal(t, 48*time.Hour, cfg.DeliveryLog.Retention)
}

func TestCatalogLocation(t *testing.T) {
	assert.Equal(t, time.UTC, CatalogConfig{}.Location())
	assert.Equal(t, time.UTC, CatalogConfig{Timezone: "Nowhere/Invalid"}.Location())
	assert.Equal(t, "Europe/Amsterdam", CatalogConfig{Timezone: "Europe/Amsterdam"}.Location().String())
}
