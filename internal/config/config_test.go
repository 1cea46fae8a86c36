package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postbox/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"RESEND_API_KEY":              "re_test",
		"CONTACT_SENDER_ADDRESS":      "Contact <contact@example.com>",
		"SUBSCRIPTION_SENDER_ADDRESS": "news@example.com",
		"ADMIN_EMAIL":                 "admin@example.com",
	}
}

func with(overrides map[string]string) map[string]string {
	m := baseEnv()
	for k, v := range overrides {
		if v == "" {
			delete(m, k)
			continue
		}
		m[k] = v
	}
	return m
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, config.ProviderResend, cfg.EmailProvider)
	assert.Equal(t, "Newsletter", cfg.SiteName)
	assert.False(t, cfg.ContactSendReceipt)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.RedisURL)

	assert.Equal(t, "re_test", cfg.Resend.APIKey)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, time.Second, cfg.Mailer.PollInterval)
	assert.Equal(t, 30, cfg.Mailer.PollAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Mailer.DedupeTTL)
}

func TestParse_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(with(map[string]string{
		"PORT":                   "8080",
		"SITE_NAME":              "Weekly",
		"CONTACT_SEND_RECEIPT":   "true",
		"RATE_LIMIT_REQUESTS":    "5",
		"RATE_LIMIT_WINDOW":      "1m",
		"DISPATCH_POLL_ATTEMPTS": "3",
		"REDIS_URL":              "redis://localhost:6379/0",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "Weekly", cfg.SiteName)
	assert.True(t, cfg.ContactSendReceipt)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 3, cfg.Mailer.PollAttempts)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"missing contact sender", with(map[string]string{"CONTACT_SENDER_ADDRESS": ""}), config.ErrParse},
		{"missing subscription sender", with(map[string]string{"SUBSCRIPTION_SENDER_ADDRESS": ""}), config.ErrParse},
		{"missing admin", with(map[string]string{"ADMIN_EMAIL": ""}), config.ErrParse},
		{"invalid admin", with(map[string]string{"ADMIN_EMAIL": "admin"}), config.ErrInvalidAdmin},
		{"missing resend key", with(map[string]string{"RESEND_API_KEY": ""}), config.ErrMissingResendKey},
		{"unknown provider", with(map[string]string{"EMAIL_PROVIDER": "smtp"}), config.ErrInvalidProvider},
		{"bad port", with(map[string]string{"PORT": "70000"}), config.ErrInvalidPort},
		{"partial aws keys", with(map[string]string{"EMAIL_PROVIDER": "ses", "AWS_ACCESS_KEY_ID": "AKIA"}), config.ErrPartialAWSKeys},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Parse(tt.env)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Providers(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(with(map[string]string{
		"EMAIL_PROVIDER": "ses",
		"RESEND_API_KEY": "",
		"AWS_REGION":     "eu-west-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.SES.Region)

	_, err = config.Parse(with(map[string]string{"EMAIL_PROVIDER": "log", "RESEND_API_KEY": ""}))
	require.NoError(t, err)
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Port: 0, EmailProvider: config.ProviderResend, AdminEmail: "nope"}
	err := cfg.Validate()

	assert.ErrorIs(t, err, config.ErrInvalidPort)
	assert.ErrorIs(t, err, config.ErrMissingResendKey)
	assert.ErrorIs(t, err, config.ErrInvalidAdmin)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"EMAIL_PROVIDER=log\n"+
			"CONTACT_SENDER_ADDRESS=contact@example.com\n"+
			"SUBSCRIPTION_SENDER_ADDRESS=news@example.com\n"+
			"ADMIN_EMAIL=admin@example.com\n"+
			"SITE_NAME=From File\n",
	), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("SITE_NAME", "From Env")
	for _, k := range []string{"EMAIL_PROVIDER", "CONTACT_SENDER_ADDRESS", "SUBSCRIPTION_SENDER_ADDRESS", "ADMIN_EMAIL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderLog, cfg.EmailProvider)
	assert.Equal(t, "From Env", cfg.SiteName)

	_, err = config.Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
}
