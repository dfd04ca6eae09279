package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:               "8080",
		Env:                "development",
		DBPassword:         "password",
		JWTSecret:          "dev-secret-change-in-production",
		AccessTokenTTLMin:  15,
		RefreshTokenTTLDay: 7,
		S3Bucket:           "payment-receipts",
		MaxUploadSizeMB:    10,
		AllowedExtensions:  ".jpg,.jpeg,.png,.pdf",
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.Port = "" }, "PORT"},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"missing bucket", func(c *Config) { c.S3Bucket = "" }, "S3_BUCKET"},
		{"zero upload size", func(c *Config) { c.MaxUploadSizeMB = 0 }, "MAX_UPLOAD_SIZE_MB"},
		{"no extensions", func(c *Config) { c.AllowedExtensions = "" }, "ALLOWED_EXTENSIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateProductionRejectsDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = strings.Repeat("s", 32)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	cfg.DBPassword = "an-actual-strong-password"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3 credentials")

	cfg.S3AccessKey = "key"
	cfg.S3SecretKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestTTLHelpers(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL())
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSizeBytes())
}

func TestAllowedExtensionList(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".pdf"}, cfg.AllowedExtensionList())

	cfg.AllowedExtensions = "JPG, .Png ,,pdf"
	assert.Equal(t, []string{".jpg", ".png", ".pdf"}, cfg.AllowedExtensionList())
}
