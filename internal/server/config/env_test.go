package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	t.Setenv(EnvPrefix+"DATABASE_DSN", "postgres://env")
	t.Setenv(EnvPrefix+"ACCESS_TOKEN_VALIDITY", "90s")
	t.Setenv(EnvPrefix+"REFRESH_TOKEN_VALIDITY", "60")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, "")

	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration)
	assert.Equal(t, time.Hour, cfg.RefreshTokenValidityDuration, "bare numbers are minutes")
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MYMOMENT_S3_BUCKET=from-dotenv\nMYMOMENT_SECRET_KEY=dotenv-key\n"), 0o600))

	// already exported variables win over the file
	t.Setenv(EnvPrefix+"SECRET_KEY", "exported")
	// registered so the value loaded from the file is removed afterwards
	t.Setenv(EnvPrefix+"S3_BUCKET", "")
	require.NoError(t, os.Unsetenv(EnvPrefix+"S3_BUCKET"))

	cfg := &Config{}
	parseEnv(cfg, path)

	assert.Equal(t, "from-dotenv", cfg.S3Bucket)
	assert.Equal(t, "exported", cfg.SecretKey)
}

func TestParseEnv_MissingDotenvIsFine(t *testing.T) {
	cfg := &Config{SecretKey: "k"}
	require.NotPanics(t, func() { parseEnv(cfg, filepath.Join(t.TempDir(), ".env")) })
	assert.Equal(t, "k", cfg.SecretKey)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv(EnvPrefix+"EXPORT_LINK_VALIDITY", "later")
	assert.Panics(t, func() { parseEnv(&Config{}, "") })
}
