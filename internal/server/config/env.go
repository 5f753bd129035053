package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix starts every environment variable the server reads.
const EnvPrefix = "MYMOMENT_"

// parseEnv loads dotenvFile into the process environment (variables that are
// already set win, and a missing file is fine) and then overlays config with
// the MYMOMENT_* variables. Durations are Go duration strings. Bad values
// panic, like every other config layer.
func parseEnv(config *Config, dotenvFile string) {
	if dotenvFile != "" {
		if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	envString(&config.EndpointAddrGRPC, "ENDPOINT_ADDR_GRPC")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY")
	envDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envDuration(&config.ExportLinkValidityDuration, "EXPORT_LINK_VALIDITY")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		if n, nerr := strconv.Atoi(v); nerr == nil {
			d = time.Duration(n) * time.Minute
		} else {
			panic(err)
		}
	}
	*dst = d
}
