package config

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// Environment variables read by parseEnv. MONGO_DB_CONNECTION is kept for
// existing deployments; DATABASE_DSN wins when both are set.
const (
	envSecret             = "JWT_SECRET"
	envMongoConnection    = "MONGO_DB_CONNECTION"
	envDatabaseDSN        = "DATABASE_DSN"
	envHTTPAddress        = "HTTP_ADDRESS"
	envAccessTokenTTL     = "ACCESS_TOKEN_VALIDITY"
	envPasswordSalt       = "PASSWORD_SALT"
	envPasswordIterations = "PASSWORD_ITERATIONS"
	envLogFormat          = "LOG_FORMAT"
)

// parseEnv loads the dotenv file named by -env (".env" by default) into the
// process environment and copies the recognised variables into config.
// A missing dotenv file is not an error; variables already present in the
// environment are not overridden by it. Malformed values panic.
func parseEnv(config *Config) {
	envFile := flagx.EnvFile()
	if envFile == "" {
		envFile = defaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(envSecret); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(envMongoConnection); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envHTTPAddress); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(envAccessTokenTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = d
	}
	if v, ok := os.LookupEnv(envPasswordSalt); ok && v != "" {
		salt, err := hex.DecodeString(v)
		if err != nil {
			panic(err)
		}
		config.PasswordSalt = salt
	}
	if v, ok := os.LookupEnv(envPasswordIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.PasswordIterations = n
	}
	if v, ok := os.LookupEnv(envLogFormat); ok && v != "" {
		config.LogFormat = v
	}
}
