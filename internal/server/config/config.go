// Package config handles configuration for the server component: defaults,
// dotenv and environment variables, a JSON overlay and command-line flags,
// applied in that order.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/common"
	"github.com/dmitrijs2005/learnpoke/internal/cryptox"
	"github.com/dmitrijs2005/learnpoke/internal/logging"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - DatabaseDSN: credential store DSN; the scheme selects the backend
//     (mongodb://, postgres://, memory://).
//   - SecretKey: HMAC secret for signing tokens (HS256). Has no default.
//   - AccessTokenValidityDuration: issued token lifetime.
//   - PasswordSalt / PasswordIterations: PBKDF2 parameters shared by all users.
//   - LogFormat: "json" or "text".
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	PasswordSalt                []byte
	PasswordIterations          int
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults. SecretKey is left
// empty on purpose so a missing secret is caught by Validate.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = "mongodb://localhost:27017"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = time.Hour
	c.PasswordSalt = append([]byte(nil), cryptox.DefaultSalt...)
	c.PasswordIterations = cryptox.DefaultIterations
	c.LogFormat = logging.FormatJSON
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: JWT_SECRET is not set", common.ErrConfigurationMissing)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("%w: database DSN is not set", common.ErrConfigurationMissing)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (and an optional .env file), an optional JSON file
// and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
