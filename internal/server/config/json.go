package config

import (
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/learnpoke/internal/flagx"
	"github.com/dmitrijs2005/learnpoke/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "1h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PasswordSalt                string         `json:"password_salt"`
	PasswordIterations          int            `json:"password_iterations"`
	LogFormat                   string         `json:"log_format"`
}

// parseJson overlays values from the JSON file passed via -c or -config.
// Only fields present with a non-zero value replace what is already in
// config. An unreadable file, invalid JSON or a non-hex salt panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err = json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.PasswordSalt != "" {
		salt, err := hex.DecodeString(c.PasswordSalt)
		if err != nil {
			panic(err)
		}
		config.PasswordSalt = salt
	}
	if c.PasswordIterations != 0 {
		config.PasswordIterations = c.PasswordIterations
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
}
