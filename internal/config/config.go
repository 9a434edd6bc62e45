// Package config loads server configuration from file, environment, and
// defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config keys.
const (
	keyAddr      = "server.addr"
	keyDBPath    = "db.path"
	keyJWTSecret = "auth.jwt_secret"
)

// Config holds the resolved server configuration.
type Config struct {
	Addr      string
	DBPath    string
	JWTSecret string
}

// Load reads configuration with precedence: explicit config file (if given),
// then findnest.yaml in the working directory, then FINDNEST_* environment
// variables, then defaults. A missing config file is not an error; an
// unreadable one is. When JWTSecret is empty the server persists a generated
// secret in the database settings table.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault(keyAddr, ":8080")
	v.SetDefault(keyDBPath, "findnest.sqlite3")
	v.SetDefault(keyJWTSecret, "")

	v.SetEnvPrefix("FINDNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("findnest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Missing config file: defaults and environment apply.
	}

	return &Config{
		Addr:      v.GetString(keyAddr),
		DBPath:    v.GetString(keyDBPath),
		JWTSecret: v.GetString(keyJWTSecret),
	}, nil
}
