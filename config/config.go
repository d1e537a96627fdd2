// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	DbHost         string `mapstructure:"POSTGRES_HOST"`
	DbPort         string `mapstructure:"POSTGRES_PORT"`
	DbName         string `mapstructure:"POSTGRES_DB"`
	DbUser         string `mapstructure:"POSTGRES_USER"`
	DbPas          string `mapstructure:"POSTGRES_PASSWORD"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	MigrateOnStart bool   `mapstructure:"MIGRATE_ON_START"`
}

var defaults = map[string]any{
	"SERVER_PORT":       "8080",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_DB":       "catalog",
	"POSTGRES_USER":     "catalog",
	"POSTGRES_PASSWORD": "",
	"LOG_LEVEL":         "info",
	"MIGRATE_ON_START":  false,
}

// Load reads envFiles (missing files are ignored) into the process environment
// and then decodes the environment into a Config. Variables already set in the
// environment win over values from the files.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cf, nil
}

// DSN is the keyword/value connection string understood by both pgx and lib/pq.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DbHost, c.DbPort, c.DbUser, c.DbPas, c.DbName)
}

func (c *Config) Addr() string {
	return ":" + c.ServerPort
}
