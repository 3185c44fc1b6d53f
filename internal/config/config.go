// Package config loads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment keys
const (
	KeyDatabaseURL     = "DATABASE_URL"
	KeySchema          = "DB_SCHEMA"
	KeyMigrationsTable = "MIGRATIONS_TABLE"
	KeyLogPath         = "LOG_PATH"
	KeyDebug           = "DEBUG"
)

type Config struct {
	DatabaseURL     string
	Schema          string
	MigrationsTable string
	LogPath         string
	Debug           bool
}

// Load reads envFile into the process environment when it exists, then
// resolves every setting from v. Values already bound on v, such as command
// line flags, win over the environment.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v.SetDefault(KeyMigrationsTable, "migrations")
	v.SetDefault(KeyLogPath, "logs/")
	v.SetDefault(KeyDebug, false)
	v.AutomaticEnv()

	return &Config{
		DatabaseURL:     v.GetString(KeyDatabaseURL),
		Schema:          v.GetString(KeySchema),
		MigrationsTable: v.GetString(KeyMigrationsTable),
		LogPath:         v.GetString(KeyLogPath),
		Debug:           v.GetBool(KeyDebug),
	}, nil
}
