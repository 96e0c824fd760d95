// ABOUTME: Server configuration loaded from ENGINE_* environment variables.
// ABOUTME: Grounded on spec/server/config.go's ConfigFromEnv shape and defaulting style.
package server

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Home                string // data directory (ENGINE_HOME, default ~/.ttrpg-engine)
	Bind                string // socket address (ENGINE_BIND, default 127.0.0.1:8780)
	EngineKey           string // pre-shared header token (ENGINE_KEY, default "dev-secret-key")
	AIOnlyStreakLimit   int    // ENGINE_AI_ONLY_STREAK_LIMIT, default 3
	DMOmniscientPrivate bool   // ENGINE_DM_OMNISCIENT_PRIVATE, default true
}

// ConfigFromEnv loads configuration from ENGINE_* environment variables with defaults.
func ConfigFromEnv() (*Config, error) {
	home := envOrDefault("ENGINE_HOME", "")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "/tmp"
		}
		home = filepath.Join(homeDir, ".ttrpg-engine")
	}

	bind := envOrDefault("ENGINE_BIND", "127.0.0.1:8780")
	key := envOrDefault("ENGINE_KEY", "dev-secret-key")

	streakLimit := 3
	if v := os.Getenv("ENGINE_AI_ONLY_STREAK_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			streakLimit = n
		}
	}

	dmOmniscient := true
	if v := os.Getenv("ENGINE_DM_OMNISCIENT_PRIVATE"); v != "" {
		dmOmniscient = v == "true" || v == "1" || v == "yes"
	}

	return &Config{
		Home:                home,
		Bind:                bind,
		EngineKey:           key,
		AIOnlyStreakLimit:   streakLimit,
		DMOmniscientPrivate: dmOmniscient,
	}, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
