package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Trakt
	TraktUsername string
	TraktAPIKey   string

	// TMDB (optional; artwork enrichment is skipped when empty)
	TMDBAPIKey string

	// Sync
	SyncPageSize     int // events fetched per incremental run (default: 10)
	FullSyncPageSize int // page size for the full-history backfill (default: 10)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gowatcharr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SYNC_PAGE_SIZE", 10)
	viper.SetDefault("FULL_SYNC_PAGE_SIZE", 10)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gowatcharr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// Trakt
		TraktUsername: viper.GetString("TRAKT_USERNAME"),
		TraktAPIKey:   viper.GetString("TRAKT_API_KEY"),

		// TMDB
		TMDBAPIKey: viper.GetString("TMDB_API_KEY"),

		// Sync
		SyncPageSize:     viper.GetInt("SYNC_PAGE_SIZE"),
		FullSyncPageSize: viper.GetInt("FULL_SYNC_PAGE_SIZE"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "gowatcharr.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.TraktUsername == "" {
		return nil, fmt.Errorf("TRAKT_USERNAME is required")
	}
	if config.TraktAPIKey == "" {
		return nil, fmt.Errorf("TRAKT_API_KEY is required")
	}

	return config, nil
}
