package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	AppName     = "comicscan-bot"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// DefaultDBPath returns the database location used when COMICSCAN_DB_PATH
// is not set.
func DefaultDBPath() string {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return "comicscan.db"
	}
	dir := filepath.Join(configBase, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "comicscan.db"
	}
	return filepath.Join(dir, "comicscan.db")
}
