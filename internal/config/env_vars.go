package config

import (
	"os"
	"path/filepath"
)

const (
	appNameVar     = "PORTAL_APP_NAME"
	baseURLVar     = "PORTAL_BASE_URL"
	timeoutVar     = "PORTAL_TIMEOUT"
	sessionFileVar = "PORTAL_SESSION_FILE"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Portal")
}

// GetBaseURL returns the backend's API root, e.g.
// "https://portal.example.org/api/".
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8000/api/")
}

// GetTimeout returns the per-call timeout as a duration string.
func (EnvVars) GetTimeout() string {
	return GetEnv(timeoutVar, "30s")
}

// GetSessionFile returns where the CLI persists the session between runs.
func (EnvVars) GetSessionFile() string {
	if path := os.Getenv(sessionFileVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".portal-session.json"
	}
	return filepath.Join(home, ".portal", "session.json")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
