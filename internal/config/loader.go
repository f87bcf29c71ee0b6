package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// APIKeyEnv names the environment variable holding the OpenAI key.
const APIKeyEnv = "OPENAI_API_KEY"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file, or returns defaults when none exists.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// ConfigDir returns ~/.config/copainter.
func ConfigDir() string {
	home, _ := homedir.Dir()
	return filepath.Join(home, ".config", "copainter")
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		p, err := homedir.Expand(l.OverridePath)
		if err == nil {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	// Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".copainterrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	for _, name := range []string{"config.rc", "copainter.rc"} {
		p := filepath.Join(ConfigDir(), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// DefaultSavePath is where "config save" writes when no path is given.
func DefaultSavePath() string {
	return filepath.Join(ConfigDir(), "config.rc")
}

// LoadEnv reads .env files from the working directory and the config
// directory. Variables already set in the environment win.
func LoadEnv() {
	for _, p := range []string{".env", filepath.Join(ConfigDir(), ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// APIKey loads .env files and returns OPENAI_API_KEY.
func APIKey() string {
	LoadEnv()
	return os.Getenv(APIKeyEnv)
}
