// Package credentials loads API keys from standard locations.
package credentials

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvKey is the environment variable the model backend key is read from.
const EnvKey = "GEMINI_API_KEY"

// Credentials holds API keys loaded from credentials.toml.
type Credentials struct {
	Google *ProviderCreds `toml:"google"`
}

// ProviderCreds holds credentials for a single provider.
type ProviderCreds struct {
	APIKey string `toml:"api_key"`
}

// StandardPaths returns the credential file locations in order of priority.
func StandardPaths() []string {
	paths := []string{"credentials.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "parley", "credentials.toml"))
	}
	return paths
}

// Load loads credentials from the first available standard location. A
// missing file is not an error; the environment fallback covers it.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil
}

// LoadFile loads credentials from a specific file.
func LoadFile(path string) (*Credentials, error) {
	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Apply sets environment variables from loaded credentials, keeping any
// values already present in the environment.
func (c *Credentials) Apply() {
	if c == nil {
		return
	}
	if c.Google != nil && c.Google.APIKey != "" {
		setIfEmpty(EnvKey, c.Google.APIKey)
	}
}

// APIKey resolves the model backend key: environment (including anything
// loaded from .env) first, then the credentials file.
func APIKey() string {
	if key := os.Getenv(EnvKey); key != "" {
		return key
	}
	creds, _, err := Load()
	if err != nil || creds == nil || creds.Google == nil {
		return ""
	}
	return creds.Google.APIKey
}

func setIfEmpty(key, value string) {
	if os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}
