// Package config provides game configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full game configuration, loaded once at startup and
// passed by reference into every component.
type Config struct {
	Game       GameConfig    `yaml:"game"`
	Countries  []string      `yaml:"countries"`
	Features   FeatureConfig `yaml:"features"`
	Model      string        `yaml:"model"`
	CheapModel string        `yaml:"cheap_model"` // economical model for high-volume phases
	API        APIConfig     `yaml:"api"`
	Season     SeasonConfig  `yaml:"season"`
	Context    ContextConfig `yaml:"context"`
	Paths      PathsConfig   `yaml:"paths"`
}

// GameConfig holds free-form game metadata.
type GameConfig struct {
	Notes string `yaml:"notes"`
}

// FeatureConfig holds the mode flags. See Mode for derived capabilities.
type FeatureConfig struct {
	FogOfWar bool `yaml:"fog_of_war"`
	Gunboat  bool `yaml:"gunboat"`
	Imperial bool `yaml:"imperial"`
	Chess    bool `yaml:"chess"`
}

// APIConfig holds model-call settings.
type APIConfig struct {
	MaxRetries int `yaml:"max_retries"`
}

// SeasonConfig holds season control parameters.
type SeasonConfig struct {
	TurnRounds int `yaml:"turn_rounds"`
}

// ContextConfig controls context assembly.
type ContextConfig struct {
	// MaxConversationLines truncates each conversation to its last N lines
	// when assembling context. 0 means unlimited.
	MaxConversationLines int `yaml:"max_conversation_lines"`
}

// PathsConfig names the documents and directories the game lives in.
// Filenames are relative to the country directory (or the data directory for
// shared documents); directories are relative to the working directory.
type PathsConfig struct {
	DataDir          string `yaml:"data_dir"`
	ConversationsDir string `yaml:"conversations_dir"`
	ModesDir         string `yaml:"modes_dir"`
	GameState        string `yaml:"game_state"`
	GameHistory      string `yaml:"game_history"`
	Scratchpad       string `yaml:"scratchpad"`
	Orders           string `yaml:"orders"`
	Plans            string `yaml:"plans"`
	Notes            string `yaml:"notes"`
	Lessons          string `yaml:"lessons"`
	TurnOrder        string `yaml:"turn_order"`
	OrdersDocument   string `yaml:"orders_document"`
}

// Default returns a config with standard Diplomacy settings.
func Default() *Config {
	return &Config{
		Countries: []string{
			"Austria", "England", "France", "Germany", "Italy", "Russia", "Turkey",
		},
		Model:      "gemini-2.5-pro",
		CheapModel: "gemini-2.5-flash",
		API:        APIConfig{MaxRetries: 2},
		Season:     SeasonConfig{TurnRounds: 2},
		Paths: PathsConfig{
			DataDir:          "game",
			ConversationsDir: "conversations",
			ModesDir:         "modes",
			GameState:        "game_state.md",
			GameHistory:      "game_history.md",
			Scratchpad:       "void.md",
			Orders:           "orders.md",
			Plans:            "plans.md",
			Notes:            "notes.md",
			Lessons:          "lessons.md",
			TurnOrder:        "turn_order.txt",
			OrdersDocument:   "orders.md",
		},
	}
}

// LoadFile loads configuration from a YAML file, filling unset fields from
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks for configuration mistakes that should stop the process.
func (c *Config) Validate() error {
	if len(c.Countries) == 0 {
		return fmt.Errorf("no countries configured")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	if c.Season.TurnRounds < 1 {
		c.Season.TurnRounds = 1
	}
	return nil
}

// ModelFor returns the model name for a phase, selecting the economical
// variant when cheap is set and one is configured.
func (c *Config) ModelFor(cheap bool) string {
	if cheap && c.CheapModel != "" {
		return c.CheapModel
	}
	return c.Model
}

// FindCountry resolves a country name case-insensitively, returning the
// properly-cased name and whether it was found.
func (c *Config) FindCountry(name string) (string, bool) {
	for _, country := range c.Countries {
		if strings.EqualFold(country, name) {
			return country, true
		}
	}
	return "", false
}

// CountryDir returns the directory holding a country's files.
func (c *Config) CountryDir(country string) string {
	return filepath.Join(c.Paths.DataDir, country)
}

// ConversationsDir returns the shared conversations directory.
func (c *Config) ConversationsDir() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.ConversationsDir)
}

// TurnOrderPath returns the turn-order persistence file.
func (c *Config) TurnOrderPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.TurnOrder)
}

// OrdersDocumentPath returns the consolidated orders document.
func (c *Config) OrdersDocumentPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.OrdersDocument)
}
