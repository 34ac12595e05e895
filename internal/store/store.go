// Package store manages the flat-file game state: per-country document
// directories and the shared conversation log directory.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openclaw/parley/internal/config"
)

// Store is the single authority for the on-disk layout. One directory per
// country holds that country's documents; a shared directory holds one
// conversation file per unique participant set.
type Store struct {
	dataDir          string
	conversationsDir string
	gameState        string
	gameHistory      string
}

// New creates a Store from the configured paths.
func New(cfg *config.Config) *Store {
	return &Store{
		dataDir:          cfg.Paths.DataDir,
		conversationsDir: cfg.ConversationsDir(),
		gameState:        cfg.Paths.GameState,
		gameHistory:      cfg.Paths.GameHistory,
	}
}

// DataDir returns the root data directory.
func (s *Store) DataDir() string { return s.dataDir }

// ConversationsDir returns the shared conversations directory.
func (s *Store) ConversationsDir() string { return s.conversationsDir }

// CountryDir returns the directory holding a country's documents.
func (s *Store) CountryDir(country string) string {
	return filepath.Join(s.dataDir, country)
}

// EnsureCountryDir creates a country's directory if it does not exist.
func (s *Store) EnsureCountryDir(country string) error {
	return os.MkdirAll(s.CountryDir(country), 0o755)
}

// CountryPath returns the path of a named document in a country's directory.
func (s *Store) CountryPath(country, filename string) string {
	return filepath.Join(s.CountryDir(country), filename)
}

// SharedPath returns the path of a shared document in the data directory.
func (s *Store) SharedPath(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

// NormalizeFilename coerces a filename to carry the document extension,
// replacing any other extension. Model-emitted names are frequently wrong
// and tolerating them beats rejecting the write.
func NormalizeFilename(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".md") {
		return name
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i] + ".md"
	}
	return name + ".md"
}

// IsReserved reports whether a (normalized) filename names one of the two
// documents the game master owns. Agents may never write these directly.
func (s *Store) IsReserved(name string) bool {
	lower := strings.ToLower(name)
	return lower == strings.ToLower(s.gameState) || lower == strings.ToLower(s.gameHistory)
}

// ShadowName returns the country-scoped name a reserved write is redirected
// to, e.g. game_state.md -> game_state_france.md.
func ShadowName(name, country string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return fmt.Sprintf("%s_%s.md", base, strings.ToLower(country))
}

// ReadCountryFile reads a document from a country's directory. A missing
// file returns ("", false, nil).
func (s *Store) ReadCountryFile(country, filename string) (string, bool, error) {
	data, err := os.ReadFile(s.CountryPath(country, filename))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// ListCountryFiles returns the names of a country's documents in sorted
// order, excluding the reserved state and history documents.
func (s *Store) ListCountryFiles(country string) ([]string, error) {
	entries, err := os.ReadDir(s.CountryDir(country))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || s.IsReserved(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteFile removes a document from a country's directory. Returns false
// if the file did not exist.
func (s *Store) DeleteFile(country, filename string) (bool, error) {
	err := os.Remove(s.CountryPath(country, filename))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile replaces a document's contents wholesale.
func (s *Store) WriteFile(country, filename, content string) error {
	if err := os.MkdirAll(s.CountryDir(country), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.CountryPath(country, filename), []byte(content), 0o644)
}

// AppendFile appends content to a document, separating old and new content
// with exactly one newline and ending with a trailing newline. A missing
// file is created.
func (s *Store) AppendFile(country, filename, content string) error {
	if err := os.MkdirAll(s.CountryDir(country), 0o755); err != nil {
		return err
	}
	path := s.CountryPath(country, filename)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	text := string(existing)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return os.WriteFile(path, []byte(text+content+"\n"), 0o644)
}

// AppendRaw appends text to an arbitrary file verbatim, creating it if
// absent. Used for season headers and other orchestrator-authored markers.
func AppendRaw(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(text)
	return err
}
