package store

import (
	"os"
	"strings"

	"github.com/openclaw/parley/internal/config"
)

// CurrentSeason reads the season label from the first line of the
// authoritative game-state document. The state file is the single source of
// truth for game time; there is no separate counter to drift out of sync.
// With a shared board that is the shared document; under fog of war each
// country's document starts with the same label, so the first configured
// country's copy is read.
func (s *Store) CurrentSeason(mode config.Mode, countries []string) string {
	path := s.SharedPath(s.gameState)
	if !mode.SharedBoard() && len(countries) > 0 {
		path = s.CountryPath(countries[0], s.gameState)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "Unknown"
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "Unknown"
	}
	return line
}
