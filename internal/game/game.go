// Package game sets up, inspects, and tears down the on-disk game state.
package game

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/modes"
	"github.com/openclaw/parley/internal/store"
)

//go:embed initial
var initial embed.FS

func initialFile(name string) []byte {
	data, err := initial.ReadFile("initial/" + name)
	if err != nil {
		// The embedded tree always contains the seed documents.
		panic(err)
	}
	return data
}

// Init prepares a fresh game: country directories, starting board
// documents, the conversations directory when messaging is on, and the
// editable prompt overlays. With keep set, existing game files survive
// and only missing pieces are filled in.
func Init(cfg *config.Config, out *console.Reporter, keep bool) error {
	if !keep {
		if err := Cleanup(cfg, out); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		return err
	}

	state := initialFile("game_state.md")
	history := initialFile("game_history.md")
	mode := cfg.Mode()

	for _, country := range cfg.Countries {
		dir := cfg.CountryDir(country)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if !mode.SharedBoard() {
			// Each country gets a private board view plus a permanent
			// record of the public starting position.
			for _, name := range []string{cfg.Paths.GameState, "beginning_info.md"} {
				if err := seedFile(filepath.Join(dir, name), state, keep); err != nil {
					return err
				}
			}
			if err := seedFile(filepath.Join(dir, cfg.Paths.GameHistory), history, keep); err != nil {
				return err
			}
		}
		out.Successf("%s ready", country)
	}

	if mode.SharedBoard() {
		// An operator-supplied beginning_info.md in the working
		// directory takes the place of the stock starting position.
		board := state
		if custom, err := os.ReadFile("beginning_info.md"); err == nil {
			board = custom
			out.Successf("board seeded from beginning_info.md")
		}
		if err := seedFile(filepath.Join(cfg.Paths.DataDir, cfg.Paths.GameState), board, keep); err != nil {
			return err
		}
		if err := seedFile(filepath.Join(cfg.Paths.DataDir, cfg.Paths.GameHistory), history, keep); err != nil {
			return err
		}
	}

	if mode.Messaging() {
		if err := os.MkdirAll(cfg.ConversationsDir(), 0o755); err != nil {
			return err
		}
	}

	if err := modes.WriteDefaults(cfg.Paths.ModesDir); err != nil {
		return err
	}
	out.Successf("game initialized (%s)", mode.Name())
	return nil
}

// seedFile writes a starting document, refusing to clobber an existing
// one when keep is set.
func seedFile(path string, content []byte, keep bool) error {
	if keep {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
	}
	return os.WriteFile(path, content, 0o644)
}

// Cleanup removes the game data directory. Prompt overlays under the
// modes directory are left alone.
func Cleanup(cfg *config.Config, out *console.Reporter) error {
	if _, err := os.Stat(cfg.Paths.DataDir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(cfg.Paths.DataDir); err != nil {
		return err
	}
	out.Successf("removed %s", cfg.Paths.DataDir)
	return nil
}

// minBoardSize is the rough point below which a board document is a
// placeholder rather than a playable starting position.
const minBoardSize = 100

// Status prints a summary of the current game: season, mode, board
// document readiness, per-country files, and conversation activity.
func Status(cfg *config.Config, out *console.Reporter) error {
	if _, err := os.Stat(cfg.Paths.DataDir); os.IsNotExist(err) {
		return fmt.Errorf("no game at %s, run init first", cfg.Paths.DataDir)
	}
	st := store.New(cfg)
	mode := cfg.Mode()

	out.Section("Game Status")
	out.Printf("Mode:   %s", mode.Name())
	out.Printf("Season: %s", st.CurrentSeason(mode, cfg.Countries))

	if mode.SharedBoard() {
		reportBoardFile(out, "shared "+cfg.Paths.GameState, st.SharedPath(cfg.Paths.GameState))
		reportBoardFile(out, "shared "+cfg.Paths.GameHistory, st.SharedPath(cfg.Paths.GameHistory))
	}

	if mode.Messaging() {
		conversations, err := st.ConversationFiles()
		if err != nil {
			return err
		}
		out.Printf("Conversations: %d", len(conversations))
		for _, path := range conversations {
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			// Every appended message carries one bold sender label.
			estimate := strings.Count(string(content), "**") / 2
			name := strings.TrimSuffix(filepath.Base(path), ".md")
			out.Printf("  %s: ~%d messages", name, estimate)
		}
	}

	for _, country := range cfg.Countries {
		out.Printf("%s:", country)
		if _, err := os.Stat(cfg.CountryDir(country)); os.IsNotExist(err) {
			out.Warnf("directory missing, run init")
			continue
		}
		if !mode.SharedBoard() {
			reportBoardFile(out, cfg.Paths.GameState, st.CountryPath(country, cfg.Paths.GameState))
			reportBoardFile(out, cfg.Paths.GameHistory, st.CountryPath(country, cfg.Paths.GameHistory))
		}
		files, err := st.ListCountryFiles(country)
		if err != nil {
			out.Warnf("%v", err)
			continue
		}
		if len(files) > 0 {
			out.Successf("files: %s", strings.Join(files, ", "))
		}
	}

	if _, err := os.Stat(cfg.OrdersDocumentPath()); err == nil {
		out.Successf("orders document present")
	} else {
		out.Warnf("no orders document yet")
	}
	return nil
}

func reportBoardFile(out *console.Reporter, label, path string) {
	if info, err := os.Stat(path); err == nil && info.Size() > minBoardSize {
		out.Successf("%s ready", label)
	} else {
		out.Warnf("%s needs content", label)
	}
}
