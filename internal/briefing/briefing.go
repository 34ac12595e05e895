// Package briefing assembles the prompt context for a country: board state,
// history, the country's own files, and its conversations, subject to the
// active mode's visibility rules.
package briefing

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/store"
)

// Assembler builds the context block for one country.
type Assembler struct {
	cfg     *config.Config
	store   *store.Store
	mode    config.Mode
	country string
}

// NewAssembler creates an assembler for a country.
func NewAssembler(cfg *config.Config, st *store.Store, country string) *Assembler {
	return &Assembler{cfg: cfg, store: st, mode: cfg.Mode(), country: country}
}

// Build assembles the full context: state, history, own files, then
// conversations. Missing documents yield placeholders, never errors.
func (a *Assembler) Build() (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Welcome to the game of Diplomacy. Make friends and foes as you scheme your way to victory.\n\n")
	fmt.Fprintf(&b, "You are playing as %s.\n\n", a.country)

	state, err := a.loadBoardDocument(a.cfg.Paths.GameState,
		"No game state yet. Waiting on the game master.")
	if err != nil {
		return "", err
	}
	b.WriteString("# CURRENT GAME STATE\n" + state + "\n\n")

	history, err := a.loadBoardDocument(a.cfg.Paths.GameHistory,
		"No game history yet. The game is just beginning!")
	if err != nil {
		return "", err
	}
	b.WriteString("# GAME HISTORY\n" + history + "\n\n")

	if err := a.writeOwnFiles(&b); err != nil {
		return "", err
	}

	if a.mode.Messaging() {
		if err := a.writeConversations(&b); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

// loadBoardDocument reads a game-master document: the shared copy with a
// shared board, the country's private copy under fog of war.
func (a *Assembler) loadBoardDocument(filename, placeholder string) (string, error) {
	if a.mode.SharedBoard() {
		data, err := readOptional(a.store.SharedPath(filename))
		if err != nil {
			return "", err
		}
		if data == "" {
			return placeholder, nil
		}
		return data, nil
	}
	content, found, err := a.store.ReadCountryFile(a.country, filename)
	if err != nil {
		return "", err
	}
	if !found || strings.TrimSpace(content) == "" {
		return placeholder, nil
	}
	return content, nil
}

func (a *Assembler) writeOwnFiles(b *strings.Builder) error {
	names, err := a.store.ListCountryFiles(a.country)
	if err != nil {
		return err
	}

	// The standard working files always appear, with a placeholder when
	// the country has not written them yet.
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, std := range []string{a.cfg.Paths.Plans, a.cfg.Paths.Notes} {
		if !set[std] {
			names = append(names, std)
		}
	}
	sort.Strings(names)

	b.WriteString("# YOUR FILES\n")
	for _, name := range names {
		content, found, err := a.store.ReadCountryFile(a.country, name)
		if err != nil {
			return err
		}
		if !found || strings.TrimSpace(content) == "" {
			stem := strings.TrimSuffix(name, ".md")
			content = fmt.Sprintf("No %s yet.", strings.ReplaceAll(stem, "_", " "))
		}
		fmt.Fprintf(b, "\n## %s\n%s\n", name, strings.TrimRight(content, "\n"))
	}
	b.WriteString("\n")
	return nil
}

func (a *Assembler) writeConversations(b *strings.Builder) error {
	conversations, err := a.store.ConversationsFor(a.country)
	if err != nil {
		return err
	}

	b.WriteString("# CONVERSATION HISTORY\n")
	if len(conversations) == 0 {
		b.WriteString("\nNo conversations yet. You may want to reach out to other countries!\n")
		return nil
	}

	labels := make([]string, 0, len(conversations))
	for label := range conversations {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		text := truncateLines(conversations[label], a.cfg.Context.MaxConversationLines)
		fmt.Fprintf(b, "\n## Conversation with %s\n%s\n", label, strings.TrimRight(text, "\n"))
	}
	return nil
}

// truncateLines keeps the last max lines of text, prepending a marker when
// anything was dropped. max <= 0 means unlimited.
func truncateLines(text string, max int) string {
	if max <= 0 {
		return text
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= max {
		return text
	}
	kept := lines[len(lines)-max:]
	return "[earlier messages truncated]\n" + strings.Join(kept, "\n")
}

// readOptional reads a file, treating absence as empty content.
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
