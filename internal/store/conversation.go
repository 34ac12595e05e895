package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConversationKey canonicalizes a participant set into a filename stem: the
// sorted, deduplicated participant names joined with hyphens. Any ordering
// of the same set resolves to the same key.
func ConversationKey(participants []string) string {
	seen := make(map[string]bool, len(participants))
	var names []string
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		names = append(names, p)
	}
	sort.Strings(names)
	return strings.Join(names, "-")
}

// ConversationPath returns the canonical conversation file for a sender and
// its recipients.
func (s *Store) ConversationPath(sender string, recipients []string) string {
	key := ConversationKey(append([]string{sender}, recipients...))
	return filepath.Join(s.conversationsDir, key+".md")
}

// AppendMessage appends a message from sender to the canonical conversation
// file for the participant set, creating the conversations directory and
// file as needed.
func (s *Store) AppendMessage(sender string, recipients []string, content string) error {
	if err := os.MkdirAll(s.conversationsDir, 0o755); err != nil {
		return err
	}
	line := "**" + sender + ":** " + content + "\n\n"
	return AppendRaw(s.ConversationPath(sender, recipients), line)
}

// ConversationFiles returns the paths of all conversation files, sorted.
func (s *Store) ConversationFiles() ([]string, error) {
	entries, err := os.ReadDir(s.conversationsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(s.conversationsDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ConversationsFor returns the conversations a country participates in,
// keyed by the sorted hyphen-joined label of the other participants.
func (s *Store) ConversationsFor(country string) (map[string]string, error) {
	paths, err := s.ConversationFiles()
	if err != nil {
		return nil, err
	}
	conversations := make(map[string]string)
	for _, path := range paths {
		stem := strings.TrimSuffix(filepath.Base(path), ".md")
		participants := strings.Split(stem, "-")
		var others []string
		member := false
		for _, p := range participants {
			if p == country {
				member = true
			} else {
				others = append(others, p)
			}
		}
		if !member || len(others) == 0 {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		conversations[strings.Join(others, "-")] = string(data)
	}
	return conversations, nil
}
