// Package protocol extracts structured actions from free-form model output.
//
// Agents act by embedding tagged markup in their responses:
//
//	<MESSAGE to="Austria, Italy">content</MESSAGE>
//	<FILE name="plans.md" mode="append|edit|delete">content</FILE>
//
// The source text is untrusted model output, so parsing is deliberately
// lenient: tags are matched case-insensitively and independently, and
// anything malformed simply yields no action. Mode strings are carried
// through verbatim (lower-cased) and validated at execution time, not here.
package protocol

import (
	"regexp"
	"strings"
)

// File operation modes recognized by the executor.
const (
	ModeAppend = "append"
	ModeEdit   = "edit"
	ModeDelete = "delete"
)

// Message is a diplomatic message to one or more countries.
type Message struct {
	Recipients []string
	Content    string
}

// FileOp is a requested mutation of a named file in the sender's store.
type FileOp struct {
	Name    string
	Mode    string
	Content string
}

// Actions holds everything extracted from one model response, in source
// order within each kind.
type Actions struct {
	Messages []Message
	Files    []FileOp
}

// Empty reports whether no actions were extracted.
func (a Actions) Empty() bool {
	return len(a.Messages) == 0 && len(a.Files) == 0
}

var (
	messagePattern = regexp.MustCompile(`(?is)<MESSAGE\s+to="([^"]+)"\s*>(.*?)</MESSAGE>`)
	filePattern    = regexp.MustCompile(`(?is)<FILE\s+name="([^"]+)"(?:\s+mode="([^"]*)")?\s*>(.*?)</FILE>`)
)

// Parser extracts actions from model responses. Messaging capability is
// fixed at construction: when disabled (gunboat), MESSAGE tags parse as zero
// matches so no caller needs to filter after the fact.
type Parser struct {
	messaging bool
}

// NewParser creates a parser. messaging controls whether MESSAGE tags are
// recognized at all.
func NewParser(messaging bool) *Parser {
	return &Parser{messaging: messaging}
}

// Parse extracts all well-formed MESSAGE and FILE tags from text.
func (p *Parser) Parse(text string) Actions {
	var actions Actions

	if p.messaging {
		for _, m := range messagePattern.FindAllStringSubmatch(text, -1) {
			recipients := splitRecipients(m[1])
			if len(recipients) == 0 {
				continue
			}
			actions.Messages = append(actions.Messages, Message{
				Recipients: recipients,
				Content:    strings.TrimSpace(m[2]),
			})
		}
	}

	for _, m := range filePattern.FindAllStringSubmatch(text, -1) {
		mode := strings.ToLower(strings.TrimSpace(m[2]))
		if mode == "" {
			// Covers both a missing mode attribute and mode="".
			mode = ModeAppend
		}
		actions.Files = append(actions.Files, FileOp{
			Name:    m[1],
			Mode:    mode,
			Content: strings.TrimSpace(m[3]),
		})
	}

	return actions
}

func splitRecipients(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			recipients = append(recipients, name)
		}
	}
	return recipients
}
