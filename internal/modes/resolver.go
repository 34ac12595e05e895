// Package modes resolves phase prompts from layered mode overlays.
//
// Each active mode contributes a directory of prompt files. Overlays stack
// in a fixed priority order (base first); a prompt resolves either by
// override (the last overlay defining it wins) or by concatenation (all
// defining overlays combine), depending on the prompt name. Resolved bodies
// may reference other prompts with {block:NAME}, carry {if:VAR}...{endif}
// conditional spans, and embed {variable} placeholders.
package modes

import (
	"errors"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/openclaw/parley/internal/config"
)

// concatPrompts resolve by concatenation; every other prompt resolves by
// override.
var concatPrompts = map[string]bool{
	"rules":           true,
	"file_management": true,
	"order_format":    true,
}

// blockMapping maps {block:NAME} references to prompt names.
var blockMapping = map[string]string{
	"rules":           "rules",
	"file_management": "file_management",
	"order_format":    "order_format",
	"messaging":       "messaging_instructions",
}

var (
	blockPattern       = regexp.MustCompile(`\{block:(\w+)\}`)
	conditionalPattern = regexp.MustCompile(`(?s)\{if:(\w+)\}(.*?)\{endif\}`)
)

// Resolver combines active mode overlays into phase prompts. Overlay
// selection is fixed at construction, so resolved bodies (pre-substitution)
// are cached per prompt name for the resolver's lifetime.
type Resolver struct {
	fsys     fs.FS
	overlays []string
	defaults map[string]string
	cache    map[string]string
}

// NewResolver creates a resolver over a prompt filesystem for a mode.
// defaults are variables injected into every prompt when the caller does
// not supply them (the standard filename variables).
func NewResolver(fsys fs.FS, mode config.Mode, defaults map[string]string) *Resolver {
	return &Resolver{
		fsys:     fsys,
		overlays: mode.Overlays(),
		defaults: defaults,
		cache:    make(map[string]string),
	}
}

// DefaultVariables returns the filename variables available to every
// prompt.
func DefaultVariables(cfg *config.Config) map[string]string {
	return map[string]string{
		"scratchpad_file": cfg.Paths.Scratchpad,
		"orders_file":     cfg.Paths.Orders,
		"lessons_file":    cfg.Paths.Lessons,
	}
}

// Prompt resolves a named prompt: overlay combination, block references,
// conditionals, then variable substitution, in that order.
func (r *Resolver) Prompt(name string, vars map[string]string) string {
	body, ok := r.cache[name]
	if !ok {
		body = r.resolveBody(name)
		r.cache[name] = body
	}

	result := blockPattern.ReplaceAllStringFunc(body, func(ref string) string {
		blockName := blockPattern.FindStringSubmatch(ref)[1]
		promptName, ok := blockMapping[blockName]
		if !ok {
			promptName = blockName
		}
		// A block an overlay explicitly disables resolves to empty text
		// rather than being left in place or reported.
		if !r.IsFeatureEnabled(promptName) {
			return ""
		}
		return r.resolveBody(promptName)
	})

	merged := make(map[string]string, len(vars)+len(r.defaults))
	for k, v := range r.defaults {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}

	result = conditionalPattern.ReplaceAllStringFunc(result, func(span string) string {
		m := conditionalPattern.FindStringSubmatch(span)
		if truthy(merged[m[1]]) {
			return strings.TrimSpace(m[2])
		}
		return ""
	})

	for k, v := range merged {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// IsFeatureEnabled reports whether a prompt/feature is enabled: scanning
// overlays from most to least specific, a disable marker wins over a later
// (less specific) definition.
func (r *Resolver) IsFeatureEnabled(name string) bool {
	for i := len(r.overlays) - 1; i >= 0; i-- {
		overlay := r.overlays[i]
		if r.hasDisableMarker(overlay, name) {
			return false
		}
		if _, found := r.readPrompt(overlay, name); found {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveBody(name string) string {
	if concatPrompts[name] {
		var parts []string
		for _, overlay := range r.overlays {
			if text, found := r.load(overlay, name); found && text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n\n")
	}

	var body string
	for _, overlay := range r.overlays {
		if text, found := r.load(overlay, name); found {
			body = text
		}
	}
	return body
}

// load returns an overlay's version of a prompt. A disable marker reads as
// present-but-empty, which suppresses earlier overlays' text under override
// resolution.
func (r *Resolver) load(overlay, name string) (string, bool) {
	if r.hasDisableMarker(overlay, name) {
		return "", true
	}
	return r.readPrompt(overlay, name)
}

func (r *Resolver) readPrompt(overlay, name string) (string, bool) {
	for _, ext := range []string{".md", ".txt"} {
		data, err := fs.ReadFile(r.fsys, path.Join(overlay, name+ext))
		if err == nil {
			return strings.TrimSpace(string(data)), true
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false
		}
	}
	return "", false
}

func (r *Resolver) hasDisableMarker(overlay, name string) bool {
	_, err := fs.Stat(r.fsys, path.Join(overlay, name+".md.disable"))
	return err == nil
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "", "false", "0", "no":
		return false
	}
	return true
}
