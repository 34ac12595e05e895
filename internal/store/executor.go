package store

import (
	"strings"

	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/protocol"
)

// Restriction limits what an action batch may touch. A nil AllowedFiles
// means unrestricted access; a nil ForceAppend means no mode downgrades.
type Restriction struct {
	AllowedFiles []string
	ForceAppend  []string
}

func (r *Restriction) allows(normalized string) bool {
	if r == nil || r.AllowedFiles == nil {
		return true
	}
	for _, f := range r.AllowedFiles {
		if strings.EqualFold(f, normalized) {
			return true
		}
	}
	return false
}

func (r *Restriction) forcesAppend(normalized string) bool {
	if r == nil {
		return false
	}
	for _, f := range r.ForceAppend {
		if strings.EqualFold(f, normalized) {
			return true
		}
	}
	return false
}

// Executor applies parsed actions for one country. It never returns an
// error to the caller: every failure is reported on the console and the
// rest of the batch still applies.
type Executor struct {
	store   *Store
	country string
	out     *console.Reporter
}

// NewExecutor creates an executor for a country's action batches.
func NewExecutor(store *Store, country string, out *console.Reporter) *Executor {
	return &Executor{store: store, country: country, out: out}
}

// Execute applies a batch of actions under the given restriction.
func (e *Executor) Execute(actions protocol.Actions, restriction *Restriction) {
	for _, msg := range actions.Messages {
		e.sendMessage(msg)
	}
	for _, op := range actions.Files {
		e.applyFile(op, restriction)
	}
}

func (e *Executor) sendMessage(msg protocol.Message) {
	if err := e.store.AppendMessage(e.country, msg.Recipients, msg.Content); err != nil {
		e.out.Failf("message to %s failed: %v", strings.Join(msg.Recipients, ", "), err)
		return
	}
	e.out.Successf("Message sent to %s", strings.Join(msg.Recipients, ", "))
}

func (e *Executor) applyFile(op protocol.FileOp, restriction *Restriction) {
	filename := NormalizeFilename(op.Name)
	if filename != op.Name {
		e.out.Warnf("Renamed %q -> %q", op.Name, filename)
	}

	// The game master's documents are never overwritten; the agent's intent
	// lands in a country-scoped shadow copy instead.
	if e.store.IsReserved(filename) {
		shadow := ShadowName(filename, e.country)
		e.out.Warnf("Reserved filename, redirecting to %s", shadow)
		filename = shadow
	}

	if !restriction.allows(filename) {
		e.out.Warnf("Skipped %s (not writable in this phase)", filename)
		return
	}

	mode := op.Mode
	if restriction.forcesAppend(filename) && mode != protocol.ModeAppend {
		e.out.Warnf("Forcing append mode for %s (append-only in this phase)", filename)
		mode = protocol.ModeAppend
	}

	switch mode {
	case protocol.ModeDelete:
		removed, err := e.store.DeleteFile(e.country, filename)
		switch {
		case err != nil:
			e.out.Failf("delete %s failed: %v", filename, err)
		case removed:
			e.out.Successf("Deleted %s", filename)
		default:
			e.out.Warnf("File %s does not exist", filename)
		}
	case protocol.ModeEdit:
		if err := e.store.WriteFile(e.country, filename, op.Content); err != nil {
			e.out.Failf("edit %s failed: %v", filename, err)
			return
		}
		e.out.Successf("Replaced %s", filename)
	case protocol.ModeAppend:
		if err := e.store.AppendFile(e.country, filename, op.Content); err != nil {
			e.out.Failf("append %s failed: %v", filename, err)
			return
		}
		e.out.Successf("Appended to %s", filename)
	default:
		e.out.Failf("Unknown mode %q - use append, edit, or delete", mode)
	}
}
