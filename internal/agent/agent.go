// Package agent owns a single country's model session and phase entries.
package agent

import (
	"context"
	"fmt"

	"github.com/openclaw/parley/internal/briefing"
	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/llm"
	"github.com/openclaw/parley/internal/modes"
	"github.com/openclaw/parley/internal/protocol"
	"github.com/openclaw/parley/internal/store"
	"github.com/openclaw/parley/internal/transcript"
)

// Session drives one country's agent. Every phase entry assembles fresh
// context, opens a fresh chat session, sends one prompt under the retry
// policy, and parses the response into actions. No chat memory carries
// between phases; within a phase the live session holds any exchanges.
type Session struct {
	country   string
	cfg       *config.Config
	provider  llm.Provider
	resolver  *modes.Resolver
	assembler *briefing.Assembler
	executor  *store.Executor
	parser    *protocol.Parser
	retry     llm.RetryPolicy
	out       *console.Reporter
	rec       *transcript.Recorder

	chat llm.Chat // live session for the current phase; replaced on entry
}

// NewSession constructs a country's session. The country directory is
// created if missing.
func NewSession(cfg *config.Config, st *store.Store, provider llm.Provider, country string, out *console.Reporter, rec *transcript.Recorder) (*Session, error) {
	if err := st.EnsureCountryDir(country); err != nil {
		return nil, fmt.Errorf("creating %s directory: %w", country, err)
	}
	mode := cfg.Mode()
	return &Session{
		country:   country,
		cfg:       cfg,
		provider:  provider,
		resolver:  modes.NewResolver(modes.PromptFS(cfg.Paths.ModesDir), mode, modes.DefaultVariables(cfg)),
		assembler: briefing.NewAssembler(cfg, st, country),
		executor:  store.NewExecutor(st, country, out),
		parser:    protocol.NewParser(mode.Messaging()),
		retry:     llm.DefaultRetryPolicy(cfg.API.MaxRetries, out),
		out:       out,
		rec:       rec,
	}, nil
}

// Country returns the country this session plays.
func (s *Session) Country() string { return s.country }

// Plan runs the planning phase: a single-shot exchange on the economical
// model with no expected messages.
func (s *Session) Plan(ctx context.Context) (string, protocol.Actions, error) {
	return s.runPhase(ctx, "plan", true, nil)
}

// Turn runs one negotiation round: messages plus scratchpad notes.
func (s *Session) Turn(ctx context.Context) (string, protocol.Actions, error) {
	return s.runPhase(ctx, "turn", true, nil)
}

// React runs the gunboat reaction phase: scratchpad plus orders file.
func (s *Session) React(ctx context.Context) (string, protocol.Actions, error) {
	return s.runPhase(ctx, "react", true, nil)
}

// Reflect runs the private reflection phase on the primary model. Messages
// are stripped unconditionally: reflection never transmits, even when the
// model emits MESSAGE tags. wipeScratch tells the model its scratchpad will
// be cleared afterward; the clearing itself is the orchestrator's job.
func (s *Session) Reflect(ctx context.Context, wipeScratch bool) (string, protocol.Actions, error) {
	vars := map[string]string{"wipe_scratch": ""}
	if wipeScratch {
		vars["wipe_scratch"] = "true"
	}
	text, actions, err := s.runPhase(ctx, "reflect", false, vars)
	if err != nil {
		return "", protocol.Actions{}, err
	}
	actions.Messages = nil
	return text, actions, nil
}

// Orders asks for this season's orders on the primary model. The raw
// response text is the deliverable; parsed file operations are returned for
// application but messages are never sent from this phase.
func (s *Session) Orders(ctx context.Context) (string, protocol.Actions, error) {
	text, actions, err := s.runPhase(ctx, "orders", false, nil)
	if err != nil {
		return "", protocol.Actions{}, err
	}
	actions.Messages = nil
	return text, actions, nil
}

// Query asks the agent a direct game-master question. No actions are
// parsed or applied; the raw answer is returned.
func (s *Session) Query(ctx context.Context, question string) (string, error) {
	contextText, err := s.assembler.Build()
	if err != nil {
		return "", fmt.Errorf("%s query context: %w", s.country, err)
	}
	prompt := fmt.Sprintf(`%s

---

**GM QUERY**

The game master has a question for you. This is meta-communication - do not
send any messages or update any files. Just respond directly.

Question: %s`, contextText, question)

	s.chat = s.provider.NewChat(s.cfg.ModelFor(false))
	return s.send(ctx, "query", prompt)
}

// Apply executes parsed actions against the file store under a
// restriction. Failures are reported per action; nothing raises.
func (s *Session) Apply(actions protocol.Actions, restriction *store.Restriction) {
	for _, msg := range actions.Messages {
		s.rec.Record(transcript.Event{
			Type: transcript.EventAction, Country: s.country,
			Detail: "message to " + store.ConversationKey(msg.Recipients),
		})
	}
	for _, op := range actions.Files {
		s.rec.Record(transcript.Event{
			Type: transcript.EventAction, Country: s.country,
			Detail: op.Mode + " " + op.Name,
		})
	}
	s.executor.Execute(actions, restriction)
}

func (s *Session) runPhase(ctx context.Context, phase string, cheap bool, extraVars map[string]string) (string, protocol.Actions, error) {
	contextText, err := s.assembler.Build()
	if err != nil {
		return "", protocol.Actions{}, fmt.Errorf("%s %s context: %w", s.country, phase, err)
	}

	vars := map[string]string{
		"context": contextText,
		"country": s.country,
	}
	for k, v := range extraVars {
		vars[k] = v
	}
	prompt := s.resolver.Prompt(phase, vars)

	s.chat = s.provider.NewChat(s.cfg.ModelFor(cheap))
	text, err := s.send(ctx, phase, prompt)
	if err != nil {
		return "", protocol.Actions{}, err
	}
	return text, s.parser.Parse(text), nil
}

func (s *Session) send(ctx context.Context, phase, prompt string) (string, error) {
	s.rec.Record(transcript.Event{
		Type: transcript.EventPrompt, Country: s.country, Phase: phase, Detail: prompt,
	})
	text, err := s.retry.Do(ctx, fmt.Sprintf("%s %s", s.country, phase), func() (string, error) {
		return s.chat.Send(ctx, prompt)
	})
	if err != nil {
		s.rec.Record(transcript.Event{
			Type: transcript.EventResponse, Country: s.country, Phase: phase, Error: err.Error(),
		})
		return "", fmt.Errorf("%s %s: %w", s.country, phase, err)
	}
	s.rec.Record(transcript.Event{
		Type: transcript.EventResponse, Country: s.country, Phase: phase, Detail: text,
	})
	return text, nil
}
