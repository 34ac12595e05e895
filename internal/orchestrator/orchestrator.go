// Package orchestrator drives full seasons and individual phases across
// all countries, applying per-phase capability restrictions and collecting
// orders into the consolidated document.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openclaw/parley/internal/agent"
	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/llm"
	"github.com/openclaw/parley/internal/store"
	"github.com/openclaw/parley/internal/transcript"
)

// Orchestrator runs phases for every country in turn order. Per-country
// failures are reported and skipped so one broken session never stalls
// the rest of the table.
type Orchestrator struct {
	cfg      *config.Config
	st       *store.Store
	provider llm.Provider
	out      *console.Reporter
	rec      *transcript.Recorder
	tracer   trace.Tracer
}

func New(cfg *config.Config, st *store.Store, provider llm.Provider, out *console.Reporter, rec *transcript.Recorder) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		st:       st,
		provider: provider,
		out:      out,
		rec:      rec,
		tracer:   otel.Tracer("parley/orchestrator"),
	}
}

func (o *Orchestrator) session(country string) (*agent.Session, error) {
	return agent.NewSession(o.cfg, o.st, o.provider, country, o.out, o.rec)
}

// Season returns the current season label from the board.
func (o *Orchestrator) Season() string {
	return o.st.CurrentSeason(o.cfg.Mode(), o.cfg.Countries)
}

// RunSeason executes one season's state machine. Default: planning for
// every country, the configured number of negotiation rounds, then
// reflection, which has each country write its orders file. Gunboat is
// the two-phase shortcut: planning then reaction, no negotiation to
// reflect on. Either way the per-country orders files are consolidated
// at the end. Turn order is reshuffled once at season start and
// persisted for inspection.
func (o *Orchestrator) RunSeason(ctx context.Context, wipeScratch bool) error {
	season := o.Season()
	ctx, span := o.tracer.Start(ctx, "season",
		trace.WithAttributes(attribute.String("season", season)))
	defer span.End()

	o.rec.Record(transcript.Event{Type: transcript.EventSeasonStart, Season: season})
	o.out.Section(fmt.Sprintf("%s (%s)", season, o.cfg.Mode().Name()))

	order, err := o.Randomize()
	if err != nil {
		o.out.Warnf("could not persist turn order: %v", err)
		order = o.TurnOrder()
	}
	if err := o.addSeasonHeaders(season); err != nil {
		o.out.Warnf("season headers: %v", err)
	}

	o.PlanAll(ctx, order)
	if o.cfg.Mode().Messaging() {
		for round := 1; round <= o.cfg.Season.TurnRounds; round++ {
			o.out.Section(fmt.Sprintf("Negotiation round %d of %d", round, o.cfg.Season.TurnRounds))
			o.TurnRound(ctx, order)
		}
		o.ReflectAll(ctx, order, wipeScratch)
	} else {
		o.out.Section("Reaction round")
		o.ReactAll(ctx, order)
	}
	return o.ConsolidateOrders()
}

// PlanAll runs the planning phase for every country, unrestricted.
func (o *Orchestrator) PlanAll(ctx context.Context, order []string) {
	o.out.Section("Planning")
	for _, country := range order {
		o.runPhase(ctx, country, "plan", func(ctx context.Context, s *agent.Session) (string, error) {
			text, actions, err := s.Plan(ctx)
			if err != nil {
				return "", err
			}
			s.Apply(actions, nil)
			return text, nil
		})
	}
}

// TurnRound runs one negotiation round. Countries may send messages but
// their only permitted file is the scratchpad, append-only.
func (o *Orchestrator) TurnRound(ctx context.Context, order []string) {
	restriction := o.turnRestriction()
	for _, country := range order {
		o.runPhase(ctx, country, "turn", func(ctx context.Context, s *agent.Session) (string, error) {
			text, actions, err := s.Turn(ctx)
			if err != nil {
				return "", err
			}
			s.Apply(actions, restriction)
			return text, nil
		})
	}
}

// ReactAll runs the gunboat reaction phase. No messaging; countries may
// append to their scratchpad and edit their orders file.
func (o *Orchestrator) ReactAll(ctx context.Context, order []string) {
	restriction := o.reactRestriction()
	for _, country := range order {
		o.runPhase(ctx, country, "react", func(ctx context.Context, s *agent.Session) (string, error) {
			text, actions, err := s.React(ctx)
			if err != nil {
				return "", err
			}
			s.Apply(actions, restriction)
			return text, nil
		})
	}
}

// ReflectAll runs the reflection phase for every country, unrestricted.
// With wipeScratch the scratchpad is deleted after the country finishes.
func (o *Orchestrator) ReflectAll(ctx context.Context, order []string, wipeScratch bool) {
	o.out.Section("Reflection")
	for _, country := range order {
		c := country
		o.runPhase(ctx, country, "reflect", func(ctx context.Context, s *agent.Session) (string, error) {
			text, actions, err := s.Reflect(ctx, wipeScratch)
			if err != nil {
				return "", err
			}
			s.Apply(actions, nil)
			if wipeScratch {
				if _, err := o.st.DeleteFile(c, o.cfg.Paths.Scratchpad); err != nil {
					o.out.Warnf("%s: wiping scratchpad: %v", c, err)
				}
			}
			return text, nil
		})
	}
}

// RunCountryPhase runs a single named phase for a single country, with
// the same restriction the full-season runner would use.
func (o *Orchestrator) RunCountryPhase(ctx context.Context, country, phase string, wipeScratch bool) error {
	country, ok := o.cfg.FindCountry(country)
	if !ok {
		return fmt.Errorf("unknown country %q", country)
	}
	s, err := o.session(country)
	if err != nil {
		return err
	}
	var actions func() error
	switch phase {
	case "plan":
		_, a, perr := s.Plan(ctx)
		err, actions = perr, func() error { s.Apply(a, nil); return nil }
	case "turn":
		r := o.turnRestriction()
		_, a, perr := s.Turn(ctx)
		err, actions = perr, func() error { s.Apply(a, r); return nil }
	case "react":
		r := o.reactRestriction()
		_, a, perr := s.React(ctx)
		err, actions = perr, func() error { s.Apply(a, r); return nil }
	case "reflect":
		_, a, perr := s.Reflect(ctx, wipeScratch)
		err, actions = perr, func() error {
			s.Apply(a, nil)
			if wipeScratch {
				_, derr := o.st.DeleteFile(country, o.cfg.Paths.Scratchpad)
				return derr
			}
			return nil
		}
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
	if err != nil {
		return err
	}
	return actions()
}

// Query sends a game-master question to a country out of band. Nothing
// is parsed or written; the response text is returned for display.
func (o *Orchestrator) Query(ctx context.Context, country, question string) (string, error) {
	country, ok := o.cfg.FindCountry(country)
	if !ok {
		return "", fmt.Errorf("unknown country %q", country)
	}
	s, err := o.session(country)
	if err != nil {
		return "", err
	}
	return s.Query(ctx, question)
}

func (o *Orchestrator) turnRestriction() *store.Restriction {
	return &store.Restriction{
		AllowedFiles: []string{o.cfg.Paths.Scratchpad},
		ForceAppend:  []string{o.cfg.Paths.Scratchpad},
	}
}

func (o *Orchestrator) reactRestriction() *store.Restriction {
	return &store.Restriction{
		AllowedFiles: []string{o.cfg.Paths.Scratchpad, o.cfg.Paths.Orders},
		ForceAppend:  []string{o.cfg.Paths.Scratchpad},
	}
}

// runPhase runs one phase for one country under a span, reporting and
// swallowing the error so the remaining countries still get their turn.
func (o *Orchestrator) runPhase(ctx context.Context, country, phase string, fn func(context.Context, *agent.Session) (string, error)) {
	ctx, span := o.tracer.Start(ctx, phase,
		trace.WithAttributes(attribute.String("country", country)))
	defer span.End()

	o.rec.Record(transcript.Event{Type: transcript.EventPhaseStart, Country: country, Phase: phase})
	defer o.rec.Record(transcript.Event{Type: transcript.EventPhaseEnd, Country: country, Phase: phase})

	s, err := o.session(country)
	if err == nil {
		_, err = fn(ctx, s)
	}
	if err != nil {
		span.RecordError(err)
		o.out.Failf("%s: %v", country, err)
		return
	}
	o.out.Successf("%s %s complete", country, phase)
}

// addSeasonHeaders stamps a season heading into every conversation file
// and every country scratchpad, once per season.
func (o *Orchestrator) addSeasonHeaders(season string) error {
	if season == "" || season == "Unknown" {
		return nil
	}
	header := "\n## " + season + "\n"
	if o.cfg.Mode().Messaging() {
		paths, err := o.st.ConversationFiles()
		if err != nil {
			return err
		}
		for _, path := range paths {
			if err := appendHeaderOnce(path, season, header); err != nil {
				return err
			}
		}
	}
	for _, country := range o.cfg.Countries {
		path := o.st.CountryPath(country, o.cfg.Paths.Scratchpad)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := appendHeaderOnce(path, season, header); err != nil {
			return err
		}
	}
	return nil
}

func appendHeaderOnce(path, season, header string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if strings.Contains(string(data), "## "+season) {
		return nil
	}
	return store.AppendRaw(path, header)
}
