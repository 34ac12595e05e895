// Package main defines the CLI structure using kong.
package main

import (
	"context"
	"fmt"

	"github.com/openclaw/parley/internal/game"
	"github.com/openclaw/parley/internal/setup"
	"github.com/openclaw/parley/internal/watch"
)

// CLI defines the command-line interface.
type CLI struct {
	Config string `help:"Config file path" default:"config.yaml"`

	Init      InitCmd      `cmd:"" help:"Initialize a fresh game"`
	Cleanup   CleanupCmd   `cmd:"" help:"Remove all game data"`
	Status    StatusCmd    `cmd:"" help:"Show game status"`
	Season    SeasonCmd    `cmd:"" help:"Run a full season"`
	Plan      PlanCmd      `cmd:"" help:"Run the planning phase"`
	Turn      TurnCmd      `cmd:"" help:"Run one negotiation turn"`
	Turns     TurnsCmd     `cmd:"" help:"Run negotiation rounds for all countries"`
	React     ReactCmd     `cmd:"" help:"Run the gunboat reaction phase"`
	Reflect   ReflectCmd   `cmd:"" help:"Run the reflection phase"`
	Orders    OrdersCmd    `cmd:"" help:"Collect final orders from all countries"`
	Randomize RandomizeCmd `cmd:"" help:"Shuffle and persist the turn order"`
	Query     QueryCmd     `cmd:"" help:"Ask a country a game-master question"`
	Watch     WatchCmd     `cmd:"" help:"Watch the game directory for changes"`
	Setup     SetupCmd     `cmd:"" help:"Interactive setup wizard"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// InitCmd initializes the game directory tree.
type InitCmd struct {
	Keep bool `help:"Keep existing game files, only fill in missing pieces"`
}

func (c *InitCmd) Run(rt *runtime) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	return game.Init(cfg, rt.out, c.Keep)
}

// CleanupCmd removes the game data directory.
type CleanupCmd struct{}

func (c *CleanupCmd) Run(rt *runtime) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	return game.Cleanup(cfg, rt.out)
}

// StatusCmd summarizes the current game.
type StatusCmd struct{}

func (c *StatusCmd) Run(rt *runtime) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	return game.Status(cfg, rt.out)
}

// SeasonCmd runs planning, negotiation, reflection, and order collection
// for every country.
type SeasonCmd struct {
	WipeScratch bool `help:"Delete each country's scratchpad after reflection"`
}

func (c *SeasonCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		return run.orch.RunSeason(ctx, c.WipeScratch)
	})
}

// PlanCmd runs the planning phase for one country or all of them.
type PlanCmd struct {
	Country string `arg:"" optional:"" help:"Country to plan for (default: all)"`
}

func (c *PlanCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		if c.Country != "" {
			return run.orch.RunCountryPhase(ctx, c.Country, "plan", false)
		}
		run.orch.PlanAll(ctx, run.orch.TurnOrder())
		return nil
	})
}

// TurnCmd runs one negotiation turn for one country or a full round.
type TurnCmd struct {
	Country string `arg:"" optional:"" help:"Country to run (default: full round)"`
}

func (c *TurnCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		if !run.cfg.Mode().Messaging() {
			return fmt.Errorf("negotiation turns are disabled in %s", run.cfg.Mode().Name())
		}
		if c.Country != "" {
			return run.orch.RunCountryPhase(ctx, c.Country, "turn", false)
		}
		run.orch.TurnRound(ctx, run.orch.TurnOrder())
		return nil
	})
}

// TurnsCmd runs several negotiation rounds back to back.
type TurnsCmd struct {
	Rounds int `arg:"" optional:"" help:"Number of rounds (default: configured turn_rounds)"`
}

func (c *TurnsCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		if !run.cfg.Mode().Messaging() {
			return fmt.Errorf("negotiation turns are disabled in %s", run.cfg.Mode().Name())
		}
		rounds := c.Rounds
		if rounds < 1 {
			rounds = run.cfg.Season.TurnRounds
		}
		order := run.orch.TurnOrder()
		for round := 1; round <= rounds; round++ {
			rt.out.Section(fmt.Sprintf("Negotiation round %d of %d", round, rounds))
			run.orch.TurnRound(ctx, order)
		}
		return nil
	})
}

// ReactCmd runs the gunboat reaction phase.
type ReactCmd struct {
	Country string `arg:"" optional:"" help:"Country to run (default: all)"`
}

func (c *ReactCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		if c.Country != "" {
			return run.orch.RunCountryPhase(ctx, c.Country, "react", false)
		}
		run.orch.ReactAll(ctx, run.orch.TurnOrder())
		return nil
	})
}

// ReflectCmd runs the reflection phase.
type ReflectCmd struct {
	Country     string `arg:"" optional:"" help:"Country to run (default: all)"`
	WipeScratch bool   `help:"Delete the scratchpad after reflection"`
}

func (c *ReflectCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		if c.Country != "" {
			return run.orch.RunCountryPhase(ctx, c.Country, "reflect", c.WipeScratch)
		}
		run.orch.ReflectAll(ctx, run.orch.TurnOrder(), c.WipeScratch)
		return nil
	})
}

// OrdersCmd collects final orders and writes the consolidated document.
type OrdersCmd struct{}

func (c *OrdersCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		complete, err := run.orch.CollectOrders(ctx)
		if err != nil {
			return err
		}
		if !complete {
			if run.cfg.Mode().Messaging() {
				rt.out.Printf("run `parley turns` for another negotiation round, then collect again")
			} else {
				rt.out.Printf("run `parley orders` again to retry")
			}
		}
		return nil
	})
}

// RandomizeCmd shuffles the persisted turn order.
type RandomizeCmd struct{}

func (c *RandomizeCmd) Run(rt *runtime) error {
	return rt.withGame(func(run *gameRun) error {
		order, err := run.orch.Randomize()
		if err != nil {
			return err
		}
		for i, country := range order {
			rt.out.Printf("%d. %s", i+1, country)
		}
		return nil
	})
}

// QueryCmd asks a single country an out-of-band question.
type QueryCmd struct {
	Country  string `arg:"" help:"Country to ask"`
	Question string `arg:"" help:"Question text"`
}

func (c *QueryCmd) Run(rt *runtime) error {
	return rt.withOrchestrator(func(ctx context.Context, run *gameRun) error {
		answer, err := run.orch.Query(ctx, c.Country, c.Question)
		if err != nil {
			return err
		}
		rt.out.Response(c.Country, answer)
		return nil
	})
}

// WatchCmd tails the game directory.
type WatchCmd struct{}

func (c *WatchCmd) Run(rt *runtime) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	return watch.New(cfg, rt.out).Run(context.Background())
}

// SetupCmd runs the interactive setup wizard.
type SetupCmd struct{}

func (c *SetupCmd) Run(rt *runtime) error {
	return setup.Run(rt.configPath, "credentials.toml", rt.out)
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(rt *runtime) error {
	rt.out.Printf("parley version %s (commit: %s, built: %s)", version, commit, buildTime)
	return nil
}
