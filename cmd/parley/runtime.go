package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/credentials"
	"github.com/openclaw/parley/internal/llm"
	"github.com/openclaw/parley/internal/orchestrator"
	"github.com/openclaw/parley/internal/store"
	"github.com/openclaw/parley/internal/transcript"
)

// runtime carries shared command dependencies: the config path from the
// global flag and the console reporter.
type runtime struct {
	configPath string
	out        *console.Reporter
}

// config loads the configuration, falling back to defaults when no file
// exists so init and setup work on a bare checkout.
func (rt *runtime) config() (*config.Config, error) {
	if _, err := os.Stat(rt.configPath); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.LoadFile(rt.configPath)
}

// gameRun bundles everything a model-driven command needs.
type gameRun struct {
	cfg  *config.Config
	st   *store.Store
	orch *orchestrator.Orchestrator
	rec  *transcript.Recorder
}

// withGame runs fn with config, store, and orchestrator wired up but no
// model backend. Used by commands that only touch the filesystem.
func (rt *runtime) withGame(fn func(*gameRun) error) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	st := store.New(cfg)
	return fn(&gameRun{
		cfg:  cfg,
		st:   st,
		orch: orchestrator.New(cfg, st, nil, rt.out, nil),
	})
}

// withOrchestrator additionally connects the model backend and opens a
// transcript for the run.
func (rt *runtime) withOrchestrator(fn func(context.Context, *gameRun) error) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	key := credentials.APIKey()
	if key == "" {
		return fmt.Errorf("no API key: set %s or run setup", credentials.EnvKey)
	}

	ctx := context.Background()
	provider, err := llm.NewGemini(ctx, key)
	if err != nil {
		return err
	}
	defer provider.Close()

	rec, err := transcript.New(filepath.Join(cfg.Paths.DataDir, "transcripts"))
	if err != nil {
		rt.out.Warnf("transcript disabled: %v", err)
		rec = nil
	} else {
		defer rec.Close()
	}

	st := store.New(cfg)
	return fn(ctx, &gameRun{
		cfg:  cfg,
		st:   st,
		orch: orchestrator.New(cfg, st, provider, rt.out, rec),
		rec:  rec,
	})
}
