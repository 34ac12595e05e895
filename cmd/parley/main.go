// Parley runs language-model players through full seasons of Diplomacy:
// planning, negotiation, reflection, and order collection, all persisted
// as markdown under the game directory.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/credentials"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	// Load .env for any additional env vars, then credentials from the
	// standard locations. Values already in the environment win.
	_ = godotenv.Load()
	if creds, _, err := credentials.Load(); err == nil {
		creds.Apply()
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("parley"),
		kong.Description("LLM players for Diplomacy, one season at a time."),
		kong.UsageOnError(),
	)
	rt := &runtime{
		configPath: cli.Config,
		out:        console.Stdout(),
	}
	ctx.FatalIfErrorf(ctx.Run(rt))
}
