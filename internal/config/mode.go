package config

import "strings"

// Mode is the capability descriptor derived from the feature flags. It is
// resolved once and consumed uniformly by the context assembler, the prompt
// resolver, and the orchestrator instead of re-checking booleans at each
// call site.
type Mode struct {
	FogOfWar bool
	Gunboat  bool
	Imperial bool
	Chess    bool
}

// Mode returns the capability descriptor for this configuration.
func (c *Config) Mode() Mode {
	return Mode{
		FogOfWar: c.Features.FogOfWar,
		Gunboat:  c.Features.Gunboat,
		Imperial: c.Features.Imperial,
		Chess:    c.Features.Chess,
	}
}

// Messaging reports whether countries may exchange messages.
func (m Mode) Messaging() bool {
	return !m.Gunboat
}

// SharedBoard reports whether game state and history are globally shared
// documents rather than per-country private views.
func (m Mode) SharedBoard() bool {
	return !m.FogOfWar
}

// Overlays returns the active prompt overlay names, base first, then feature
// overlays in fixed priority order. Later overlays win for override prompts.
func (m Mode) Overlays() []string {
	overlays := []string{"base"}
	if m.FogOfWar {
		overlays = append(overlays, "fow")
	}
	if m.Gunboat {
		overlays = append(overlays, "gunboat")
	}
	if m.Imperial {
		overlays = append(overlays, "imperial")
	}
	if m.Chess {
		overlays = append(overlays, "chess")
	}
	return overlays
}

// Name returns a human-readable label for the active mode combination.
func (m Mode) Name() string {
	var parts []string
	if m.FogOfWar {
		parts = append(parts, "Fog of War")
	}
	if m.Gunboat {
		parts = append(parts, "Gunboat")
	}
	if m.Imperial {
		parts = append(parts, "Imperial")
	}
	if m.Chess {
		parts = append(parts, "Chess")
	}
	if len(parts) == 0 {
		return "Classic"
	}
	return strings.Join(parts, " + ")
}
