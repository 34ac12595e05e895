package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(configPath, []byte(`
countries: [Austria, France, Germany]
model: gemini-2.5-pro
cheap_model: gemini-2.5-flash
features:
  fog_of_war: true
api:
  max_retries: 3
season:
  turn_rounds: 4
paths:
  data_dir: state
`), 0644)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if len(cfg.Countries) != 3 {
		t.Errorf("expected 3 countries, got %d", len(cfg.Countries))
	}
	if !cfg.Features.FogOfWar {
		t.Error("expected fog_of_war enabled")
	}
	if cfg.API.MaxRetries != 3 {
		t.Errorf("expected max_retries 3, got %d", cfg.API.MaxRetries)
	}
	if cfg.Season.TurnRounds != 4 {
		t.Errorf("expected turn_rounds 4, got %d", cfg.Season.TurnRounds)
	}
	if cfg.Paths.DataDir != "state" {
		t.Errorf("expected data_dir 'state', got %s", cfg.Paths.DataDir)
	}
	// Unset fields keep defaults.
	if cfg.Paths.Scratchpad != "void.md" {
		t.Errorf("expected default scratchpad 'void.md', got %s", cfg.Paths.Scratchpad)
	}
}

func TestConfig_ValidateRejectsEmptyCountries(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(configPath, []byte(`
countries: []
model: gemini-2.5-pro
`), 0644)

	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected error for empty country list")
	}
}

func TestConfig_ModelFor(t *testing.T) {
	cfg := Default()
	cfg.Model = "big"
	cfg.CheapModel = "small"

	if got := cfg.ModelFor(false); got != "big" {
		t.Errorf("ModelFor(false) = %s, want big", got)
	}
	if got := cfg.ModelFor(true); got != "small" {
		t.Errorf("ModelFor(true) = %s, want small", got)
	}

	cfg.CheapModel = ""
	if got := cfg.ModelFor(true); got != "big" {
		t.Errorf("ModelFor(true) with no cheap model = %s, want big", got)
	}
}

func TestConfig_FindCountry(t *testing.T) {
	cfg := Default()

	got, ok := cfg.FindCountry("france")
	if !ok || got != "France" {
		t.Errorf("FindCountry(france) = %q, %v; want France, true", got, ok)
	}
	if _, ok := cfg.FindCountry("atlantis"); ok {
		t.Error("FindCountry(atlantis) should not match")
	}
}

func TestMode_Overlays(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want []string
	}{
		{"classic", Mode{}, []string{"base"}},
		{"fow", Mode{FogOfWar: true}, []string{"base", "fow"}},
		{"gunboat", Mode{Gunboat: true}, []string{"base", "gunboat"}},
		{"fow gunboat", Mode{FogOfWar: true, Gunboat: true}, []string{"base", "fow", "gunboat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.Overlays()
			if len(got) != len(tt.want) {
				t.Fatalf("overlays = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("overlays = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMode_Name(t *testing.T) {
	if got := (Mode{}).Name(); got != "Classic" {
		t.Errorf("Name() = %s, want Classic", got)
	}
	if got := (Mode{FogOfWar: true, Gunboat: true}).Name(); got != "Fog of War + Gunboat" {
		t.Errorf("Name() = %s, want Fog of War + Gunboat", got)
	}
}

func TestMode_Capabilities(t *testing.T) {
	if !(Mode{}).Messaging() {
		t.Error("classic mode should allow messaging")
	}
	if (Mode{Gunboat: true}).Messaging() {
		t.Error("gunboat mode should not allow messaging")
	}
	if !(Mode{}).SharedBoard() {
		t.Error("classic mode should have a shared board")
	}
	if (Mode{FogOfWar: true}).SharedBoard() {
		t.Error("fog-of-war mode should not have a shared board")
	}
}
