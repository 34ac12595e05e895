package orchestrator

import (
	"math/rand/v2"
	"os"
	"strings"
)

// TurnOrder returns the persisted country order, falling back to the
// configured order when no turn-order file exists. Unknown names in the
// file are dropped; configured countries missing from the file are
// appended at the end so nobody is silently skipped.
func (o *Orchestrator) TurnOrder() []string {
	data, err := os.ReadFile(o.cfg.TurnOrderPath())
	if err != nil {
		return append([]string(nil), o.cfg.Countries...)
	}
	seen := make(map[string]bool, len(o.cfg.Countries))
	var order []string
	for _, line := range strings.Split(string(data), "\n") {
		name, ok := o.cfg.FindCountry(strings.TrimSpace(line))
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	for _, country := range o.cfg.Countries {
		if !seen[country] {
			order = append(order, country)
		}
	}
	return order
}

// Randomize shuffles the turn order and persists it.
func (o *Orchestrator) Randomize() ([]string, error) {
	order := append([]string(nil), o.cfg.Countries...)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	if err := o.saveTurnOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Orchestrator) saveTurnOrder(order []string) error {
	if err := os.MkdirAll(o.cfg.Paths.DataDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(o.cfg.TurnOrderPath(), []byte(strings.Join(order, "\n")+"\n"), 0o644)
}
