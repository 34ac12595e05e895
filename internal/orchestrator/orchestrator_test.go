package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/llm"
	"github.com/openclaw/parley/internal/store"
)

// queueProvider hands out scripted responses in call order. When the
// script runs dry it repeats the final response.
type queueProvider struct {
	responses []string
	calls     int
}

func (p *queueProvider) NewChat(model string) llm.Chat { return (*queueChat)(p) }
func (p *queueProvider) Close() error                  { return nil }

type queueChat queueProvider

func (c *queueChat) Send(ctx context.Context, message string) (string, error) {
	c.calls++
	if len(c.responses) == 0 {
		return "acknowledged", nil
	}
	resp := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	return resp, nil
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, provider llm.Provider) (*Orchestrator, *store.Store) {
	t.Helper()
	st := store.New(cfg)
	return New(cfg, st, provider, console.New(io.Discard), nil), st
}

func threeCountryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Countries = []string{"Austria", "England", "France"}
	cfg.Season.TurnRounds = 1
	return cfg
}

func writeGameState(t *testing.T, cfg *config.Config, season string) {
	t.Helper()
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfg.Paths.DataDir, cfg.Paths.GameState)
	if err := os.WriteFile(path, []byte(season+"\n\nboard details\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunSeason_Classic(t *testing.T) {
	cfg := threeCountryConfig(t)
	writeGameState(t, cfg, "Spring 1901")

	// Turn order is reshuffled at season start, so every country gets
	// the same scripted response per phase.
	var responses []string
	for i := 0; i < 3; i++ {
		responses = append(responses, `<FILE name="plans.md" mode="edit">open with caution</FILE>`)
	}
	for i := 0; i < 3; i++ {
		responses = append(responses,
			`<MESSAGE to="Austria, England, France">greetings all</MESSAGE>`+
				`<FILE name="void.md">waiting</FILE>`+
				`<FILE name="plans.md" mode="edit">must not leak</FILE>`)
	}
	for i := 0; i < 3; i++ {
		responses = append(responses,
			`<FILE name="lessons.md">trust slowly</FILE><FILE name="orders.md" mode="edit">A Hold</FILE>`)
	}

	provider := &queueProvider{responses: responses}
	o, st := newTestOrchestrator(t, cfg, provider)

	if err := o.RunSeason(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 9 {
		t.Errorf("calls = %d, want 9 (3 plan + 3 turn + 3 reflect)", provider.calls)
	}

	// Negotiation wrote the canonical conversation file: one file for
	// the participant set, regardless of sender order.
	conv := filepath.Join(st.ConversationsDir(), "Austria-England-France.md")
	data, err := os.ReadFile(conv)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "greetings all"); got != 3 {
		t.Errorf("conversation messages = %d, want 3:\n%s", got, data)
	}

	for _, country := range cfg.Countries {
		// The negotiation round may only touch the scratchpad.
		plans, err := os.ReadFile(st.CountryPath(country, "plans.md"))
		if err != nil {
			t.Fatalf("%s plans: %v", country, err)
		}
		if strings.Contains(string(plans), "must not leak") {
			t.Errorf("%s: negotiation round must not edit plans.md", country)
		}
		if _, err := os.Stat(st.CountryPath(country, "void.md")); err != nil {
			t.Errorf("%s: scratchpad not written", country)
		}
		// Reflection yields the orders file.
		orders, err := os.ReadFile(st.CountryPath(country, "orders.md"))
		if err != nil {
			t.Fatalf("%s orders: %v", country, err)
		}
		if !strings.Contains(string(orders), "A Hold") {
			t.Errorf("%s orders = %q", country, orders)
		}
	}

	// The persisted turn order covers the full roster.
	if got := o.TurnOrder(); len(got) != 3 {
		t.Errorf("turn order = %v", got)
	}

	// The consolidated document carries every country's section.
	doc, err := os.ReadFile(cfg.OrdersDocumentPath())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Orders: Spring 1901", "## Austria", "## England", "## France", "A Hold", "---"} {
		if !strings.Contains(string(doc), want) {
			t.Errorf("orders document missing %q:\n%s", want, doc)
		}
	}
}

func TestCollectOrders_PassWithholdsDocument(t *testing.T) {
	cfg := threeCountryConfig(t)
	writeGameState(t, cfg, "Fall 1901")

	provider := &queueProvider{responses: []string{
		"PASS - I need one more round of talks",
		"F Lon H",
		"A Par H",
	}}
	o, _ := newTestOrchestrator(t, cfg, provider)

	complete, err := o.CollectOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if complete {
		t.Error("a passing country means collection is incomplete")
	}
	if provider.calls != 3 {
		t.Errorf("calls = %d, want 3 (single pass over the table)", provider.calls)
	}
	if _, statErr := os.Stat(cfg.OrdersDocumentPath()); !os.IsNotExist(statErr) {
		t.Error("document must not be written while orders are incomplete")
	}

	// After more negotiation the operator collects again; everyone
	// submits this time and the document lands.
	provider.responses = []string{"A Vie - Gal", "F Lon H", "A Par H"}
	complete, err = o.CollectOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !complete {
		t.Fatal("expected full submission on the second collection")
	}
	doc, err := os.ReadFile(cfg.OrdersDocumentPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "A Vie - Gal") {
		t.Errorf("orders missing:\n%s", doc)
	}
	if strings.Contains(string(doc), "PASS") {
		t.Errorf("pass response must not reach the document:\n%s", doc)
	}
}

func TestCollectOrders_AdjustmentSeasonAcceptsPass(t *testing.T) {
	cfg := threeCountryConfig(t)
	writeGameState(t, cfg, "Winter 1901 builds")

	provider := &queueProvider{responses: []string{"PASS"}}
	o, _ := newTestOrchestrator(t, cfg, provider)

	complete, err := o.CollectOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !complete {
		t.Error("passing is a valid final answer during builds")
	}
	if provider.calls != 3 {
		t.Errorf("calls = %d, want 3", provider.calls)
	}
	doc, _ := os.ReadFile(cfg.OrdersDocumentPath())
	if !strings.Contains(string(doc), "PASS") {
		t.Errorf("build-season pass should be recorded verbatim:\n%s", doc)
	}
}

func TestCollectOrders_GunboatAcceptsPass(t *testing.T) {
	cfg := threeCountryConfig(t)
	cfg.Features.Gunboat = true
	writeGameState(t, cfg, "Spring 1901")

	provider := &queueProvider{responses: []string{"PASS"}}
	o, _ := newTestOrchestrator(t, cfg, provider)

	complete, err := o.CollectOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !complete {
		t.Error("gunboat has no negotiation rounds to wait for, pass is final")
	}
	if _, err := os.Stat(cfg.OrdersDocumentPath()); err != nil {
		t.Errorf("orders document not written: %v", err)
	}
}

func TestSeasonHeaders_OncePerSeason(t *testing.T) {
	cfg := threeCountryConfig(t)
	o, st := newTestOrchestrator(t, cfg, &queueProvider{})

	if err := st.AppendMessage("Austria", []string{"England"}, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := st.AppendFile("France", cfg.Paths.Scratchpad, "a thought"); err != nil {
		t.Fatal(err)
	}

	if err := o.addSeasonHeaders("Spring 1901"); err != nil {
		t.Fatal(err)
	}
	if err := o.addSeasonHeaders("Spring 1901"); err != nil {
		t.Fatal(err)
	}

	conv, _ := os.ReadFile(filepath.Join(st.ConversationsDir(), "Austria-England.md"))
	if got := strings.Count(string(conv), "## Spring 1901"); got != 1 {
		t.Errorf("conversation header count = %d, want 1", got)
	}
	scratch, _ := os.ReadFile(st.CountryPath("France", cfg.Paths.Scratchpad))
	if got := strings.Count(string(scratch), "## Spring 1901"); got != 1 {
		t.Errorf("scratchpad header count = %d, want 1", got)
	}
	// Austria has no scratchpad yet; headers must not create one.
	if _, err := os.Stat(st.CountryPath("Austria", cfg.Paths.Scratchpad)); !os.IsNotExist(err) {
		t.Error("headers should only stamp existing scratchpads")
	}
}

func TestRunSeason_GunboatSkipsNegotiation(t *testing.T) {
	cfg := threeCountryConfig(t)
	cfg.Features.Gunboat = true
	writeGameState(t, cfg, "Spring 1901")

	provider := &queueProvider{responses: []string{
		`<FILE name="void.md">quiet opening</FILE><FILE name="orders.md" mode="edit">F Lon H</FILE>`,
	}}
	o, st := newTestOrchestrator(t, cfg, provider)

	// The single response repeats for every phase call.
	if err := o.RunSeason(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 6 {
		t.Errorf("calls = %d, want 6 (3 plan + 3 react, no negotiation or reflection)", provider.calls)
	}
	if _, err := os.Stat(st.ConversationsDir()); !os.IsNotExist(err) {
		t.Error("gunboat season must not create conversations")
	}
	// The reaction phase may edit the orders file.
	orders, err := os.ReadFile(st.CountryPath("France", "orders.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(orders), "F Lon H") {
		t.Errorf("orders = %q", orders)
	}
	doc, err := os.ReadFile(cfg.OrdersDocumentPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "F Lon H") {
		t.Errorf("consolidated document missing orders:\n%s", doc)
	}
}

func TestTurnOrder_RoundTrip(t *testing.T) {
	cfg := threeCountryConfig(t)
	o, _ := newTestOrchestrator(t, cfg, &queueProvider{})

	if got := o.TurnOrder(); !equalOrder(got, cfg.Countries) {
		t.Errorf("default order = %v", got)
	}

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "france\nBogusland\nAustria\n"
	if err := os.WriteFile(cfg.TurnOrderPath(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := o.TurnOrder(); !equalOrder(got, []string{"France", "Austria", "England"}) {
		t.Errorf("persisted order = %v", got)
	}
}

func TestRandomize_PersistsFullRoster(t *testing.T) {
	cfg := threeCountryConfig(t)
	o, _ := newTestOrchestrator(t, cfg, &queueProvider{})

	order, err := o.Randomize()
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != len(cfg.Countries) {
		t.Fatalf("order = %v", order)
	}
	if got := o.TurnOrder(); !equalOrder(got, order) {
		t.Errorf("TurnOrder = %v, want persisted %v", got, order)
	}
}

func TestIsPass(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"PASS", true},
		{"\n  pass  \nthinking", true},
		{"PASS - I need one more round of talks", true},
		{"pass, still talking to Germany", true},
		{"A Par H", false},
		{"Passing Galicia to Austria was a mistake", false},
		{"I'll pass on this alliance", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isPass(tc.text); got != tc.want {
			t.Errorf("isPass(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
