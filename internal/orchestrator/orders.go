package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openclaw/parley/internal/transcript"
)

// passSentinel is the first line a country answers with to defer its
// orders to a later pass of the collection loop.
const passSentinel = "PASS"

// CollectOrders asks every country for final orders, one pass in turn
// order. A country may open its response with PASS to signal it is not
// ready to commit; if anyone passes, nothing is persisted and the
// returned flag is false so the caller can run another negotiation round
// and try again. During adjustment seasons (winter, builds, retreats),
// and in gunboat where there are no negotiation rounds to return to,
// PASS is taken literally as "no orders" and accepted. The consolidated
// document is only written when every country has submitted.
func (o *Orchestrator) CollectOrders(ctx context.Context) (bool, error) {
	season := o.Season()
	ctx, span := o.tracer.Start(ctx, "orders",
		trace.WithAttributes(attribute.String("season", season)))
	defer span.End()

	o.out.Section("Orders")
	alwaysAccept := adjustmentSeason(season) || !o.cfg.Mode().Messaging()

	order := o.TurnOrder()
	submitted := make(map[string]string, len(order))
	var outstanding []string

	for _, country := range order {
		text, err := o.countryOrders(ctx, country)
		if err != nil {
			o.out.Failf("%s: %v", country, err)
			outstanding = append(outstanding, country)
			continue
		}
		if isPass(text) && !alwaysAccept {
			o.out.Warnf("%s passed", country)
			outstanding = append(outstanding, country)
			continue
		}
		submitted[country] = text
		o.out.Successf("%s orders received", country)
		o.rec.Record(transcript.Event{
			Type:    transcript.EventOrders,
			Country: country,
			Season:  season,
			Detail:  text,
		})
	}

	if len(outstanding) > 0 {
		o.out.Warnf("not all orders submitted, still waiting on %s",
			strings.Join(outstanding, ", "))
		return false, nil
	}
	return true, o.writeOrdersDocument(season, submitted)
}

// ConsolidateOrders gathers each country's orders file, as written during
// reflection or reaction, into the consolidated document. No model calls;
// this is pure file assembly at the end of a season run.
func (o *Orchestrator) ConsolidateOrders() error {
	order := o.TurnOrder()
	submitted := make(map[string]string, len(order))
	for _, country := range order {
		content, found, err := o.st.ReadCountryFile(country, o.cfg.Paths.Orders)
		if err != nil {
			return err
		}
		if !found || strings.TrimSpace(content) == "" {
			o.out.Warnf("%s has no orders on file", country)
			continue
		}
		submitted[country] = content
	}
	return o.writeOrdersDocument(o.Season(), submitted)
}

func (o *Orchestrator) countryOrders(ctx context.Context, country string) (string, error) {
	s, err := o.session(country)
	if err != nil {
		return "", err
	}
	text, actions, err := s.Orders(ctx)
	if err != nil {
		return "", err
	}
	s.Apply(actions, o.reactRestriction())
	return text, nil
}

func (o *Orchestrator) writeOrdersDocument(season string, submitted map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Orders: %s\n", season)
	for _, country := range o.TurnOrder() {
		text, ok := submitted[country]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n---\n", country, strings.TrimSpace(text))
	}
	if err := os.MkdirAll(o.cfg.Paths.DataDir, 0o755); err != nil {
		return err
	}
	path := o.cfg.OrdersDocumentPath()
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return err
	}
	o.out.Successf("orders written to %s", path)
	return nil
}

// isPass reports whether the first non-empty line of a response opens
// with the PASS sentinel, so "PASS - one more round of talks" defers
// just like a bare "PASS" does.
func isPass(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		if !strings.HasPrefix(upper, passSentinel) {
			return false
		}
		rest := upper[len(passSentinel):]
		return rest == "" || rest[0] < 'A' || rest[0] > 'Z'
	}
	return false
}

// adjustmentSeason reports whether the season label names a build or
// retreat step, where passing is a legitimate final answer.
func adjustmentSeason(season string) bool {
	s := strings.ToLower(season)
	return strings.Contains(s, "winter") ||
		strings.Contains(s, "build") ||
		strings.Contains(s, "retreat")
}
