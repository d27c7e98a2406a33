package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"SplitChart/internal/chart"
	"SplitChart/internal/model"
)

func sideIcon(s model.Side) string {
	if s == model.SideAbove {
		return "🟢"
	}
	return "🔴"
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatCrossingAlert formats a side change of the newest segment.
func FormatCrossingAlert(prev, next model.Side, p *chart.Pass) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s <b>Reference crossed</b> | %s → %s\n\n", sideIcon(next), prev, next))
	b.WriteString(fmt.Sprintf("Reference: %s\n", money(p.Reference)))
	if n := len(p.Samples); n > 0 {
		last := p.Samples[n-1]
		b.WriteString(fmt.Sprintf("Last price: %s (%s)\n", money(last.Price), last.Time.UTC().Format("2006-01-02 15:04")))
	}
	if n := len(p.Segments); n > 0 {
		seg := p.Segments[n-1]
		b.WriteString(fmt.Sprintf("Since: %s\n", seg.Points[0].X.UTC().Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatPassSummary formats the current chart state for display.
func FormatPassSummary(p *chart.Pass) string {
	if p == nil {
		return "📉 no chart data yet"
	}
	var above, below int
	for _, seg := range p.Segments {
		if seg.Above() {
			above++
		} else {
			below++
		}
	}

	var b strings.Builder
	b.WriteString("📈 <b>Chart status</b>\n\n")
	b.WriteString(fmt.Sprintf("Reference: %s\n", money(p.Reference)))
	b.WriteString(fmt.Sprintf("Samples: %d\n", len(p.Samples)))
	b.WriteString(fmt.Sprintf("Segments: %d (%d above, %d below)\n", len(p.Segments), above, below))
	if side, ok := p.LastSide(); ok {
		b.WriteString(fmt.Sprintf("Now: %s %s\n", sideIcon(side), side))
	}
	b.WriteString(fmt.Sprintf("Updated: %s\n", p.CreatedAt.Format("2006-01-02 15:04")))
	return b.String()
}
