package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"MarketPulse/internal/model"
)

// FormatDashboard renders the view model as a Telegram HTML message.
func FormatDashboard(vm *model.DashboardViewModel) string {
	var b strings.Builder

	state := "closed"
	if vm.Session.Open {
		state = "open"
	}
	b.WriteString(fmt.Sprintf("📊 <b>MarketPulse</b> | %s %s | market %s\n\n", vm.Timestamp, vm.Zone, state))

	writePanel(&b, vm.Primary)
	writePanel(&b, vm.Secondary)

	// Sentiment
	b.WriteString(fmt.Sprintf("📰 <b>Sentiment:</b> %s (%+.2f)\n", vm.Sentiment.Label, vm.Sentiment.Average))
	for _, h := range vm.Sentiment.TopHeadlines {
		b.WriteString(fmt.Sprintf("  %+.2f %s\n", h.Score, html.EscapeString(h.Title)))
	}

	// World
	if len(vm.World) > 0 {
		b.WriteString("\n🌍 <b>World:</b>\n")
		for _, w := range vm.World {
			b.WriteString(fmt.Sprintf("  %s: %+.2f%%\n", html.EscapeString(w.Name), w.Change))
		}
	}

	return b.String()
}

func writePanel(b *strings.Builder, p model.IndexPanel) {
	if !p.Available() {
		b.WriteString(fmt.Sprintf("<b>%s</b>: %s\n\n", p.Symbol, p.Err))
		return
	}
	s := p.Snapshot
	b.WriteString(fmt.Sprintf("<b>%s</b> %.2f | %s\n", s.Name, s.Price, s.Signal))
	b.WriteString(fmt.Sprintf("  PCR(sim): %.2f | Target: %.2f\n", s.SyntheticRatio, s.Target))
	b.WriteString(fmt.Sprintf("  RSI: %s | VWAP: %s | ATR: %s\n\n", num(s.RSI), num(s.VWAP), num(s.ATR)))
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
