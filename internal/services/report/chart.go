package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"whaletrack/internal/models"
)

// maxChartBars caps the concentration chart at the largest positions;
// the long tail renders as unreadable slivers.
const maxChartBars = 15

// RenderConcentrationChart renders a PNG bar chart of the largest
// holdings by reported value. Holdings arrive ticker-ordered; the chart
// shows them largest first. Returns raw PNG bytes.
func RenderConcentrationChart(holdings []models.PricedHolding) ([]byte, error) {
	if len(holdings) == 0 {
		return nil, fmt.Errorf("no holdings to chart")
	}

	ranked := make([]models.PricedHolding, len(holdings))
	copy(ranked, holdings)
	for i := 0; i < len(ranked)-1; i++ {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].Position.Value.GreaterThan(ranked[i].Position.Value) {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	if len(ranked) > maxChartBars {
		ranked = ranked[:maxChartBars]
	}

	bars := make([]chart.Value, len(ranked))
	for i, h := range ranked {
		bars[i] = chart.Value{
			Label: h.Position.Ticker,
			Value: h.Position.Value.InexactFloat64(),
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"), // blue-600
				StrokeColor: drawing.ColorFromHex("1e40af"), // blue-800
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Holdings Concentration",
		Width:    900,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					switch {
					case f >= 1e9:
						return fmt.Sprintf("$%.1fB", f/1e9)
					case f >= 1e6:
						return fmt.Sprintf("$%.0fM", f/1e6)
					default:
						return fmt.Sprintf("$%.0fk", f/1e3)
					}
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
