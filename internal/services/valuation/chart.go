package valuation

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/yogibear102/wealthfolio/internal/interfaces"
)

// RenderAllocationPie renders the net-worth breakdown as a PNG pie chart,
// one slice per asset colored by the asset's display color.
// Returns raw PNG bytes.
func RenderAllocationPie(nw *interfaces.NetWorth) ([]byte, error) {
	if nw == nil || len(nw.Breakdown) == 0 {
		return nil, fmt.Errorf("nothing to chart: no active holdings")
	}

	values := make([]chart.Value, 0, len(nw.Breakdown))
	for _, slice := range nw.Breakdown {
		if slice.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.0f %s)", slice.Label, slice.Value, nw.Currency),
			Value: slice.Value,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(trimHash(slice.Color)),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1.0,
			},
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to chart: all holdings are zero-valued")
	}

	graph := chart.PieChart{
		Title:  "Asset Allocation",
		Width:  600,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func trimHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
