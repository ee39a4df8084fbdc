package report

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/talgya/amoebasim/internal/sim"
)

// EnvironmentChart renders temperature and water quality over the run's
// steps as a PNG line chart. Needs at least two rows to draw a line.
func EnvironmentChart(rows []sim.Row) ([]byte, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("need at least 2 rows to chart, got %d", len(rows))
	}

	steps := make([]float64, len(rows))
	temps := make([]float64, len(rows))
	water := make([]float64, len(rows))
	for i, r := range rows {
		steps[i] = float64(r.Step)
		temps[i] = r.Temperature
		water[i] = r.WaterQuality
	}

	graph := chart.Chart{
		Title:  "Environmental Conditions Over Time",
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			Name: "Simulation Step",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name: "Condition Value",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Water Quality",
				XValues: steps,
				YValues: water,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.0,
				},
			},
			chart.ContinuousSeries{
				Name:    "Temperature",
				XValues: steps,
				YValues: temps,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2.0,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}

// EnvironmentChartBase64 renders the environment chart and encodes it as a
// base64 string for embedding in JSON responses.
func EnvironmentChartBase64(rows []sim.Row) (string, error) {
	pngBytes, err := EnvironmentChart(rows)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(pngBytes), nil
}
