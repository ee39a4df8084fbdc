package report

import (
	"gonum.org/v1/gonum/stat"

	"github.com/talgya/amoebasim/internal/sim"
)

// Summary holds run-level statistics over a sequence of aggregate rows.
type Summary struct {
	Steps           int     `json:"steps"`
	FinalPopulation int     `json:"final_population"`
	PeakPopulation  int     `json:"peak_population"`
	MeanPopulation  float64 `json:"mean_population"`
	StdPopulation   float64 `json:"std_population"`
	MeanTemperature float64 `json:"mean_temperature"`
	MeanWater       float64 `json:"mean_water_quality"`
	TotalDivisions  int     `json:"total_divisions"` // population growth over the run
}

// Summarize computes run statistics from rows in step order.
func Summarize(rows []sim.Row) Summary {
	if len(rows) == 0 {
		return Summary{}
	}

	pops := make([]float64, len(rows))
	temps := make([]float64, len(rows))
	water := make([]float64, len(rows))
	peak := 0
	for i, r := range rows {
		p := r.Population()
		pops[i] = float64(p)
		temps[i] = r.Temperature
		water[i] = r.WaterQuality
		if p > peak {
			peak = p
		}
	}

	first := rows[0].Population()
	last := rows[len(rows)-1].Population()

	// Sample stddev is undefined for a single observation; report 0 so the
	// summary stays JSON-encodable.
	std := 0.0
	if len(rows) > 1 {
		std = stat.StdDev(pops, nil)
	}

	return Summary{
		Steps:           len(rows),
		FinalPopulation: last,
		PeakPopulation:  peak,
		MeanPopulation:  stat.Mean(pops, nil),
		StdPopulation:   std,
		MeanTemperature: stat.Mean(temps, nil),
		MeanWater:       stat.Mean(water, nil),
		TotalDivisions:  last - first,
	}
}
