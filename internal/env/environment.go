// Package env models the seasonal environment that drives amoeba behavior.
// Temperature and water quality are pure functions of (month, step count):
// a smooth annual curve plus simplex-noise drift keyed by the step counter.
package env

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Season classifies a calendar month into the three regimes the amoeba
// rule set distinguishes.
type Season uint8

const (
	SeasonWinter    Season = 0 // Dec–Feb: sub-zero band, poor water
	SeasonSummer    Season = 1 // Jun–Aug: extreme-hot band
	SeasonTemperate Season = 2 // everything else
)

// SeasonName returns a human-readable season name.
func SeasonName(s Season) string {
	switch s {
	case SeasonWinter:
		return "Winter"
	case SeasonSummer:
		return "Summer"
	case SeasonTemperate:
		return "Temperate"
	default:
		return "Unknown"
	}
}

// SeasonFor classifies a month in [1,12].
func SeasonFor(month int) Season {
	switch month {
	case 12, 1, 2:
		return SeasonWinter
	case 6, 7, 8:
		return SeasonSummer
	default:
		return SeasonTemperate
	}
}

// Annual curve calibration. Midpoint and amplitude put winter around -5C
// with water quality in the 25–35 range, and summer around 45C. The water
// curve is clamped to [0,100]; temperate months stay above the favorable
// threshold even at full negative drift.
const (
	tempMid   = 20.0
	tempAmp   = 25.0
	waterMid  = 91.0
	waterAmp  = 66.0
	driftFreq = 0.05 // noise coordinate per step

	// FavorableWater is the minimum water quality for division/excystment.
	FavorableWater = 50.0
)

// Config controls cadence and drift of the environment signals.
type Config struct {
	StepsPerMonth int   // month advances every N steps (min 1)
	NoiseSeed     int64 // seed for the drift noise layers
	TempDrift     float64
	WaterDrift    float64
}

// DefaultConfig returns the standard calibration: one month per step, as in
// the reference rule set, with mild drift on both signals.
func DefaultConfig(seed int64) Config {
	return Config{
		StepsPerMonth: 1,
		NoiseSeed:     seed,
		TempDrift:     4.0,
		WaterDrift:    8.0,
	}
}

// Environment holds the current reading. Signals are recomputed from
// (month, stepCount) on every Advance; nothing accumulates besides those two.
type Environment struct {
	month     int
	stepCount int
	cfg       Config

	tempNoise  opensimplex.Noise
	waterNoise opensimplex.Noise

	// Current derived signals.
	Temperature  float64
	WaterQuality float64
}

// New creates an environment starting at the given month. The caller is
// responsible for validating month into [1,12].
func New(month int, cfg Config) *Environment {
	if cfg.StepsPerMonth < 1 {
		cfg.StepsPerMonth = 1
	}
	e := &Environment{
		month:      month,
		cfg:        cfg,
		tempNoise:  opensimplex.NewNormalized(cfg.NoiseSeed),
		waterNoise: opensimplex.NewNormalized(cfg.NoiseSeed + 1),
	}
	e.recompute()
	return e
}

// Month returns the current calendar month in [1,12].
func (e *Environment) Month() int { return e.month }

// StepCount returns the number of Advance calls since construction.
func (e *Environment) StepCount() int { return e.stepCount }

// Season returns the regime of the current month.
func (e *Environment) Season() Season { return SeasonFor(e.month) }

// Advance moves simulated time forward one step, rolling the month on the
// configured cadence and recomputing both signals. Month arithmetic always
// normalizes into [1,12].
func (e *Environment) Advance() {
	e.stepCount++
	if e.stepCount%e.cfg.StepsPerMonth == 0 {
		e.month = e.month%12 + 1
	}
	e.recompute()
}

func (e *Environment) recompute() {
	phase := 2 * math.Pi * float64(e.month-1) / 12

	t := e.tempNoise.Eval2(float64(e.stepCount)*driftFreq, 0)
	w := e.waterNoise.Eval2(float64(e.stepCount)*driftFreq, 0)

	e.Temperature = tempMid - tempAmp*math.Cos(phase) + (t-0.5)*2*e.cfg.TempDrift
	e.WaterQuality = clamp(waterMid-waterAmp*math.Cos(phase)+(w-0.5)*2*e.cfg.WaterDrift, 0, 100)
}

// Favorable reports whether conditions support division and excystment:
// a temperate month with adequate water quality.
func (e *Environment) Favorable() bool {
	return e.Season() == SeasonTemperate && e.WaterQuality >= FavorableWater
}

// Harsh reports whether conditions push amoebas toward encystment: poor
// water, or a month in the sub-zero or extreme-hot band.
func (e *Environment) Harsh() bool {
	return e.WaterQuality < FavorableWater || e.Season() != SeasonTemperate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
