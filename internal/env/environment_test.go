package env

import (
	"math"
	"testing"
)

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		month int
		want  Season
	}{
		{1, SeasonWinter},
		{2, SeasonWinter},
		{3, SeasonTemperate},
		{4, SeasonTemperate},
		{5, SeasonTemperate},
		{6, SeasonSummer},
		{7, SeasonSummer},
		{8, SeasonSummer},
		{9, SeasonTemperate},
		{10, SeasonTemperate},
		{11, SeasonTemperate},
		{12, SeasonWinter},
	}
	for _, tt := range tests {
		if got := SeasonFor(tt.month); got != tt.want {
			t.Errorf("SeasonFor(%d) = %s, want %s", tt.month, SeasonName(got), SeasonName(tt.want))
		}
	}
}

func TestMonthCycling(t *testing.T) {
	e := New(1, DefaultConfig(7))
	for i := 0; i < 12; i++ {
		e.Advance()
		if e.Month() < 1 || e.Month() > 12 {
			t.Fatalf("month %d outside [1,12] after %d advances", e.Month(), i+1)
		}
	}
	if e.Month() != 1 {
		t.Errorf("month after full cycle = %d, want 1", e.Month())
	}
}

func TestStepsPerMonthCadence(t *testing.T) {
	cfg := DefaultConfig(7)
	cfg.StepsPerMonth = 5
	e := New(3, cfg)

	for i := 0; i < 4; i++ {
		e.Advance()
		if e.Month() != 3 {
			t.Fatalf("month advanced early: %d after %d steps", e.Month(), i+1)
		}
	}
	e.Advance()
	if e.Month() != 4 {
		t.Errorf("month after 5 steps = %d, want 4", e.Month())
	}

	// A full year of cadence returns to the start.
	for i := 0; i < 11*5; i++ {
		e.Advance()
	}
	if e.Month() != 3 {
		t.Errorf("month after full cadence year = %d, want 3", e.Month())
	}
}

func TestDeterminism(t *testing.T) {
	a := New(1, DefaultConfig(99))
	b := New(1, DefaultConfig(99))

	for i := 0; i < 50; i++ {
		a.Advance()
		b.Advance()
		if a.Temperature != b.Temperature || a.WaterQuality != b.WaterQuality {
			t.Fatalf("step %d diverged: (%g, %g) vs (%g, %g)",
				i+1, a.Temperature, a.WaterQuality, b.Temperature, b.WaterQuality)
		}
	}
}

func TestSeasonalBands(t *testing.T) {
	e := New(1, DefaultConfig(11))
	for i := 0; i < 48; i++ {
		switch e.Season() {
		case SeasonWinter:
			if e.WaterQuality >= FavorableWater {
				t.Errorf("month %d (winter): water quality %g, want < %g", e.Month(), e.WaterQuality, FavorableWater)
			}
			if !e.Harsh() {
				t.Errorf("month %d (winter): expected harsh conditions", e.Month())
			}
		case SeasonSummer:
			if e.Favorable() {
				t.Errorf("month %d (summer): expected unfavorable conditions", e.Month())
			}
			if e.Temperature < 30 {
				t.Errorf("month %d (summer): temperature %g, want >= 30", e.Month(), e.Temperature)
			}
		case SeasonTemperate:
			if !e.Favorable() {
				t.Errorf("month %d (temperate): water %g, expected favorable", e.Month(), e.WaterQuality)
			}
		}
		if e.WaterQuality < 0 || e.WaterQuality > 100 {
			t.Errorf("water quality %g outside [0,100]", e.WaterQuality)
		}
		e.Advance()
	}
}

func TestCurveRepeatsAcrossCycles(t *testing.T) {
	cfg := DefaultConfig(5)
	cfg.TempDrift = 0
	cfg.WaterDrift = 0
	e := New(1, cfg)

	firstCycle := make([]float64, 12)
	for i := 0; i < 12; i++ {
		e.Advance()
		firstCycle[i] = e.Temperature
	}
	for i := 0; i < 12; i++ {
		e.Advance()
		if math.Abs(e.Temperature-firstCycle[i]) > 1e-9 {
			t.Errorf("cycle 2 step %d: temperature %g, want %g", i+1, e.Temperature, firstCycle[i])
		}
	}
}

func TestStepCount(t *testing.T) {
	e := New(6, DefaultConfig(1))
	if e.StepCount() != 0 {
		t.Fatalf("initial step count = %d, want 0", e.StepCount())
	}
	for i := 1; i <= 10; i++ {
		e.Advance()
		if e.StepCount() != i {
			t.Fatalf("step count = %d after %d advances", e.StepCount(), i)
		}
	}
}
