package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/talgya/amoebasim/internal/env"
)

// Caller errors. Everything else the model does — growth, stagnation,
// dormancy — is an expected outcome, never an error.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotInitialized = errors.New("model not initialized")
)

// Params is the model calibration: grid geometry, seeding, and the
// thresholds and probabilities of the transition rules.
type Params struct {
	Width         int // grid width in cells
	Height        int // grid height in cells
	SeedCount     int // initial intact population
	StepsPerMonth int // calendar cadence, in steps

	DivideChance    float64 // per-step division probability under favorable conditions
	StressTolerance int     // consecutive harsh steps a stressed amoeba endures before encysting
	ExcystDuration  int     // steps spent excysting before resuming normal activity
	DividedRecovery int     // steps a parent rests in Divided before reverting to Intact

	TempDrift  float64 // intra-month temperature drift amplitude
	WaterDrift float64 // intra-month water-quality drift amplitude
}

// DefaultParams returns the reference calibration: a 10x10 grid with a
// single seed amoeba, matching the original rule set's scale.
func DefaultParams() Params {
	return Params{
		Width:           10,
		Height:          10,
		SeedCount:       1,
		StepsPerMonth:   1,
		DivideChance:    0.6,
		StressTolerance: 2,
		ExcystDuration:  1,
		DividedRecovery: 2,
		TempDrift:       4.0,
		WaterDrift:      8.0,
	}
}

// Model owns the environment, the grid, and the agent collection, and
// drives one full simulation step at a time. Each Model is independently
// owned; it holds no global state and is not safe for concurrent mutation
// without external synchronization.
type Model struct {
	params Params
	seed   int64

	environment *Environment
	grid        *Grid
	agents      []*Amoeba
	rng         *rand.Rand
	nextID      uint64
	initialized bool
}

// Environment aliases the env package type for callers holding a Model.
type Environment = env.Environment

// New creates a model with the given calibration and random seed. The model
// is unusable until Initialize is called.
func New(params Params, seed int64) *Model {
	return &Model{params: params, seed: seed}
}

// Initialize resets the model to step zero of a run starting at the given
// month, replacing any prior run state. The random stream restarts from the
// model seed, so two runs initialized identically evolve identically.
func (m *Model) Initialize(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d outside [1,12]", ErrInvalidInput, month)
	}
	if m.params.SeedCount > m.params.Width*m.params.Height {
		return fmt.Errorf("%w: seed count %d exceeds grid capacity %d",
			ErrInvalidInput, m.params.SeedCount, m.params.Width*m.params.Height)
	}

	cfg := env.Config{
		StepsPerMonth: m.params.StepsPerMonth,
		NoiseSeed:     m.seed,
		TempDrift:     m.params.TempDrift,
		WaterDrift:    m.params.WaterDrift,
	}
	m.environment = env.New(month, cfg)
	m.grid = NewGrid(m.params.Width, m.params.Height)
	m.agents = nil
	m.rng = rand.New(rand.NewSource(m.seed))
	m.nextID = 1

	for i := 0; i < m.params.SeedCount; i++ {
		pos, err := m.grid.RandomEmptyCell(m.rng)
		if err != nil {
			return err
		}
		a := &Amoeba{ID: m.nextID, Pos: pos, State: StateIntact}
		m.nextID++
		m.grid.Place(a)
		m.agents = append(m.agents, a)
	}

	m.initialized = true
	slog.Info("model initialized",
		"month", month,
		"grid", fmt.Sprintf("%dx%d", m.params.Width, m.params.Height),
		"seeded", len(m.agents),
	)
	return nil
}

// Initialized reports whether Initialize has been called.
func (m *Model) Initialized() bool { return m.initialized }

// Env returns the current environment reading, or nil before Initialize.
func (m *Model) Env() *Environment { return m.environment }

// Population returns the current live population size.
func (m *Model) Population() int { return len(m.agents) }

// Step advances the simulation one step: the environment first, then every
// amoeba alive at the start of the step. Children created during the step
// join the population but do not act until the next one. Returns the
// aggregate row for the post-transition population.
func (m *Model) Step() (Row, error) {
	if !m.initialized {
		return Row{}, ErrNotInitialized
	}

	m.environment.Advance()

	acting := m.agents
	var born []*Amoeba
	for _, a := range acting {
		if child := m.transition(a); child != nil {
			born = append(born, child)
		}
	}
	m.agents = append(m.agents, born...)

	return m.aggregate(), nil
}

// Run advances the simulation n steps, returning the rows in order.
func (m *Model) Run(n int) ([]Row, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: steps %d, need at least 1", ErrInvalidInput, n)
	}
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		row, err := m.Step()
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// transition applies the per-step rule to one amoeba, returning a newborn
// child when a division completes. At most one state change per call.
func (m *Model) transition(a *Amoeba) *Amoeba {
	e := m.environment

	switch a.State {
	case StateIntact:
		switch {
		case e.Harsh():
			a.enter(StateStressed)
		case e.Favorable() && m.rng.Float64() < m.params.DivideChance:
			if target, ok := m.grid.RandomEmptyNeighbor(a.Pos, m.rng); ok {
				a.divideTarget = &target
				a.enter(StateDividing)
			} else {
				// Crowded out: nowhere to place a child.
				a.enter(StateStressed)
			}
		default:
			a.stay()
		}

	case StateDividing:
		target := *a.divideTarget
		a.divideTarget = nil
		if m.grid.Empty(target) {
			child := &Amoeba{ID: m.nextID, Pos: target, State: StateIntact}
			m.nextID++
			m.grid.Place(child)
			a.enter(StateDivided)
			return child
		}
		// Cell claimed since the division began.
		a.enter(StateStressed)

	case StateDivided:
		if a.AgeInState >= m.params.DividedRecovery {
			a.enter(StateIntact)
		} else {
			a.stay()
		}

	case StateStressed:
		switch {
		case e.Favorable():
			a.enter(StateIntact)
		case a.AgeInState >= m.params.StressTolerance:
			a.enter(StateEncysted)
		default:
			a.stay()
		}

	case StateEncysted:
		if e.Favorable() {
			a.enter(StateExcysted)
		} else {
			a.stay()
		}

	case StateExcysted:
		if a.AgeInState >= m.params.ExcystDuration {
			a.enter(StateIntact)
		} else {
			a.stay()
		}

	default:
		panic(fmt.Sprintf("amoeba %d in undefined state %d", a.ID, a.State))
	}

	return nil
}

// aggregate builds the row for the current post-transition population.
func (m *Model) aggregate() Row {
	row := Row{
		Step:         m.environment.StepCount(),
		Month:        m.environment.Month(),
		Temperature:  m.environment.Temperature,
		WaterQuality: m.environment.WaterQuality,
	}
	for _, a := range m.agents {
		switch a.State {
		case StateIntact:
			row.Intact++
		case StateDividing:
			row.Dividing++
		case StateDivided:
			row.Divided++
		case StateStressed:
			row.Stressed++
		case StateEncysted:
			row.Encysted++
		case StateExcysted:
			row.Excysted++
		}
	}
	return row
}

// Snapshot returns a read-only view of grid occupancy, cells ordered
// row-major for stable output.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Width:  m.params.Width,
		Height: m.params.Height,
	}
	if !m.initialized {
		return s
	}
	s.Step = m.environment.StepCount()
	for _, a := range m.agents {
		s.Cells = append(s.Cells, CellView{Pos: a.Pos, ID: a.ID, State: a.State.String()})
	}
	sort.Slice(s.Cells, func(i, j int) bool {
		if s.Cells[i].Pos.Y != s.Cells[j].Pos.Y {
			return s.Cells[i].Pos.Y < s.Cells[j].Pos.Y
		}
		return s.Cells[i].Pos.X < s.Cells[j].Pos.X
	})
	return s
}
