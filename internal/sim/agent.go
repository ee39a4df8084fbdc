// Package sim provides the amoeba lifecycle model: the agent state machine,
// the single-occupancy grid, and the stepping loop with per-step aggregation.
package sim

// State is an amoeba's lifecycle state.
type State uint8

const (
	StateIntact   State = iota // normal activity
	StateDividing              // division in progress, completes next step
	StateDivided               // just produced a child, recovering
	StateStressed              // unfavorable conditions or crowding
	StateEncysted              // dormant
	StateExcysted              // dormancy exit in progress
)

// NumStates is the number of lifecycle states.
const NumStates = 6

// String returns the lowercase state name used in snapshots and reports.
func (s State) String() string {
	switch s {
	case StateIntact:
		return "intact"
	case StateDividing:
		return "dividing"
	case StateDivided:
		return "divided"
	case StateStressed:
		return "stressed"
	case StateEncysted:
		return "encysted"
	case StateExcysted:
		return "excysted"
	default:
		return "unknown"
	}
}

// Coord is a grid cell position.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Amoeba is one organism. Position is fixed for its lifetime; only the
// lifecycle state and its age change. Owned exclusively by the Model.
type Amoeba struct {
	ID         uint64 `json:"id"`
	Pos        Coord  `json:"pos"`
	State      State  `json:"state"`
	AgeInState int    `json:"age_in_state"` // steps spent in the current state

	// Cell reserved while Dividing. The cell is re-checked when division
	// completes; a competing division may have claimed it in the meantime.
	divideTarget *Coord
}

// enter moves the amoeba into a new state, resetting the state age.
func (a *Amoeba) enter(s State) {
	a.State = s
	a.AgeInState = 0
}

// stay ages the amoeba one step within its current state.
func (a *Amoeba) stay() {
	a.AgeInState++
}
