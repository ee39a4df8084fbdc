package sim

// Row is one step's aggregate output: the environment snapshot plus the
// post-transition population count of every lifecycle state. The six counts
// always sum to the live population at that step.
type Row struct {
	Step         int     `json:"step" csv:"step" db:"step"`
	Month        int     `json:"month" csv:"month" db:"month"`
	Temperature  float64 `json:"temperature" csv:"temperature" db:"temperature"`
	WaterQuality float64 `json:"water_quality" csv:"water_quality" db:"water_quality"`

	Intact   int `json:"intact" csv:"intact" db:"intact"`
	Dividing int `json:"dividing" csv:"dividing" db:"dividing"`
	Divided  int `json:"divided" csv:"divided" db:"divided"`
	Stressed int `json:"stressed" csv:"stressed" db:"stressed"`
	Encysted int `json:"encysted" csv:"encysted" db:"encysted"`
	Excysted int `json:"excysted" csv:"excysted" db:"excysted"`
}

// Population returns the total live population recorded in the row.
func (r Row) Population() int {
	return r.Intact + r.Dividing + r.Divided + r.Stressed + r.Encysted + r.Excysted
}

// CellView is one occupied cell in a grid snapshot. State is the lowercase
// state name, so renderers can map it to the six fixed colors directly.
type CellView struct {
	Pos   Coord  `json:"pos"`
	ID    uint64 `json:"id"`
	State string `json:"state"`
}

// Snapshot is a read-only view of grid occupancy for rendering.
type Snapshot struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Step   int        `json:"step"`
	Cells  []CellView `json:"cells"`
}
