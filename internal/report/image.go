package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/talgya/amoebasim/internal/sim"
)

// CellSize is the rendered pixel size of one grid cell.
const CellSize = 40

// stateColors is the fixed six-color presentation mapping.
var stateColors = map[string]color.RGBA{
	"intact":   {R: 0x22, G: 0x8b, B: 0x22, A: 0xff}, // green
	"dividing": {R: 0xff, G: 0xd7, B: 0x00, A: 0xff}, // yellow
	"divided":  {R: 0xcc, G: 0x22, B: 0x22, A: 0xff}, // red
	"stressed": {R: 0xff, G: 0x8c, B: 0x00, A: 0xff}, // orange
	"encysted": {R: 0x1e, G: 0x50, B: 0xa2, A: 0xff}, // blue
	"excysted": {R: 0x87, G: 0xce, B: 0xeb, A: 0xff}, // light blue
}

var emptyCell = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
var gridLine = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// RenderSnapshot draws the grid snapshot, one colored square per occupied
// cell. Unknown states render grey.
func RenderSnapshot(s sim.Snapshot) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width*CellSize, s.Height*CellSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: emptyCell}, image.Point{}, draw.Src)

	for _, cell := range s.Cells {
		c, ok := stateColors[cell.State]
		if !ok {
			c = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
		}
		rect := image.Rect(
			cell.Pos.X*CellSize, cell.Pos.Y*CellSize,
			(cell.Pos.X+1)*CellSize, (cell.Pos.Y+1)*CellSize,
		)
		draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
	}

	// Cell borders.
	for x := 0; x <= s.Width; x++ {
		for y := 0; y < s.Height*CellSize; y++ {
			px := x * CellSize
			if px >= img.Bounds().Dx() {
				px = img.Bounds().Dx() - 1
			}
			img.SetRGBA(px, y, gridLine)
		}
	}
	for y := 0; y <= s.Height; y++ {
		for x := 0; x < s.Width*CellSize; x++ {
			py := y * CellSize
			if py >= img.Bounds().Dy() {
				py = img.Bounds().Dy() - 1
			}
			img.SetRGBA(x, py, gridLine)
		}
	}

	return img
}

// SnapshotPNG renders the snapshot and encodes it as PNG bytes.
func SnapshotPNG(s sim.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, RenderSnapshot(s)); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
