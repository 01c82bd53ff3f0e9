package layout

import (
	"fmt"
	"math"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

// LayoutGrid describes the cell grid used on every sheet side of a job.
// Invariant: Cols*Rows >= the density the grid was planned for.
type LayoutGrid struct {
	Cols int
	Rows int
}

// CellCount returns the total number of grid cells per sheet side.
func (g LayoutGrid) CellCount() int { return g.Cols * g.Rows }

// Valid reports whether the grid has at least one cell in each direction.
func (g LayoutGrid) Valid() bool { return g.Cols >= 1 && g.Rows >= 1 }

// String renders the grid as "ColsxRows", e.g. "2x3".
func (g LayoutGrid) String() string { return fmt.Sprintf("%dx%d", g.Cols, g.Rows) }

// PlanGrid chooses a cols×rows grid for placing n pages on one sheet side.
//
// Candidate column counts run from 1 to ceil(sqrt(n))+2 inclusive. For each
// candidate c the row count is ceil(n/c) and the candidate is scored as
//
//	cost = waste + |rows/cols - sheetAspect|
//
// where waste = rows*cols - n. The aspect term keeps the grid shaped like
// the physical sheet; without it the scan would always degenerate to a 1×n
// strip. Ties go to the first minimum in ascending column order. The scoring
// function is load-bearing: the duplex page mapping assumes exactly this
// (cols, rows) choice, so it must not be tuned independently.
//
// sheetAspect is the height/width ratio of the target sheet, for example
// 1.414 for A4 portrait.
func PlanGrid(n int, sheetAspect float64) (LayoutGrid, error) {
	if n < 1 {
		return LayoutGrid{}, errors.New(errors.ErrCodeInvalidDensity, "n-up density must be >= 1, got %d", n)
	}
	if sheetAspect <= 0 {
		return LayoutGrid{}, errors.New(errors.ErrCodeInvalidSheet, "sheet aspect ratio must be positive, got %g", sheetAspect)
	}

	maxCols := int(math.Ceil(math.Sqrt(float64(n)))) + 2

	best := LayoutGrid{}
	bestCost := math.Inf(1)

	for cols := 1; cols <= maxCols; cols++ {
		rows := (n + cols - 1) / cols
		waste := rows*cols - n
		cost := float64(waste) + math.Abs(float64(rows)/float64(cols)-sheetAspect)

		// Strict less-than keeps the first minimum on ties.
		if cost < bestCost {
			bestCost = cost
			best = LayoutGrid{Cols: cols, Rows: rows}
		}
	}

	return best, nil
}
