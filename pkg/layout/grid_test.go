package layout

import (
	"math"
	"testing"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

const a4Aspect = 841.89 / 595.28

func TestPlanGridWorkedScenarios(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		aspect float64
		want   LayoutGrid
	}{
		{
			// Any other candidate only adds waste.
			name:   "single page",
			n:      1,
			aspect: a4Aspect,
			want:   LayoutGrid{Cols: 1, Rows: 1},
		},
		{
			// c=1 scores |2-1.414|=0.586, beating c=2 at |0.5-1.414|=0.914.
			name:   "two up prefers vertical pair",
			n:      2,
			aspect: a4Aspect,
			want:   LayoutGrid{Cols: 1, Rows: 2},
		},
		{
			name:   "four up is square",
			n:      4,
			aspect: a4Aspect,
			want:   LayoutGrid{Cols: 2, Rows: 2},
		},
		{
			// c=2 scores waste 1 + |1.5-1.414| = 1.086, beating the
			// waste-free 1x5 strip at |5-1.414| = 3.586 and c=3 at ~1.747.
			// The aspect penalty deliberately overrides pure waste
			// minimization here.
			name:   "five up trades waste for shape",
			n:      5,
			aspect: a4Aspect,
			want:   LayoutGrid{Cols: 2, Rows: 3},
		},
		{
			name:   "eight up",
			n:      8,
			aspect: a4Aspect,
			want:   LayoutGrid{Cols: 2, Rows: 4},
		},
		{
			// Flat landscape sheet pulls the pair wide instead of stacking it.
			name:   "two up landscape",
			n:      2,
			aspect: 1 / a4Aspect,
			want:   LayoutGrid{Cols: 2, Rows: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanGrid(tt.n, tt.aspect)
			if err != nil {
				t.Fatalf("PlanGrid(%d, %g) error: %v", tt.n, tt.aspect, err)
			}
			if got != tt.want {
				t.Errorf("PlanGrid(%d, %g) = %+v, want %+v", tt.n, tt.aspect, got, tt.want)
			}
		})
	}
}

func TestPlanGridValidity(t *testing.T) {
	for n := 1; n <= 100; n++ {
		grid, err := PlanGrid(n, a4Aspect)
		if err != nil {
			t.Fatalf("PlanGrid(%d) error: %v", n, err)
		}
		if grid.CellCount() < n {
			t.Errorf("PlanGrid(%d) = %dx%d, capacity %d < %d", n, grid.Cols, grid.Rows, grid.CellCount(), n)
		}
		if !grid.Valid() {
			t.Errorf("PlanGrid(%d) = %+v, not a valid grid", n, grid)
		}
	}
}

// TestPlanGridIsArgmin recomputes the candidate scan independently and
// checks the planner returns the first-minimum candidate, for a sweep of
// densities and aspect ratios. This pins down both the scoring function and
// the tie-break order.
func TestPlanGridIsArgmin(t *testing.T) {
	aspects := []float64{a4Aspect, 1.0, 0.7727, 2.0}

	for _, aspect := range aspects {
		for n := 1; n <= 64; n++ {
			want := LayoutGrid{}
			wantCost := math.Inf(1)
			maxCols := int(math.Ceil(math.Sqrt(float64(n)))) + 2
			for c := 1; c <= maxCols; c++ {
				r := (n + c - 1) / c
				cost := float64(r*c-n) + math.Abs(float64(r)/float64(c)-aspect)
				if cost < wantCost {
					wantCost = cost
					want = LayoutGrid{Cols: c, Rows: r}
				}
			}

			got, err := PlanGrid(n, aspect)
			if err != nil {
				t.Fatalf("PlanGrid(%d, %g) error: %v", n, aspect, err)
			}
			if got != want {
				t.Errorf("PlanGrid(%d, %g) = %+v, want first-min %+v", n, aspect, got, want)
			}
		}
	}
}

// TestPlanGridNeverWorseThanStrips verifies the chosen grid's cost never
// exceeds the cost of the trivial single-column strip, i.e. the aspect
// penalty cannot push the planner past the degenerate layout it exists to
// avoid.
func TestPlanGridNeverWorseThanStrips(t *testing.T) {
	for n := 1; n <= 100; n++ {
		grid, err := PlanGrid(n, a4Aspect)
		if err != nil {
			t.Fatalf("PlanGrid(%d) error: %v", n, err)
		}

		cost := func(g LayoutGrid) float64 {
			return float64(g.CellCount()-n) + math.Abs(float64(g.Rows)/float64(g.Cols)-a4Aspect)
		}

		strip := LayoutGrid{Cols: 1, Rows: n}
		if cost(grid) > cost(strip) {
			t.Errorf("PlanGrid(%d) cost %g exceeds 1x%d strip cost %g", n, cost(grid), n, cost(strip))
		}
	}
}

func TestPlanGridInvalidArgs(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		aspect   float64
		wantCode errors.Code
	}{
		{"zero density", 0, a4Aspect, errors.ErrCodeInvalidDensity},
		{"negative density", -3, a4Aspect, errors.ErrCodeInvalidDensity},
		{"zero aspect", 4, 0, errors.ErrCodeInvalidSheet},
		{"negative aspect", 4, -1.4, errors.ErrCodeInvalidSheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanGrid(tt.n, tt.aspect)
			if err == nil {
				t.Fatalf("PlanGrid(%d, %g) expected error", tt.n, tt.aspect)
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("error code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}
