package layout

import (
	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

// Offsets of the page-number stamp from its cell's top-left corner, in
// sheet units. TextY is measured down from the cell's top edge to the text
// baseline.
const (
	stampInsetX = 10
	stampInsetY = 14
)

// SheetSide identifies one printable face of one output sheet.
type SheetSide struct {
	Sheet int  // 0-based sheet index within the stack
	Front bool // front face when true, back face when false
}

// Cell is one grid position on a sheet side together with the source page
// assigned to it.
//
// Row and Col are the logical grid coordinates used by the pairing formula.
// TargetCol is the physical column after back-side mirroring; on front sides
// it equals Col. Page is the 1-based source page number, or 0 when the cell
// is empty (page number past the end of the document, or a waste cell beyond
// the requested density).
type Cell struct {
	Row       int
	Col       int
	TargetCol int
	Page      int
}

// Empty reports whether the cell carries no source page.
func (c Cell) Empty() bool { return c.Page == 0 }

// Placement positions one source page inside its cell. Scale is uniform and
// OffsetX/OffsetY are the absolute sheet coordinates of the scaled page's
// bottom-left corner, in PDF bottom-up space.
type Placement struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// GuideLine is one dashed cut line in sheet coordinates.
type GuideLine struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Stamp is one page-number overlay label. TextX/TextY anchor the text
// baseline in sheet coordinates; the position follows the physical
// (mirrored) cell so the number always sits on the page it labels.
type Stamp struct {
	Page  int
	TextX float64
	TextY float64
}

// MirrorColumn maps a logical column to its physical column on a back side.
// Applying it twice returns the original column.
func MirrorColumn(cols, col int) int { return cols - 1 - col }

// Composer maps input pages onto output sheet sides for one imposition job.
// It is created once per job with an immutable grid and holds no reference
// to the source document; concurrent jobs each build their own Composer.
type Composer struct {
	totalPages int
	density    int
	grid       LayoutGrid
	sheetW     float64
	sheetH     float64
	cellW      float64
	cellH      float64
	sheets     int
}

// NewComposer validates the job parameters and derives the per-sheet
// quantities. totalPages may be zero: the job then produces zero sheets,
// which is a valid terminal state, not an error.
func NewComposer(totalPages, density int, grid LayoutGrid, sheetW, sheetH float64) (*Composer, error) {
	if totalPages < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page count must be >= 0, got %d", totalPages)
	}
	if density < 1 {
		return nil, errors.New(errors.ErrCodeInvalidDensity, "n-up density must be >= 1, got %d", density)
	}
	if !grid.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid %dx%d has no cells", grid.Cols, grid.Rows)
	}
	if grid.CellCount() < density {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid %dx%d cannot hold %d pages per side", grid.Cols, grid.Rows, density)
	}
	if sheetW <= 0 || sheetH <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSheet, "sheet dimensions must be positive, got %gx%g", sheetW, sheetH)
	}

	// Each sheet consumes 2*density input pages (front and back).
	perSheet := 2 * density
	sheets := (totalPages + perSheet - 1) / perSheet

	return &Composer{
		totalPages: totalPages,
		density:    density,
		grid:       grid,
		sheetW:     sheetW,
		sheetH:     sheetH,
		cellW:      sheetW / float64(grid.Cols),
		cellH:      sheetH / float64(grid.Rows),
		sheets:     sheets,
	}, nil
}

// Grid returns the grid the composer was built with.
func (c *Composer) Grid() LayoutGrid { return c.grid }

// Density returns the requested pages-per-side N.
func (c *Composer) Density() int { return c.density }

// SheetCount returns the number of physical sheets, ceil(P / 2N).
func (c *Composer) SheetCount() int { return c.sheets }

// OutputPageCount returns the number of output document pages, two per sheet.
func (c *Composer) OutputPageCount() int { return 2 * c.sheets }

// CellSize returns the width and height of one grid cell.
func (c *Composer) CellSize() (w, h float64) { return c.cellW, c.cellH }

// Sides returns the output sheet sides in emission order: sheet 0 front,
// sheet 0 back, sheet 1 front, sheet 1 back, and so on.
func (c *Composer) Sides() []SheetSide {
	sides := make([]SheetSide, 0, 2*c.sheets)
	for s := 0; s < c.sheets; s++ {
		sides = append(sides, SheetSide{Sheet: s, Front: true})
		sides = append(sides, SheetSide{Sheet: s, Front: false})
	}
	return sides
}

// PageForCell returns the 1-based source page occupying the logical cell
// (row, col) on the given side, or 0 when the cell is empty.
//
// The sequential duplex mapping: the cell's row-major stack index selects a
// sub-stack, globalPair = sheet*N + stackIndex selects the front/back page
// pair, and the side picks pair*2+1 (front) or pair*2+2 (back). Stack
// indexes at or beyond N are waste cells and never carry a page; without
// that guard a grid with spare cells would assign the next sheet's pages
// twice.
func (c *Composer) PageForCell(side SheetSide, row, col int) int {
	if row < 0 || row >= c.grid.Rows || col < 0 || col >= c.grid.Cols {
		return 0
	}

	stackIndex := row*c.grid.Cols + col
	if stackIndex >= c.density {
		return 0
	}

	pair := side.Sheet*c.density + stackIndex
	page := pair*2 + 1
	if !side.Front {
		page = pair*2 + 2
	}
	if page > c.totalPages {
		return 0
	}
	return page
}

// Cells enumerates every grid cell of the given side in row-major order,
// including empty ones. Back sides report mirrored target columns while the
// page selection uses the unmirrored column.
func (c *Composer) Cells(side SheetSide) []Cell {
	cells := make([]Cell, 0, c.grid.CellCount())
	for row := 0; row < c.grid.Rows; row++ {
		for col := 0; col < c.grid.Cols; col++ {
			target := col
			if !side.Front {
				target = MirrorColumn(c.grid.Cols, col)
			}
			cells = append(cells, Cell{
				Row:       row,
				Col:       col,
				TargetCol: target,
				Page:      c.PageForCell(side, row, col),
			})
		}
	}
	return cells
}

// Place computes the transform that centers a source page of srcW×srcH
// inside the cell's physical position, scaled uniformly to the largest size
// fully contained by the cell. Coordinates are PDF bottom-up: the cell in
// grid row r has its bottom edge at sheetH-(r+1)*cellH.
func (c *Composer) Place(cell Cell, srcW, srcH float64) Placement {
	scale := c.cellW / srcW
	if s := c.cellH / srcH; s < scale {
		scale = s
	}

	cellX := float64(cell.TargetCol) * c.cellW
	cellY := c.sheetH - float64(cell.Row+1)*c.cellH

	return Placement{
		Scale:   scale,
		OffsetX: cellX + (c.cellW-srcW*scale)/2,
		OffsetY: cellY + (c.cellH-srcH*scale)/2,
	}
}

// CutLines returns the dashed guide lines marking every internal grid
// boundary. Sheet edges are not guides; a 1×1 grid has none.
func (c *Composer) CutLines() []GuideLine {
	lines := make([]GuideLine, 0, c.grid.Cols+c.grid.Rows-2)
	for col := 1; col < c.grid.Cols; col++ {
		x := float64(col) * c.cellW
		lines = append(lines, GuideLine{X1: x, Y1: 0, X2: x, Y2: c.sheetH})
	}
	for row := 1; row < c.grid.Rows; row++ {
		y := float64(row) * c.cellH
		lines = append(lines, GuideLine{X1: 0, Y1: y, X2: c.sheetW, Y2: y})
	}
	return lines
}

// Stamps returns the page-number labels for every occupied cell of the
// given side, anchored near the top-left corner of the physical cell.
func (c *Composer) Stamps(side SheetSide) []Stamp {
	var stamps []Stamp
	for _, cell := range c.Cells(side) {
		if cell.Empty() {
			continue
		}
		cellX := float64(cell.TargetCol) * c.cellW
		cellTop := c.sheetH - float64(cell.Row)*c.cellH
		stamps = append(stamps, Stamp{
			Page:  cell.Page,
			TextX: cellX + stampInsetX,
			TextY: cellTop - stampInsetY,
		})
	}
	return stamps
}
