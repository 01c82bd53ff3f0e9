// Package layout computes the page-to-sheet geometry for N-up duplex
// imposition.
//
// # Overview
//
// Imposition tiles N logical pages of an input document onto each side of a
// physical sheet, front and back, so that after duplex printing the sheet
// stack can be cut along a grid and the resulting sub-stacks collated back
// into the original page order. This package is the pure core of that
// process; it performs no I/O and knows nothing about PDF encodings.
//
// Two components cooperate:
//
//   - [PlanGrid] chooses a cols×rows grid for a density N and a sheet aspect
//     ratio, trading wasted cells against grid shapes that mismatch the
//     physical sheet.
//
//   - [Composer] maps every input page to a (sheet, side, cell) coordinate
//     under the sequential duplex pairing scheme, computes the scale/center
//     placement transform for each cell, and derives the cut-guide and
//     page-number overlay geometry.
//
// # Duplex Pairing
//
// Input pages are consumed in front/back pairs: pair k places page 2k+1 on a
// front side and page 2k+2 directly behind it on the back side. Pairs fill
// sheet cells in row-major order, so cutting the printed stack yields N
// sub-stacks whose concatenation in stack-index order restores the original
// sequence.
//
// On back sides the target column is mirrored horizontally (the row is
// unchanged): duplex printing flips the sheet about its vertical axis, and
// without the mirror a page's back would sit behind the wrong column.
//
// # Coordinates
//
// All geometry uses PDF-native coordinates: the origin is the bottom-left
// corner of the sheet and Y grows upward. Rows are still counted top to
// bottom, which is why a cell's origin is sheetHeight-(row+1)*cellHeight.
// Rendering backends with top-down coordinate systems own the conversion.
//
// # Usage
//
//	grid, err := layout.PlanGrid(4, sheetH/sheetW)
//	comp, err := layout.NewComposer(pageCount, 4, grid, sheetW, sheetH)
//	for _, side := range comp.Sides() {
//	    for _, cell := range comp.Cells(side) {
//	        if cell.Page == 0 {
//	            continue // empty cell
//	        }
//	        p := comp.Place(cell, srcW, srcH)
//	        // render cell.Page at (p.OffsetX, p.OffsetY) scaled by p.Scale
//	    }
//	}
package layout
