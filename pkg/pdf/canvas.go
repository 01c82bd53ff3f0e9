package pdf

import (
	"bytes"
	"io"
	"strconv"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/layout"
)

// Overlay appearance, matching the cut-guide and stamp geometry the layout
// core computes positions for.
const (
	guideGray      = 128 // 50% gray stroke
	guideLineWidth = 0.5 // pt

	stampFont      = "Helvetica"
	stampStyle     = "B"
	stampSize      = 5.0 // pt
	stampPad       = 2.0 // background rect inset around the text origin
	stampBoxHeight = 8.0 // background rect height
)

// guideDash is the dash pattern for cut lines, in pt.
var guideDash = []float64{2, 2}

// Canvas builds the imposed output document. Source pages are imported as
// templates so their content streams are embedded untouched and only
// transformed into place; guide lines and stamps are drawn over them.
//
// The layout core supplies coordinates in PDF bottom-up space while fpdf
// draws top-down, so every public method converts on entry. A Canvas is
// bound to one source document and one goroutine; neither fpdf nor the
// gofpdi importer tolerates concurrent use.
type Canvas struct {
	doc      *fpdf.Fpdf
	importer *gofpdi.Importer
	src      io.ReadSeeker
	sheetW   float64
	sheetH   float64
	sheets   int
}

// NewCanvas prepares an output document with the given sheet size, composing
// from the raw bytes of an already-validated source PDF.
func NewCanvas(src []byte, sheetW, sheetH float64) (*Canvas, error) {
	if len(src) == 0 {
		return nil, errors.New(errors.ErrCodeDocumentMalformed, "source document is empty")
	}
	if sheetW <= 0 || sheetH <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidSheet, "sheet dimensions must be positive, got %gx%g", sheetW, sheetH)
	}

	doc := fpdf.New("P", "pt", "", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	return &Canvas{
		doc:      doc,
		importer: gofpdi.NewImporter(),
		src:      bytes.NewReader(src),
		sheetW:   sheetW,
		sheetH:   sheetH,
	}, nil
}

// AddSheet starts a new output page. All subsequent placements and overlay
// drawing target this page until the next call.
func (c *Canvas) AddSheet() {
	c.doc.AddPageFormat("P", fpdf.SizeType{Wd: c.sheetW, Ht: c.sheetH})
	c.sheets++
}

// SheetCount returns the number of output pages added so far.
func (c *Canvas) SheetCount() int { return c.sheets }

// PlacePage draws the 1-based source page onto the current sheet, scaled to
// w×h with its bottom-left corner at (x, y) in bottom-up coordinates.
func (c *Canvas) PlacePage(page int, x, y, w, h float64) error {
	if c.sheets == 0 {
		return errors.New(errors.ErrCodeRender, "no sheet added")
	}

	tpl := c.importer.ImportPageFromStream(c.doc, &c.src, page, "/MediaBox")
	c.importer.UseImportedTemplate(c.doc, tpl, x, c.sheetH-y-h, w, h)

	if c.doc.Err() {
		return errors.Wrap(errors.ErrCodeUnreadablePage, c.doc.Error(), "place page %d", page)
	}
	return nil
}

// DrawGuides strokes the dashed cut lines on the current sheet. The dash
// pattern is reset afterwards so later strokes stay solid.
func (c *Canvas) DrawGuides(lines []layout.GuideLine) {
	c.doc.SetDrawColor(guideGray, guideGray, guideGray)
	c.doc.SetLineWidth(guideLineWidth)
	c.doc.SetDashPattern(guideDash, 0)
	for _, l := range lines {
		c.doc.Line(l.X1, c.sheetH-l.Y1, l.X2, c.sheetH-l.Y2)
	}
	c.doc.SetDashPattern([]float64{}, 0)
}

// StampPageNumber draws the source page number with its text origin at
// (x, y) in bottom-up coordinates, over a filled white box so the number
// stays readable on top of page content.
func (c *Canvas) StampPageNumber(page int, x, y float64) {
	text := strconv.Itoa(page)

	c.doc.SetFont(stampFont, stampStyle, stampSize)
	textW := c.doc.GetStringWidth(text)

	// Box bottom sits stampPad below the text origin.
	c.doc.SetFillColor(255, 255, 255)
	c.doc.Rect(x-stampPad, c.sheetH-y-stampBoxHeight+stampPad, textW+2*stampPad, stampBoxHeight, "F")

	c.doc.SetTextColor(0, 0, 0)
	c.doc.Text(x, c.sheetH-y, text)
}

// Bytes closes the document and returns the serialized PDF.
func (c *Canvas) Bytes() ([]byte, error) {
	if c.doc.Err() {
		return nil, errors.Wrap(errors.ErrCodeRender, c.doc.Error(), "compose output")
	}
	var buf bytes.Buffer
	if err := c.doc.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "serialize output")
	}
	return buf.Bytes(), nil
}

// SheetSize returns the output sheet dimensions.
func (c *Canvas) SheetSize() Size {
	return Size{Width: c.sheetW, Height: c.sheetH}
}
