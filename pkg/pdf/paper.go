package pdf

import (
	"strconv"
	"strings"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

// Standard sheet dimensions in PDF points (1/72 inch).
const (
	A4Width  = 595.28
	A4Height = 841.89

	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// Size is a page or sheet dimension pair in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Aspect returns the height/width ratio used by the grid planner.
func (s Size) Aspect() float64 { return s.Height / s.Width }

// String renders the size as "WxH" in points.
func (s Size) String() string {
	return strconv.FormatFloat(s.Width, 'g', -1, 64) + "x" + strconv.FormatFloat(s.Height, 'g', -1, 64)
}

// ParseSheetSize resolves a sheet specification to concrete dimensions.
// Accepted forms: a named size ("A4", "letter", case-insensitive) or an
// explicit "WIDTHxHEIGHT" pair in points, e.g. "595.28x841.89".
func ParseSheetSize(spec string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "a4":
		return Size{Width: A4Width, Height: A4Height}, nil
	case "letter":
		return Size{Width: LetterWidth, Height: LetterHeight}, nil
	}

	w, h, ok := strings.Cut(spec, "x")
	if !ok {
		return Size{}, errors.New(errors.ErrCodeInvalidSheet, "unknown sheet size %q (want A4, letter, or WxH in points)", spec)
	}

	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return Size{}, errors.New(errors.ErrCodeInvalidSheet, "invalid sheet width %q", w)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return Size{}, errors.New(errors.ErrCodeInvalidSheet, "invalid sheet height %q", h)
	}
	if width <= 0 || height <= 0 {
		return Size{}, errors.New(errors.ErrCodeInvalidSheet, "sheet dimensions must be positive, got %gx%g", width, height)
	}

	return Size{Width: width, Height: height}, nil
}
