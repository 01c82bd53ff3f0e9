package pdf

import (
	"math"
	"testing"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

func TestParseSheetSize(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want Size
	}{
		{"a4 lower", "a4", Size{Width: A4Width, Height: A4Height}},
		{"a4 upper", "A4", Size{Width: A4Width, Height: A4Height}},
		{"letter", "letter", Size{Width: LetterWidth, Height: LetterHeight}},
		{"letter padded", "  Letter ", Size{Width: LetterWidth, Height: LetterHeight}},
		{"explicit points", "200x300", Size{Width: 200, Height: 300}},
		{"explicit fractional", "595.28x841.89", Size{Width: 595.28, Height: 841.89}},
		{"explicit spaced", "200 x 300", Size{Width: 200, Height: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSheetSize(tt.spec)
			if err != nil {
				t.Fatalf("ParseSheetSize(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseSheetSize(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseSheetSizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"unknown name", "tabloid"},
		{"empty", ""},
		{"missing height", "200x"},
		{"missing width", "x300"},
		{"not numeric", "axb"},
		{"zero width", "0x300"},
		{"negative height", "200x-300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSheetSize(tt.spec); !errors.Is(err, errors.ErrCodeInvalidSheet) {
				t.Errorf("ParseSheetSize(%q) error = %v, want code %s", tt.spec, err, errors.ErrCodeInvalidSheet)
			}
		})
	}
}

func TestSizeAspect(t *testing.T) {
	a4 := Size{Width: A4Width, Height: A4Height}
	if got := a4.Aspect(); math.Abs(got-1.4142) > 0.001 {
		t.Errorf("A4 Aspect() = %g, want ~1.4142", got)
	}
	square := Size{Width: 100, Height: 100}
	if got := square.Aspect(); got != 1 {
		t.Errorf("square Aspect() = %g, want 1", got)
	}
}

func TestSizeString(t *testing.T) {
	tests := []struct {
		size Size
		want string
	}{
		{Size{Width: 200, Height: 300}, "200x300"},
		{Size{Width: 595.28, Height: 841.89}, "595.28x841.89"},
	}
	for _, tt := range tests {
		if got := tt.size.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
