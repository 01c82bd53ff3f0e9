package cli

import (
	"testing"

	"github.com/Sreyas-J-S/CutStack/pkg/pdf"
)

func TestGridPreviews(t *testing.T) {
	a4 := pdf.Size{Width: pdf.A4Width, Height: pdf.A4Height}

	got := gridPreviews(10, a4)

	want := []gridPreview{
		{Density: 2, Grid: "1x2", Sheets: 3},
		{Density: 4, Grid: "2x2", Sheets: 2},
		{Density: 8, Grid: "2x4", Sheets: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d previews, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p != want[i] {
			t.Errorf("preview[%d] = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestGridPreviewsEmptyDocument(t *testing.T) {
	a4 := pdf.Size{Width: pdf.A4Width, Height: pdf.A4Height}

	for _, p := range gridPreviews(0, a4) {
		if p.Sheets != 0 {
			t.Errorf("%d-up sheets = %d, want 0 for empty document", p.Density, p.Sheets)
		}
	}
}

func TestBuildInspectReport(t *testing.T) {
	info := pdf.Info{
		Pages: 3,
		Sizes: []pdf.Size{{Width: 300, Height: 200}, {Width: 300, Height: 200}, {Width: 300, Height: 200}},
	}
	sheet := pdf.Size{Width: pdf.A4Width, Height: pdf.A4Height}

	report := buildInspectReport("/tmp/docs/manual.pdf", info, sheet)

	if report.Document != "manual.pdf" {
		t.Errorf("Document = %q, want manual.pdf", report.Document)
	}
	if report.Pages != 3 {
		t.Errorf("Pages = %d, want 3", report.Pages)
	}
	if len(report.Options) != len(previewDensities) {
		t.Errorf("got %d options, want %d", len(report.Options), len(previewDensities))
	}
}

func TestDescribeSizes(t *testing.T) {
	tests := []struct {
		name  string
		sizes []pdf.Size
		want  string
	}{
		{
			name:  "no pages",
			sizes: nil,
			want:  "none",
		},
		{
			name:  "uniform",
			sizes: []pdf.Size{{Width: 300, Height: 200}, {Width: 300, Height: 200}},
			want:  "300x200 pt",
		},
		{
			name:  "mixed",
			sizes: []pdf.Size{{Width: 300, Height: 200}, {Width: 400, Height: 200}},
			want:  "varies, first 300x200 pt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeSizes(tt.sizes); got != tt.want {
				t.Errorf("describeSizes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSheetsLabel(t *testing.T) {
	if got := sheetsLabel(1); got != "1 sheet" {
		t.Errorf("sheetsLabel(1) = %q, want '1 sheet'", got)
	}
	if got := sheetsLabel(3); got != "3 sheets" {
		t.Errorf("sheetsLabel(3) = %q, want '3 sheets'", got)
	}
}

func TestSuggestedDensity(t *testing.T) {
	if got := suggestedDensity(nil); got != 2 {
		t.Errorf("suggestedDensity(nil) = %d, want 2", got)
	}

	options := []gridPreview{{Density: 4}, {Density: 8}}
	if got := suggestedDensity(options); got != 4 {
		t.Errorf("suggestedDensity() = %d, want 4", got)
	}
}
