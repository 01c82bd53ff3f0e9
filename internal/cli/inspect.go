package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/layout"
	"github.com/Sreyas-J-S/CutStack/pkg/pdf"
)

// previewDensities are the candidate grids shown by inspect.
var previewDensities = []int{2, 4, 8}

// gridPreview describes what one density would produce for a document.
type gridPreview struct {
	Density int    `json:"nup"`
	Grid    string `json:"grid"`
	Sheets  int    `json:"sheets"`
}

// inspectReport is the machine-readable inspect output.
type inspectReport struct {
	Document string        `json:"document"`
	Pages    int           `json:"pages"`
	Sizes    []pdf.Size    `json:"sizes"`
	Sheet    string        `json:"sheet"`
	Options  []gridPreview `json:"options"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		password string
		sheet    string
		noCache  bool
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [input.pdf]",
		Short: "Show page count, page sizes, and candidate grids",
		Long: `Show page count, page sizes, and the grid each common density would use.

The grid previews assume the default A4 sheet unless --sheet is given, and
report how many duplex sheets each density needs for the document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], password, sheet, noCache, jsonOut)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password for encrypted documents")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet size: a4 (default), letter, or WxH in points")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print a machine-readable report")

	return cmd
}

// runInspect reads the document and reports its imposition options.
func (c *CLI) runInspect(ctx context.Context, input, password, sheet string, noCache, jsonOut bool) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
	}

	sheetSize := pdf.Size{Width: pdf.A4Width, Height: pdf.A4Height}
	if sheet != "" {
		sheetSize, err = pdf.ParseSheetSize(sheet)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	info, cached, err := runner.Inspect(ctx, src, password)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Read %d pages", info.Pages))

	report := buildInspectReport(input, info, sheetSize)

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printKeyValue("Document", report.Document)
	printKeyValue("Pages", fmt.Sprintf("%d", report.Pages))
	printKeyValue("Page size", describeSizes(report.Sizes))
	printKeyValue("Sheet", report.Sheet+" pt")
	if cached {
		printDetail("info from cache")
	}
	printNewline()

	fmt.Println(StyleTitle.Render("Imposition options"))
	for _, p := range report.Options {
		label := fmt.Sprintf("%d-up", p.Density)
		value := StyleHighlight.Render(p.Grid) + " grid, " + StyleNumber.Render(sheetsLabel(p.Sheets))
		printKeyValue(label, value)
	}
	printNewline()
	printNextStep("Impose", fmt.Sprintf("%s impose -n %d %s", appName, suggestedDensity(report.Options), input))

	return nil
}

// buildInspectReport computes the grid previews for a document.
func buildInspectReport(input string, info pdf.Info, sheet pdf.Size) inspectReport {
	return inspectReport{
		Document: filepath.Base(input),
		Pages:    info.Pages,
		Sizes:    info.Sizes,
		Sheet:    sheet.String(),
		Options:  gridPreviews(info.Pages, sheet),
	}
}

// gridPreviews plans the grid for each preview density and counts the
// duplex sheets the document would need.
func gridPreviews(pages int, sheet pdf.Size) []gridPreview {
	previews := make([]gridPreview, 0, len(previewDensities))
	for _, n := range previewDensities {
		grid, err := layout.PlanGrid(n, sheet.Aspect())
		if err != nil {
			continue
		}
		sheets := (pages + 2*n - 1) / (2 * n)
		previews = append(previews, gridPreview{Density: n, Grid: grid.String(), Sheets: sheets})
	}
	return previews
}

// describeSizes summarizes per-page dimensions for display.
func describeSizes(sizes []pdf.Size) string {
	if len(sizes) == 0 {
		return "none"
	}
	first := sizes[0]
	for _, s := range sizes[1:] {
		if s != first {
			return fmt.Sprintf("varies, first %s pt", first.String())
		}
	}
	return first.String() + " pt"
}

// sheetsLabel formats a sheet count with the right noun.
func sheetsLabel(n int) string {
	if n == 1 {
		return "1 sheet"
	}
	return fmt.Sprintf("%d sheets", n)
}

// suggestedDensity picks the density used in the next-step hint. The first
// preview is used so the hint always matches a displayed option.
func suggestedDensity(options []gridPreview) int {
	if len(options) > 0 {
		return options[0].Density
	}
	return previewDensities[0]
}
