package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/impose"
	"github.com/Sreyas-J-S/CutStack/pkg/pdf"
)

// imposeOpts holds the command-line flags for the impose command.
type imposeOpts struct {
	output   string // output file path
	nup      int    // input pages per sheet side
	sheet    string // sheet size name or WxH in points
	password string // password for encrypted sources
	refresh  bool   // recompute even when a cached result exists
	noCache  bool   // disable caching entirely
	jsonOut  bool   // machine-readable summary instead of styled output
}

// imposeCommand creates the impose command.
func (c *CLI) imposeCommand() *cobra.Command {
	opts := imposeOpts{nup: impose.DefaultDensity}

	cmd := &cobra.Command{
		Use:   "impose [input.pdf]",
		Short: "Tile a document onto duplex sheets for cut-and-stack printing",
		Long: `Tile a document onto duplex sheets for cut-and-stack printing.

Each output sheet side carries several input pages in a grid, together with
dashed cut guides and small page-number stamps. Print the result double-sided
(flip on long edge), cut along the guides, and stack the cut piles front to
back: the stack reads in the original page order.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImpose(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: imposed_<n>up_<input>)")
	cmd.Flags().IntVarP(&opts.nup, "nup", "n", opts.nup, "input pages per sheet side")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet size: a4 (default), letter, or WxH in points")
	cmd.Flags().StringVar(&opts.password, "password", "", "password for encrypted documents")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print a machine-readable summary")

	return cmd
}

// runImpose reads the input, runs the imposition, and writes the output file.
func (c *CLI) runImpose(ctx context.Context, input string, opts imposeOpts) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input)
	}

	runOpts := impose.Options{
		Density:  opts.nup,
		Password: opts.password,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	}
	if opts.sheet != "" {
		size, err := pdf.ParseSheetSize(opts.sheet)
		if err != nil {
			return err
		}
		runOpts.SheetWidth = size.Width
		runOpts.SheetHeight = size.Height
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Imposing %d-up...", opts.nup))
	spinner.Start()

	result, err := runner.Run(ctx, src, runOpts)
	if err != nil {
		spinner.StopWithError("Imposition failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if result.SourcePages == 0 {
		if opts.jsonOut {
			return printImposeJSON(os.Stdout, "", result)
		}
		printWarning("%s has no pages; nothing to impose", filepath.Base(input))
		return nil
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutputPath(input, opts.nup)
	}
	if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOutput, err, "write output %s", outputPath)
	}

	if opts.jsonOut {
		return printImposeJSON(os.Stdout, outputPath, result)
	}

	printSuccess("Imposition complete")
	printFile(outputPath)
	printStats(result.SourcePages, result.Sheets, result.Grid.String(), result.CacheHit)
	printNewline()
	printNextStep("Print duplex, then cut and stack", "lp -o sides=two-sided-long-edge "+outputPath)

	return nil
}

// defaultOutputPath derives the output file name from the input path,
// keeping the output next to the input.
func defaultOutputPath(input string, nup int) string {
	name := fmt.Sprintf("imposed_%dup_%s", nup, filepath.Base(input))
	return filepath.Join(filepath.Dir(input), name)
}

// printImposeJSON writes a machine-readable run summary.
func printImposeJSON(w io.Writer, outputPath string, result *impose.Result) error {
	summary := struct {
		Output      string `json:"output"`
		SourcePages int    `json:"source_pages"`
		Sheets      int    `json:"sheets"`
		OutputPages int    `json:"output_pages"`
		Grid        string `json:"grid"`
		Cached      bool   `json:"cached"`
		Bytes       int    `json:"bytes"`
	}{
		Output:      outputPath,
		SourcePages: result.SourcePages,
		Sheets:      result.Sheets,
		OutputPages: result.OutputPages,
		Grid:        result.Grid.String(),
		Cached:      result.CacheHit,
		Bytes:       len(result.Output),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
