package impose

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Sreyas-J-S/CutStack/pkg/cache"
	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/layout"
	"github.com/Sreyas-J-S/CutStack/pkg/observability"
	"github.com/Sreyas-J-S/CutStack/pkg/pdf"
)

// Runner encapsulates job execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store job results. Multiple goroutines can safely use the same Runner
// with different sources and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run executes the complete read → plan → compose job with caching.
func (r *Runner) Run(ctx context.Context, src []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return nil, errors.New(errors.ErrCodeDocumentMalformed, "document is empty")
	}

	result := &Result{DocHash: cache.Hash(src)}

	// Stage 1: Plan. The grid depends only on the options, so a bad density
	// fails before the document is even parsed.
	grid, err := layout.PlanGrid(opts.Density, opts.SheetHeight/opts.SheetWidth)
	observability.Job().OnPlanComplete(ctx, opts.Density, grid.Rows, grid.Cols, err)
	if err != nil {
		return nil, err
	}
	result.Grid = grid

	// Stage 2: Read
	readStart := time.Now()
	info, doc, infoHit, err := r.documentInfo(ctx, src, result.DocHash, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ReadTime = time.Since(readStart)
	result.SourcePages = info.Pages

	opts.Logger.Info("read document",
		"pages", info.Pages,
		"cached", infoHit,
		"duration", result.Stats.ReadTime)

	comp, err := layout.NewComposer(info.Pages, opts.Density, grid, opts.SheetWidth, opts.SheetHeight)
	if err != nil {
		return nil, err
	}
	result.Sheets = comp.SheetCount()
	result.OutputPages = comp.OutputPageCount()

	// An empty document imposes to zero sheets. There is no zero-page PDF
	// to emit, so the output stays nil and callers decide what that means.
	if info.Pages == 0 {
		opts.Logger.Warn("document has no pages, nothing to impose")
		return result, nil
	}

	artifactKey := r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts())
	if opts.Cacheable() && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, artifactKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.Output = data
			result.CacheHit = true
			result.Stats.OutputBytes = len(data)

			opts.Logger.Info("served imposed document from cache",
				"grid", grid,
				"sheets", result.Sheets,
				"bytes", len(data))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Stage 3: Compose. A freshly parsed document supplies the importable
	// bytes (decrypted for password jobs); on an info cache hit the source
	// bytes are known plaintext already.
	composeSrc := src
	if doc != nil {
		composeSrc = doc.Bytes()
	}

	composeStart := time.Now()
	observability.Job().OnComposeStart(ctx, comp.SheetCount())
	out, err := r.compose(ctx, composeSrc, comp, info, opts)
	result.Stats.ComposeTime = time.Since(composeStart)
	observability.Job().OnComposeComplete(ctx, comp.SheetCount(), len(out), result.Stats.ComposeTime, err)
	if err != nil {
		return nil, err
	}
	result.Output = out
	result.Stats.OutputBytes = len(out)

	if opts.Cacheable() {
		_ = r.Cache.Set(ctx, artifactKey, out, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(out))
	}

	opts.Logger.Info("imposed document",
		"pages", info.Pages,
		"grid", grid,
		"sheets", result.Sheets,
		"bytes", len(out),
		"duration", result.Stats.ComposeTime)

	return result, nil
}

// Inspect returns document metadata without composing anything, using the
// info cache when possible. The boolean reports a cache hit.
func (r *Runner) Inspect(ctx context.Context, src []byte, password string) (pdf.Info, bool, error) {
	if len(src) == 0 {
		return pdf.Info{}, false, errors.New(errors.ErrCodeDocumentMalformed, "document is empty")
	}
	opts := Options{Password: password, Logger: r.Logger}
	info, _, hit, err := r.documentInfo(ctx, src, cache.Hash(src), opts)
	return info, hit, err
}

// documentInfo resolves document metadata from the info cache or by parsing
// the source. Parsed metadata is written back to the cache for cacheable
// jobs. The returned document is nil when metadata came from the cache.
func (r *Runner) documentInfo(ctx context.Context, src []byte, docHash string, opts Options) (pdf.Info, *pdf.Document, bool, error) {
	infoKey := r.Keyer.InfoKey(docHash)

	if opts.Cacheable() && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, infoKey); err == nil && hit {
			var info pdf.Info
			if json.Unmarshal(data, &info) == nil && info.Pages == len(info.Sizes) {
				observability.Cache().OnCacheHit(ctx, "info")
				return info, nil, true, nil
			}
			// Undecodable entries fall through to a fresh parse.
		}
		observability.Cache().OnCacheMiss(ctx, "info")
	}

	start := time.Now()
	observability.Job().OnReadStart(ctx)
	doc, err := pdf.ReadDocument(src, opts.Password)
	if err != nil {
		observability.Job().OnReadComplete(ctx, 0, time.Since(start), err)
		return pdf.Info{}, nil, false, err
	}
	info := doc.Info()
	observability.Job().OnReadComplete(ctx, info.Pages, time.Since(start), nil)

	if opts.Cacheable() {
		if data, err := json.Marshal(info); err == nil {
			_ = r.Cache.Set(ctx, infoKey, data, cache.TTLInfo)
			observability.Cache().OnCacheSet(ctx, "info", len(data))
		}
	}

	return info, doc, false, nil
}

// compose renders every sheet side onto a fresh canvas and serializes the
// output document.
func (r *Runner) compose(ctx context.Context, src []byte, comp *layout.Composer, info pdf.Info, opts Options) (out []byte, err error) {
	// The template importer panics on source structures it cannot parse;
	// surface that as a job error instead of taking down the process.
	defer func() {
		if p := recover(); p != nil {
			err = errors.New(errors.ErrCodeRender, "compose imposed document: %v", p)
		}
	}()

	canvas, err := pdf.NewCanvas(src, opts.SheetWidth, opts.SheetHeight)
	if err != nil {
		return nil, err
	}

	guides := comp.CutLines()
	for _, side := range comp.Sides() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "compose canceled")
		}

		canvas.AddSheet()
		for _, cell := range comp.Cells(side) {
			if cell.Empty() {
				continue
			}
			size := info.Sizes[cell.Page-1]
			pl := comp.Place(cell, size.Width, size.Height)
			if err := canvas.PlacePage(cell.Page, pl.OffsetX, pl.OffsetY, size.Width*pl.Scale, size.Height*pl.Scale); err != nil {
				return nil, err
			}
		}

		// Overlay goes on top of the placed content.
		canvas.DrawGuides(guides)
		for _, stamp := range comp.Stamps(side) {
			canvas.StampPageNumber(stamp.Page, stamp.TextX, stamp.TextY)
		}
	}

	return canvas.Bytes()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
