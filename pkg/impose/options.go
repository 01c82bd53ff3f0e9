package impose

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Sreyas-J-S/CutStack/pkg/cache"
	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/layout"
	"github.com/Sreyas-J-S/CutStack/pkg/pdf"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultDensity is the pages-per-side used when none is requested.
	DefaultDensity = 2

	// DefaultSheetWidth is the default output sheet width in points (A4).
	DefaultSheetWidth = pdf.A4Width

	// DefaultSheetHeight is the default output sheet height in points (A4).
	DefaultSheetHeight = pdf.A4Height
)

// =============================================================================
// Options - Job Configuration
// =============================================================================

// Options contains all configuration for one imposition job.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Density is the number of source pages per sheet side (the N in N-up).
	Density int `json:"density,omitempty"`

	// SheetWidth and SheetHeight are the output sheet dimensions in points.
	// Both default to A4 portrait when left zero.
	SheetWidth  float64 `json:"sheet_width,omitempty"`
	SheetHeight float64 `json:"sheet_height,omitempty"`

	// Refresh skips cache reads and recomputes the output.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)

	// Password decrypts protected source documents. Jobs with a password
	// bypass the cache so derived content never lands in shared storage.
	Password string `json:"-"`

	// Logger receives job progress. Defaults to a silent logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of an imposition job.
type Result struct {
	// Output is the imposed PDF. Nil when the source has no pages.
	Output []byte

	// Grid is the planned cell grid per sheet side.
	Grid layout.LayoutGrid

	// SourcePages is the page count of the source document.
	SourcePages int

	// Sheets is the number of physical sheets, ceil(pages / 2*density).
	Sheets int

	// OutputPages is the number of output document pages, two per sheet.
	OutputPages int

	// DocHash is the content hash of the source document.
	DocHash string

	// CacheHit reports whether the output came from the artifact cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains job execution statistics.
type Stats struct {
	ReadTime    time.Duration
	ComposeTime time.Duration
	OutputBytes int
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Density == 0 {
		o.Density = DefaultDensity
	}
	if o.Density < 1 {
		return errors.New(errors.ErrCodeInvalidDensity, "n-up density must be >= 1, got %d", o.Density)
	}

	if o.SheetWidth == 0 && o.SheetHeight == 0 {
		o.SheetWidth = DefaultSheetWidth
		o.SheetHeight = DefaultSheetHeight
	}
	if o.SheetWidth <= 0 || o.SheetHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidSheet, "sheet dimensions must be positive, got %gx%g", o.SheetWidth, o.SheetHeight)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// SheetSize returns the output sheet dimensions.
func (o *Options) SheetSize() pdf.Size {
	return pdf.Size{Width: o.SheetWidth, Height: o.SheetHeight}
}

// Cacheable reports whether this job may touch the shared cache.
func (o *Options) Cacheable() bool {
	return o.Password == ""
}

// ArtifactKeyOpts returns the cache key options that fingerprint the output.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Density:     o.Density,
		SheetWidth:  o.SheetWidth,
		SheetHeight: o.SheetHeight,
	}
}
