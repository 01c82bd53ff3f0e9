// Package pkg provides the core libraries for Cutstack PDF imposition.
//
// # Overview
//
// Cutstack tiles the pages of a PDF onto larger duplex sheets so that
// printing double-sided, cutting along the guide lines, and stacking the
// cut piles restores the original page order. The pkg directory is
// organized into five main areas:
//
//  1. [layout] - Pure imposition geometry (grid planning, page mapping)
//  2. [pdf] - Document reading and sheet composition
//  3. [impose] - Orchestration (read → plan → compose) with caching
//  4. [cache] - Content-addressed caches (file, Redis, null)
//  5. [errors] - Coded errors shared by the CLI and the HTTP service
//
// # Architecture
//
// The typical data flow through Cutstack:
//
//	Source PDF bytes
//	         ↓
//	    [pdf] package (page count + per-page dimensions)
//	         ↓
//	    [layout] package (grid planning + duplex cell mapping)
//	         ↓
//	    [pdf] package (canvas: place pages, guides, stamps)
//	         ↓
//	    Imposed PDF bytes
//
// # Quick Start
//
// Impose a document 4-up onto A4 sheets:
//
//	import (
//	    "context"
//	    "github.com/Sreyas-J-S/CutStack/pkg/impose"
//	)
//
//	runner := impose.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Run(context.Background(), src, impose.Options{Density: 4})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("imposed.pdf", result.Output, 0o644)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [layout] - The imposition geometry. [layout.PlanGrid] selects the grid for
// a density and sheet aspect; [layout.Composer] maps pages to sheet sides and
// cells under sequential duplex pairing with back-side mirroring, and yields
// placement transforms, cut-guide lines, and stamp positions. Pure and
// synchronous; safe for parallel jobs with per-job state.
//
// [pdf] - Document collaborators. [pdf.ReadDocument] validates a source and
// extracts page count and intrinsic page sizes via pdfcpu; [pdf.Canvas]
// composes output sheets via fpdf and gofpdi, owning the conversion between
// the layout core's bottom-up coordinates and the writer's top-down ones.
//
// ## Orchestration
//
// [impose] - The job pipeline used by both the CLI and the HTTP service.
// [impose.Runner] validates options, reads the document, plans the grid,
// composes sheets, and caches document info and finished artifacts by
// content hash.
//
// ## Infrastructure
//
// [cache] - Cache backends behind a single interface: FileCache for the CLI
// (filesystem), RedisCache for the service, NullCache to disable caching.
// Keys are content-addressed; entries never go stale.
//
// [errors] - Coded error type mapped to exit codes and HTTP statuses, plus
// input validation helpers.
//
// [observability] - Hook interfaces for job, cache, and server events with
// no-op defaults.
//
// [buildinfo] - Build-time version metadata injected via ldflags.
package pkg
