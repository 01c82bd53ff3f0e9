// Package impose provides the core N-up duplex imposition job for CutStack.
//
// This package implements the complete read → plan → compose job that can be
// used by CLI and server components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The job consists of three stages:
//
//  1. Read: Parse and validate the source PDF, collecting per-page sizes
//  2. Plan: Choose the cols×rows cell grid for the requested density
//  3. Compose: Place pages on duplex sheet sides, draw cut guides and stamps
//
// The sheets produced by a job stack up: cut every printed sheet along the
// guides, stack the piles left-to-right and top-to-bottom, and the source
// page order is restored. Back sides mirror their columns so that duplex
// printing lines each page up with its overleaf partner.
//
// # Caching
//
// Two stages cache by the source document's content hash: document metadata
// (page count and sizes) and the finished artifact. Jobs that carry a
// password bypass the cache entirely so content derived from protected
// documents never lands in shared storage.
//
// # Usage
//
// Create a Runner and execute a job:
//
//	runner := impose.NewRunner(cache, nil, logger)
//	opts := impose.Options{Density: 4}
//	result, err := runner.Run(ctx, srcBytes, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.pdf", result.Output, 0o644)
//
// Inspect a document without composing:
//
//	info, cached, err := runner.Inspect(ctx, srcBytes, "")
package impose
