/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// SweepResult is the outcome of one full sweep.
// Err is nil on success and holds the first error encountered otherwise.
type SweepResult struct {
	Err          error
	ItemsDeleted int64 // Deletes that returned successfully
	Pages        int   // Non-empty pages processed
	Scans        int   // Scan calls issued, including the final empty one
}

// OK reports whether the sweep drained the table without error.
func (r SweepResult) OK() bool {
	return r.Err == nil
}

// SweepProgress is reported after every non-empty page.
type SweepProgress struct {
	PagesProcessed int
	ItemsDeleted   int64
	LastPageSize   int
}

// SweepOptions configures a sweep
type SweepOptions struct {
	PageSize        int32               // Limit per scan page (default: 0, store decides)
	Concurrency     int                 // Deletes in flight within one page (default: 1)
	ProgressHandler func(SweepProgress) // Optional progress callback
}

// SweepOption is a functional option for configuring a sweep
type SweepOption func(*SweepOptions)

// DefaultSweepOptions returns the sequential, one-delete-at-a-time configuration
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{
		Concurrency: 1,
	}
}

// WithSweepPageSize sets the scan page limit
func WithSweepPageSize(size int32) SweepOption {
	return func(opts *SweepOptions) {
		opts.PageSize = size
	}
}

// WithConcurrency bounds the number of deletes in flight within one page.
// Values below 1 are treated as 1.
func WithConcurrency(n int) SweepOption {
	return func(opts *SweepOptions) {
		if n < 1 {
			n = 1
		}
		opts.Concurrency = n
	}
}

// WithSweepProgressHandler sets a progress callback
func WithSweepProgressHandler(handler func(SweepProgress)) SweepOption {
	return func(opts *SweepOptions) {
		opts.ProgressHandler = handler
	}
}
