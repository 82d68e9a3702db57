package datatable

// AggregatorConfig configures an Aggregator, per spec.md §4.2 and §6.
type AggregatorConfig struct {
	MinRows       int        // MinRows is the row count below which no aggregation occurs (0-D strategy only)
	NBins         int        // NBins is the 1-D continuous bin count
	NXBins        int        // NXBins is the 2-D continuous x-bin count
	NYBins        int        // NYBins is the 2-D continuous y-bin count
	NDMaxBins     int        // NDMaxBins is the ND target cap and the 0-D cap
	MaxDimensions int        // MaxDimensions is the projection threshold
	Seed          uint32     // Seed seeds every PRNG used by this run; 0 draws from OS entropy
	NThreads      int        // NThreads is the worker count; 0 uses the ThreadPool default
	ProgressFn    ProgressFn // ProgressFn, if non-nil, receives progress reports
}

// Validate checks AggregatorConfig for the invalid-argument conditions
// that must fail synchronously, before any work is scheduled (spec.md §7).
func (c AggregatorConfig) Validate() error {
	switch {
	case c.NBins <= 0:
		return invalidArgument("n_bins must be positive")
	case c.NXBins <= 0 || c.NYBins <= 0:
		return invalidArgument("nx_bins and ny_bins must be positive")
	case c.NDMaxBins <= 0:
		return invalidArgument("nd_max_bins must be positive")
	case c.MaxDimensions <= 0:
		return invalidArgument("max_dimensions must be positive")
	}
	return nil
}

// Aggregator consumes an input Frame and produces (exemplars, members)
// Frames per spec.md §2 and §4.2. Per spec.md §9, this is the single
// capability trait replacing the source's AggregatorBase hierarchy.
type Aggregator interface {
	// Aggregate runs the full pipeline described in spec.md §4.2.
	// warnings accumulates non-fatal diagnostics (e.g. the dropped
	// categorical columns warned about in spec.md §9's Open Questions);
	// err is non-nil only for invalid-argument/resource/interrupt
	// failures that abort the run.
	Aggregate(input Frame) (exemplars Frame, members Frame, warnings error, err error)
}
