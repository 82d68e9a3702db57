// Package aggregate implements the Aggregator's grouping strategies,
// sub-sampling fallback, and exemplar construction: spec.md §4.2 end
// to end.
package aggregate

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/imera88/datatable"
	"github.com/imera88/datatable/internal/convertor"
	"github.com/imera88/datatable/logging"
)

// Aggregator implements datatable.Aggregator for one floating-point
// working type T. The exported root package always instantiates this
// with T=float64; T stays a type parameter here because it is the
// "compile-time choice exposed at the boundary" spec.md §9 calls for.
type Aggregator[T datatable.ColumnFloat] struct {
	cfg datatable.AggregatorConfig
}

// New builds an Aggregator over working type T.
func New[T datatable.ColumnFloat](cfg datatable.AggregatorConfig) *Aggregator[T] {
	return &Aggregator[T]{cfg: cfg}
}

// Aggregate runs spec.md §4.2's full pipeline.
func (a *Aggregator[T]) Aggregate(input datatable.Frame) (exemplars datatable.Frame, membersOut datatable.Frame, warnings error, err error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	seed := a.cfg.Seed
	if seed == 0 {
		var b [4]byte
		if _, err := crand.Read(b[:]); err != nil {
			return nil, nil, nil, err
		}
		seed = binary.LittleEndian.Uint32(b[:])
	}

	runID, _ := uuid.NewV4()
	logging.Debugf("aggregate[%s]: starting over %d rows, %d cols", runID, input.NRows(), input.NCols())

	nrows := input.NRows()
	if a.cfg.ProgressFn != nil {
		a.cfg.ProgressFn(0, datatable.ProgressRunning)
	}

	if nrows == 0 {
		exemplars, membersOut, err = buildExemplars(input, []int32{})
		if err != nil {
			return nil, nil, nil, err
		}
		if a.cfg.ProgressFn != nil {
			a.cfg.ProgressFn(1, datatable.ProgressDone)
		}
		return exemplars, membersOut, nil, nil
	}

	if nrows < a.cfg.MinRows {
		members, err := group0D(input)
		if err != nil {
			return nil, nil, nil, err
		}
		exemplars, membersOut, err = buildExemplars(input, members)
		if err != nil {
			return nil, nil, nil, err
		}
		if a.cfg.ProgressFn != nil {
			a.cfg.ProgressFn(1, datatable.ProgressDone)
		}
		return exemplars, membersOut, nil, nil
	}

	var continuousIdx, categoricalIdx []int
	for i := 0; i < input.NCols(); i++ {
		if input.ColumnAt(i).Type().IsNumeric() {
			continuousIdx = append(continuousIdx, i)
		} else {
			categoricalIdx = append(categoricalIdx, i)
		}
	}

	var merr *multierror.Error
	if input.NCols() >= 3 && len(categoricalIdx) > 0 {
		logging.Warnf("aggregate[%s]: dropping %d non-numeric column(s): total column count %d >= 3 excludes categorical columns from aggregation",
			runID, len(categoricalIdx), input.NCols())
		merr = multierror.Append(merr, fmt.Errorf(
			"dropped %d non-numeric column(s): total column count %d >= 3 excludes categorical columns from aggregation",
			len(categoricalIdx), input.NCols()))
		categoricalIdx = nil
	}
	ncols := len(continuousIdx) + len(categoricalIdx)

	var members []int32
	var maxBins, naBins int

	switch {
	case ncols == 0:
		maxBins, naBins = a.cfg.NDMaxBins, 0
		members, err = group0D(input)

	case ncols == 1:
		maxBins, naBins = a.cfg.NBins, 1
		if len(continuousIdx) == 1 {
			var conv datatable.ColumnConvertor[T]
			conv, err = convertor.New[T](input.ColumnAt(continuousIdx[0]))
			if err == nil {
				members = group1DContinuous(conv, a.cfg.NBins)
			}
		} else {
			members, err = group1DCategorical(input, categoricalIdx[0])
		}

	case ncols == 2:
		maxBins, naBins = a.cfg.NXBins*a.cfg.NYBins, 3
		switch {
		case len(continuousIdx) == 2:
			var cx, cy datatable.ColumnConvertor[T]
			cx, err = convertor.New[T](input.ColumnAt(continuousIdx[0]))
			if err == nil {
				cy, err = convertor.New[T](input.ColumnAt(continuousIdx[1]))
			}
			if err == nil {
				members = group2DContinuous(cx, cy, a.cfg.NXBins, a.cfg.NYBins)
			}
		case len(categoricalIdx) == 2:
			members, err = group2DCategorical(input, categoricalIdx[0], categoricalIdx[1])
		default:
			var cx datatable.ColumnConvertor[T]
			cx, err = convertor.New[T](input.ColumnAt(continuousIdx[0]))
			if err == nil {
				members, err = group2DMixed(input, categoricalIdx[0], cx, a.cfg.NXBins)
			}
		}

	default:
		maxBins, naBins = a.cfg.NDMaxBins, 0
		convs := make([]datatable.ColumnConvertor[T], len(continuousIdx))
		for i, ci := range continuousIdx {
			convs[i], err = convertor.New[T](input.ColumnAt(ci))
			if err != nil {
				break
			}
		}
		if err == nil {
			members, _, err = groupND[T](context.Background(), convs, a.cfg.NDMaxBins, a.cfg.MaxDimensions, seed, a.cfg.NThreads, a.cfg.ProgressFn)
		}
	}
	if err != nil {
		if a.cfg.ProgressFn != nil {
			a.cfg.ProgressFn(0, datatable.ProgressError)
		}
		return nil, nil, nil, err
	}

	if _, err = subsampleIfNeeded(members, maxBins, naBins, seed); err != nil {
		return nil, nil, nil, err
	}

	exemplars, membersOut, err = buildExemplars(input, members)
	if err != nil {
		return nil, nil, nil, err
	}
	if a.cfg.ProgressFn != nil {
		a.cfg.ProgressFn(1, datatable.ProgressDone)
	}
	logging.Debugf("aggregate[%s]: done, %d exemplars", runID, exemplars.NRows())
	return exemplars, membersOut, merr.ErrorOrNil(), nil
}
