package datatable

import "github.com/imera88/datatable/internal/aggregate"

// NewAggregator builds an Aggregator over float64 exemplar arithmetic,
// per spec.md §4.1's ColumnConvertor<T> contract and §4.2's grouping
// strategies. cfg is validated lazily, at the start of every Aggregate
// call.
func NewAggregator(cfg AggregatorConfig) Aggregator {
	return aggregate.New[float64](cfg)
}
