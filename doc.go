// Package datatable contains the core components of a columnar frame
// library: an N-dimensional approximate clustering aggregator that
// reduces a Frame to a small set of exemplars and a membership mapping,
// and a parallel chunked text reader that reconstitutes an ordered row
// stream from concurrently parsed byte chunks. This root package defines
// the types shared by both, and is the entry point for extending either.
package datatable
