package datatable

import "github.com/imera88/datatable/internal/read"

// NewParallelReader builds a ParallelReader over parser, per spec.md
// §4.3. parser must be constructed over the same byte slice passed as
// cfg.Input.
func NewParallelReader(cfg ParallelReaderConfig, parser ChunkParser) ParallelReader {
	return read.New(cfg, parser)
}
