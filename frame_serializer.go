package datatable

import "io"

// A FrameSerializer compresses and decompresses Frame data, so a Frame
// can be kept as a compact byte stream instead of a second uncompressed
// copy in memory. No component of this package calls it itself.
type FrameSerializer interface {
	Compress(w io.Writer, f Frame) error           // Compress serializes and compresses a Frame to a write stream
	Decompress(r io.Reader) (Frame, error)         // Decompress decompresses and deserializes a Frame from a read stream
}
