package serialization

import (
	"encoding/binary"
	"math"
	"time"
)

// Format constants.
const (
	MagicBytes      = "EDGS"
	FormatVersion   = 1
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes).
	HeaderAlignment = 64   // Matrix data is aligned to 64 bytes.
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header.
	ChecksumSize    = 32   // SHA-256 checksum size.
	bytesPerValue   = 8
)

// Flags of the fixed header.
const (
	FlagHasMetadata uint32 = 1 << 0 // custom metadata included
)

// Matrix groups, naming the store collection a matrix belongs to.
const (
	GroupParameters = "parameters"
	GroupLookup     = "lookup"
)

// Header is the JSON header of a checkpoint.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Matrices      []MatrixMeta      `json:"matrices"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// MatrixMeta describes one stored matrix.
type MatrixMeta struct {
	Name   string `json:"name"`          // Store name; lookup entries are "name.row".
	Group  string `json:"group"`         // GroupParameters or GroupLookup.
	Index  int    `json:"index"`         // Store handle.
	Row    int    `json:"row,omitempty"` // Lookup entry, GroupLookup only.
	Shape  [2]int `json:"shape"`         // Rows, cols.
	Offset int64  `json:"offset"`        // Offset in the data section.
	Size   int64  `json:"size"`          // Size in bytes.
}

// alignedPadding returns the bytes needed after pos to reach HeaderAlignment.
func alignedPadding(pos int64) int64 {
	return (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment
}

func appendFloats(dst []byte, values []float64) []byte {
	for _, v := range values {
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
	}
	return dst
}

func decodeFloats(src []byte) []float64 {
	values := make([]float64, len(src)/bytesPerValue)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*bytesPerValue:]))
	}
	return values
}
