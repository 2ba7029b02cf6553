package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize  = 64 * 1024 * 1024 // 64MB
	MaxDataSize    = 1 << 34          // 16GB
	MaxMatrixCount = 1_000_000
	MaxNameLen     = 4096
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks names and shapes but not data offsets.
	ValidationNormal
	// ValidationNone skips validation. Use only with trusted input.
	ValidationNone
)

// ValidateMatrixOffsets checks that every matrix lies inside the data section,
// has the size its shape implies and does not overlap another matrix.
func ValidateMatrixOffsets(matrices []MatrixMeta, dataSize int64) error {
	sorted := make([]MatrixMeta, len(matrices))
	copy(sorted, matrices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, m := range sorted {
		if m.Offset < 0 || m.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Matrix:  m.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", m.Offset, m.Size),
			}
		}
		if want := int64(m.Shape[0]) * int64(m.Shape[1]) * bytesPerValue; m.Size != want {
			return &ValidationError{
				Type:    "size_mismatch",
				Matrix:  m.Name,
				Details: fmt.Sprintf("shape %v needs %d bytes, got %d", m.Shape, want, m.Size),
			}
		}
		if m.Offset+m.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Matrix:  m.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", m.Offset, m.Size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if m.Offset+m.Size > next.Offset {
				return &ValidationError{
					Type:    "offset_overlap",
					Matrix:  m.Name,
					Matrix2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						m.Offset, m.Offset+m.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}
	return nil
}

// ValidateName rejects empty, oversized and path-like matrix names.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Type: "invalid_name", Details: "empty name"}
	case len(name) > MaxNameLen:
		return &ValidationError{
			Type:    "name_too_long",
			Matrix:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxNameLen),
		}
	case strings.Contains(name, ".."):
		return &ValidationError{Type: "invalid_name", Matrix: name, Details: "contains '..'"}
	case strings.ContainsAny(name, "/\\"):
		return &ValidationError{Type: "invalid_name", Matrix: name, Details: "contains path separator"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Type: "invalid_name", Matrix: name, Details: "contains null byte"}
	}
	return nil
}

// ValidateHeader validates h against a data section of dataSize bytes.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if len(h.Matrices) > MaxMatrixCount {
		return &ValidationError{
			Type:    "too_many_matrices",
			Details: fmt.Sprintf("got %d, max %d", len(h.Matrices), MaxMatrixCount),
		}
	}
	for _, m := range h.Matrices {
		if err := ValidateName(m.Name); err != nil {
			return err
		}
		if m.Group != GroupParameters && m.Group != GroupLookup {
			return &ValidationError{Type: "invalid_group", Matrix: m.Name, Details: fmt.Sprintf("group %q", m.Group)}
		}
		if m.Shape[0] <= 0 || m.Shape[1] <= 0 || m.Index < 0 || m.Row < 0 {
			return &ValidationError{
				Type:    "invalid_shape",
				Matrix:  m.Name,
				Details: fmt.Sprintf("shape %v, index %d, row %d", m.Shape, m.Index, m.Row),
			}
		}
	}
	if level == ValidationStrict {
		return ValidateMatrixOffsets(h.Matrices, dataSize)
	}
	return nil
}
