package serialization

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/born-ml/edges/internal/params"
	"github.com/pkg/errors"
)

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// WriteSafeTensors exports the matrices of store in SafeTensors format:
//
//	[8 bytes: header_size (uint64 LE)]
//	[header_size bytes: JSON header]
//	[tensor data: raw bytes]
//
// Parameters are stored as F64 tensors of shape [rows, cols] under their
// name; a lookup table as one [size, rows, cols] tensor. Tensors are written
// in alphabetical order by name, so store names must be unique.
func WriteSafeTensors(w io.Writer, store *params.Store, metadata map[string]string) error {
	type entry struct {
		shape  []int64
		values []float64
	}
	entries := make(map[string]entry)
	add := func(name string, e entry) error {
		if _, dup := entries[name]; dup {
			return errors.Errorf("safetensors: duplicate tensor name %q", name)
		}
		entries[name] = e
		return nil
	}
	for _, id := range store.ParameterIDs() {
		p := store.Parameters(id)
		if err := add(p.Name(), entry{shape: []int64{int64(p.Dim().Rows), int64(p.Dim().Cols)}, values: p.Value().Data()}); err != nil {
			return err
		}
	}
	for _, id := range store.LookupIDs() {
		l := store.Lookup(id)
		var values []float64
		for row := range l.Size() {
			values = append(values, l.Row(row).Data()...)
		}
		shape := []int64{int64(l.Size()), int64(l.Dim().Rows), int64(l.Dim().Cols)}
		if err := add(l.Name(), entry{shape: shape, values: values}); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header["__metadata__"] = metadata
	}
	var offset int64
	for _, name := range names {
		size := int64(len(entries[name].values) * bytesPerValue)
		header[name] = SafeTensorHeader{
			DType:       "F64",
			Shape:       entries[name].shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, name := range names {
		if _, err := w.Write(appendFloats(nil, entries[name].values)); err != nil {
			return errors.Wrapf(err, "failed to write tensor %s", name)
		}
	}
	return nil
}

// ExportSafeTensors writes the matrices of store to a SafeTensors file at path.
func ExportSafeTensors(path string, store *params.Store, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model export
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "failed to close file")
		}
	}()
	return WriteSafeTensors(file, store, metadata)
}
