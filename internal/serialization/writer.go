package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Write serializes every parameters entry and every lookup entry of store
// to w. metadata is stored verbatim and may be nil.
func Write(w io.Writer, store *params.Store, metadata map[string]string) error {
	header, data, err := collect(store)
	if err != nil {
		return err
	}
	header.Metadata = metadata

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed, MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	var flags uint32
	if len(metadata) > 0 {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	checksum := ComputeChecksum(data)
	copy(fixed[ChecksumOffset:], checksum[:])

	padding := alignedPadding(int64(FixedHeaderSize + len(headerJSON)))
	for _, part := range []struct {
		what string
		b    []byte
	}{
		{"fixed header", fixed},
		{"header", headerJSON},
		{"padding", make([]byte, padding)},
		{"matrix data", data},
	} {
		if _, err := w.Write(part.b); err != nil {
			return errors.Wrapf(err, "failed to write %s", part.what)
		}
	}
	return nil
}

// collect lays out the matrices of store in handle order.
func collect(store *params.Store) (Header, []byte, error) {
	header := Header{FormatVersion: FormatVersion, CreatedAt: time.Now().UTC()}
	var data []byte
	add := func(meta MatrixMeta, m *tensor.Matrix) error {
		if err := ValidateName(meta.Name); err != nil {
			return err
		}
		meta.Shape = [2]int{m.Rows(), m.Cols()}
		meta.Offset = int64(len(data))
		data = appendFloats(data, m.Data())
		meta.Size = int64(len(data)) - meta.Offset
		header.Matrices = append(header.Matrices, meta)
		return nil
	}

	for _, id := range store.ParameterIDs() {
		p := store.Parameters(id)
		if err := add(MatrixMeta{Name: p.Name(), Group: GroupParameters, Index: int(id)}, p.Value()); err != nil {
			return Header{}, nil, err
		}
	}
	for _, id := range store.LookupIDs() {
		l := store.Lookup(id)
		for row := range l.Size() {
			meta := MatrixMeta{Name: lookupEntryName(l.Name(), row), Group: GroupLookup, Index: int(id), Row: row}
			if err := add(meta, l.Row(row)); err != nil {
				return Header{}, nil, err
			}
		}
	}
	return header, data, nil
}

// lookupEntryName names entry row of lookup table name.
func lookupEntryName(name string, row int) string {
	return fmt.Sprintf("%s.%d", name, row)
}

// Save writes a checkpoint of store to path.
func Save(path string, store *params.Store, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoints
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create checkpoint")
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "failed to close checkpoint")
		}
	}()
	if err = Write(file, store, metadata); err != nil {
		return errors.WithMessagef(err, "saving %s", path)
	}
	klog.V(1).Infof("serialization: saved %d parameters to %s", store.NumParameters(), path)
	return nil
}
