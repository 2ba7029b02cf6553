package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Checkpoint is a decoded checkpoint held in memory.
type Checkpoint struct {
	header Header
	flags  uint32
	data   []byte
}

// Read decodes a checkpoint from r.
func Read(r io.Reader, opts ReaderOptions) (*Checkpoint, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, errors.Wrap(err, "failed to read fixed header")
	}
	if string(fixed[:4]) != MagicBytes {
		return nil, errors.Wrapf(ErrInvalidMagic, "got %q, expected %q", fixed[:4], MagicBytes)
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "got %d, expected %d", version, FormatVersion)
	}
	c := &Checkpoint{flags: binary.LittleEndian.Uint32(fixed[8:12])}
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [ChecksumSize]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	if dataSize > MaxDataSize {
		return nil, &ValidationError{Type: "data_too_large", Details: "data section exceeds maximum size"}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	if err := json.Unmarshal(headerBytes, &c.header); err != nil {
		return nil, errors.Wrap(err, "failed to parse header JSON")
	}

	padding := alignedPadding(int64(FixedHeaderSize) + int64(headerSize))
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, errors.Wrap(err, "failed to read padding")
	}

	c.data = make([]byte, dataSize)
	if _, err := io.ReadFull(r, c.data); err != nil {
		return nil, errors.Wrap(err, "failed to read matrix data")
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(c.data), stored); err != nil {
			return nil, err
		}
	}
	if err := ValidateHeader(&c.header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, errors.WithMessage(err, "validation failed")
	}
	return c, nil
}

// Open reads the checkpoint at path.
func Open(path string, opts ReaderOptions) (*Checkpoint, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for checkpoints
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open checkpoint")
	}
	defer func() { _ = file.Close() }()
	c, err := Read(file, opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "reading %s", path)
	}
	return c, nil
}

// Header returns the decoded header.
func (c *Checkpoint) Header() Header {
	return c.header
}

// Metadata returns the metadata map of the header.
func (c *Checkpoint) Metadata() map[string]string {
	return c.header.Metadata
}

// Names returns the names of the stored matrices in file order.
func (c *Checkpoint) Names() []string {
	names := make([]string, len(c.header.Matrices))
	for i, m := range c.header.Matrices {
		names[i] = m.Name
	}
	return names
}

// Matrix decodes the first matrix called name.
func (c *Checkpoint) Matrix(name string) (*tensor.Matrix, error) {
	for _, m := range c.header.Matrices {
		if m.Name == name {
			if err := c.checkEntries([]MatrixMeta{m}); err != nil {
				return nil, err
			}
			return c.decode(m), nil
		}
	}
	return nil, errors.Wrapf(ErrMatrixNotFound, "%q", name)
}

// checkEntries rejects entries whose shape, handle or data region cannot be
// decoded. Read only checks these at ValidationStrict.
func (c *Checkpoint) checkEntries(matrices []MatrixMeta) error {
	for _, m := range matrices {
		if m.Shape[0] <= 0 || m.Shape[1] <= 0 || m.Index < 0 || m.Row < 0 {
			return &ValidationError{
				Type:    "invalid_shape",
				Matrix:  m.Name,
				Details: fmt.Sprintf("shape %v, index %d, row %d", m.Shape, m.Index, m.Row),
			}
		}
	}
	return ValidateMatrixOffsets(matrices, int64(len(c.data)))
}

func (c *Checkpoint) decode(m MatrixMeta) *tensor.Matrix {
	return tensor.FromSlice(m.Shape[0], m.Shape[1], decodeFloats(c.data[m.Offset:m.Offset+m.Size]))
}

// Restore copies the stored matrices into store. The checkpoint must hold
// exactly the parameters and lookup entries of store, with the same names,
// handles and dims; otherwise nothing is modified and an error wrapping
// ErrStoreMismatch is returned. Gradients are left untouched.
func (c *Checkpoint) Restore(store *params.Store) error {
	targets := make([]*tensor.Matrix, len(c.header.Matrices))
	numParams := len(store.ParameterIDs())
	numLookups := len(store.LookupIDs())
	expected := numParams
	for _, id := range store.LookupIDs() {
		expected += store.Lookup(id).Size()
	}
	if len(c.header.Matrices) != expected {
		return errors.Wrapf(ErrStoreMismatch, "checkpoint has %d matrices, store has %d", len(c.header.Matrices), expected)
	}
	if err := c.checkEntries(c.header.Matrices); err != nil {
		return err
	}

	seen := make(map[[3]int]bool, len(c.header.Matrices))
	for i, m := range c.header.Matrices {
		var name string
		var target *tensor.Matrix
		switch m.Group {
		case GroupParameters:
			if m.Index >= numParams {
				return errors.Wrapf(ErrStoreMismatch, "%q: no parameters #%d", m.Name, m.Index)
			}
			p := store.Parameters(params.ParamID(m.Index))
			name, target = p.Name(), p.Value()
			seen[[3]int{0, m.Index, 0}] = true
		case GroupLookup:
			if m.Index >= numLookups || m.Row >= store.Lookup(params.LookupID(m.Index)).Size() {
				return errors.Wrapf(ErrStoreMismatch, "%q: no lookup #%d entry %d", m.Name, m.Index, m.Row)
			}
			l := store.Lookup(params.LookupID(m.Index))
			name, target = lookupEntryName(l.Name(), m.Row), l.Row(m.Row)
			seen[[3]int{1, m.Index, m.Row}] = true
		default:
			return errors.Wrapf(ErrStoreMismatch, "%q: unknown group %q", m.Name, m.Group)
		}
		if name != m.Name {
			return errors.Wrapf(ErrStoreMismatch, "%s #%d is %q in the store, %q in the checkpoint", m.Group, m.Index, name, m.Name)
		}
		if got := tensor.NewDim(m.Shape[0], m.Shape[1]); !got.Equal(target.Dim()) {
			return errors.Wrapf(ErrStoreMismatch, "%q: store %s, checkpoint %s", m.Name, target.Dim(), got)
		}
		targets[i] = target
	}
	if len(seen) != expected {
		return errors.Wrapf(ErrStoreMismatch, "checkpoint repeats entries: %d distinct of %d", len(seen), expected)
	}

	for i, m := range c.header.Matrices {
		targets[i].CopyFrom(c.decode(m))
	}
	klog.V(1).Infof("serialization: restored %d matrices", len(targets))
	return nil
}

// Load restores store from the checkpoint at path with strict validation.
func Load(path string, store *params.Store) error {
	c, err := Open(path, ReaderOptions{ValidationLevel: ValidationStrict})
	if err != nil {
		return err
	}
	return errors.WithMessagef(c.Restore(store), "restoring %s", path)
}
