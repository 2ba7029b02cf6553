package params

import (
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
)

// ErrUnknownHandle is raised when a handle does not name an entry of the store.
var ErrUnknownHandle = errors.New("params: unknown handle")

func handleError(kind string, id int) error {
	return errors.Wrapf(ErrUnknownHandle, "%s #%d", kind, id)
}

func indexError(name string, row, size int) error {
	return errors.Wrapf(tensor.ErrIndexOutOfRange, "lookup %q: row %d of %d", name, row, size)
}
