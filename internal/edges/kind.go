package edges

// Kind enumerates the operations an Edge can perform.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -transform=snake -values -text kind.go

const (
	// KindInvalid is the zero value; an Edge of this kind is a construction bug.
	KindInvalid Kind = iota

	// Leaf edges: no tail, value sourced from the parameter store.
	KindParameter
	KindInput
	KindLookup

	// Compute edges.
	KindMatrixMultiply
	KindSum
	KindSquaredEuclideanDistance
	KindLogisticSigmoid
	KindTanh
	KindLogSoftmax
	KindPickElement
	KindSquare
)

// IsLeaf reports whether edges of this kind source their value from the
// parameter store instead of a tail.
func (k Kind) IsLeaf() bool {
	return k == KindParameter || k == KindInput || k == KindLookup
}
