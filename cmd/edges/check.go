package main

import (
	"math/rand/v2"

	"github.com/born-ml/edges/edges"
	"github.com/born-ml/edges/internal/gradcheck"
	"github.com/born-ml/edges/params"
	"github.com/born-ml/edges/tensor"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

type checkCase struct {
	edge *edges.Edge
	xs   []*tensor.Matrix
}

// checkCases builds every compute edge with random inputs.
func checkCases(rng *rand.Rand) []checkCase {
	r := func(rows, cols int, scale float64) *tensor.Matrix {
		return params.Uniform(rng, rows, cols, scale)
	}
	return []checkCase{
		{edges.MatrixMultiply(0, 1), []*tensor.Matrix{r(3, 4, 2), r(4, 2, 2)}},
		{edges.Sum(0, 1, 2), []*tensor.Matrix{r(2, 3, 1), r(2, 3, 1), r(2, 3, 1)}},
		{edges.SquaredEuclideanDistance(0, 1), []*tensor.Matrix{r(4, 1, 3), r(4, 1, 3)}},
		{edges.LogisticSigmoid(0), []*tensor.Matrix{r(3, 3, 4)}},
		{edges.Tanh(0), []*tensor.Matrix{r(3, 2, 2)}},
		{edges.LogSoftmax(0), []*tensor.Matrix{r(6, 1, 3)}},
		{edges.PickElement(0, 1), []*tensor.Matrix{r(5, 1, 2), tensor.Scalar(float64(rng.IntN(5)))}},
		{edges.Square(0), []*tensor.Matrix{r(2, 4, 3)}},
	}
}

func runCheck() error {
	rng := rand.New(rand.NewPCG(*flagSeed, *flagSeed+1))
	cases := checkCases(rng)
	var failed []error
	for _, c := range cases {
		fx := c.edge.Forward(nil, c.xs)
		probe := params.Uniform(rng, fx.Rows(), fx.Cols(), 1)
		report := gradcheck.Check(c.edge, nil, c.xs, gradcheck.Options{Probe: probe})
		klog.Info(report.String())
		if err := report.Err(); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		for _, err := range failed {
			klog.Error(err)
		}
		return errors.Wrapf(gradcheck.ErrGradientMismatch, "%d of %d edges", len(failed), len(cases))
	}
	klog.Info("all edge gradients match")
	return nil
}
