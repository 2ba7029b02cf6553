// Package gradcheck compares the analytic gradients of an edge with central
// finite differences.
//
// For an edge f and a fixed probe matrix R with the dim of f's output, the
// scalar probe loss is
//
//	L(xs) = Σ f(xs) ⊙ R
//
// so dL/df = R, and the analytic gradient of input i is Backward(xs, fx, R, i).
// Each element of each differentiable input is then perturbed by ±ε and
//
//	(L(x+ε) - L(x-ε)) / 2ε
//
// is compared with the analytic value.
package gradcheck

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/edges/internal/edges"
	"github.com/born-ml/edges/internal/tensor"
	"github.com/pkg/errors"
)

// ErrGradientMismatch is returned by Report.Err when an analytic gradient
// differs from its numerical estimate by more than the tolerance.
var ErrGradientMismatch = errors.New("gradcheck: analytic and numerical gradients differ")

// Options configures Check. Zero fields take defaults.
type Options struct {
	Epsilon   float64        // Finite-difference step (default: 1e-6).
	Tolerance float64        // Allowed absolute-or-relative error (default: 1e-4).
	Probe     *tensor.Matrix // dL/df, with the dim of the edge output (default: ones).
}

func (o Options) withDefaults() Options {
	if o.Epsilon == 0 {
		o.Epsilon = 1e-6
	}
	if o.Tolerance == 0 {
		o.Tolerance = 1e-4
	}
	return o
}

// InputReport is the comparison for one input.
type InputReport struct {
	Index      int
	Analytic   *tensor.Matrix
	Numerical  *tensor.Matrix
	MaxAbsDiff float64
	MaxRelDiff float64
	OK         bool
}

// Report is the result of Check.
type Report struct {
	Kind      edges.Kind
	Tolerance float64
	Inputs    []InputReport
}

// OK reports whether every checked input matched.
func (r Report) OK() bool {
	for _, in := range r.Inputs {
		if !in.OK {
			return false
		}
	}
	return true
}

// Err returns nil if the report is OK, or an error wrapping ErrGradientMismatch
// naming the offending inputs.
func (r Report) Err() error {
	var bad []string
	for _, in := range r.Inputs {
		if !in.OK {
			bad = append(bad, fmt.Sprintf("input %d (abs %.3g, rel %.3g)", in.Index, in.MaxAbsDiff, in.MaxRelDiff))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return errors.Wrapf(ErrGradientMismatch, "%s: %s", r.Kind, strings.Join(bad, ", "))
}

// String summarizes the report.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:", r.Kind)
	for _, in := range r.Inputs {
		status := "ok"
		if !in.OK {
			status = "MISMATCH"
		}
		fmt.Fprintf(&sb, " x%d %s (max abs %.2e, rel %.2e)", in.Index, status, in.MaxAbsDiff, in.MaxRelDiff)
	}
	return sb.String()
}

// Check compares Backward of e with finite differences of Forward at xs,
// for every input e is differentiable with respect to. src is forwarded to
// e.Forward and may be nil for compute edges. xs are not modified.
func Check(e *edges.Edge, src edges.Source, xs []*tensor.Matrix, opts Options) Report {
	opts = opts.withDefaults()
	fx := e.Forward(src, xs)
	probe := opts.Probe
	if probe == nil {
		probe = tensor.Ones(fx.Rows(), fx.Cols())
	}
	tensor.MustMatch("gradcheck probe", fx.Dim(), probe.Dim())

	loss := func(inputs []*tensor.Matrix) float64 {
		return e.Forward(src, inputs).CwiseProduct(probe).Sum()
	}

	report := Report{Kind: e.Kind(), Tolerance: opts.Tolerance}
	for i := range xs {
		if !e.Differentiable(i) {
			continue
		}
		analytic := e.Backward(xs, fx, probe, i)
		numerical := numericalGradient(loss, xs, i, opts.Epsilon)
		report.Inputs = append(report.Inputs, compare(i, analytic, numerical, opts.Tolerance))
	}
	return report
}

// numericalGradient estimates dL/dxs[i] by central differences on a private
// copy of xs[i].
func numericalGradient(loss func([]*tensor.Matrix) float64, xs []*tensor.Matrix, i int, eps float64) *tensor.Matrix {
	inputs := append([]*tensor.Matrix(nil), xs...)
	x := xs[i].Clone()
	inputs[i] = x
	grad := tensor.New(x.Dim())
	for r := 0; r < x.Rows(); r++ {
		for c := 0; c < x.Cols(); c++ {
			orig := x.At(r, c)
			x.Set(r, c, orig+eps)
			plus := loss(inputs)
			x.Set(r, c, orig-eps)
			minus := loss(inputs)
			x.Set(r, c, orig)
			grad.Set(r, c, (plus-minus)/(2*eps))
		}
	}
	return grad
}

func compare(i int, analytic, numerical *tensor.Matrix, tol float64) InputReport {
	in := InputReport{Index: i, Analytic: analytic, Numerical: numerical, OK: true}
	if !analytic.Dim().Equal(numerical.Dim()) {
		in.OK = false
		in.MaxAbsDiff = math.Inf(1)
		in.MaxRelDiff = math.Inf(1)
		return in
	}
	a, n := analytic.Data(), numerical.Data()
	for k := range a {
		abs := math.Abs(a[k] - n[k])
		rel := abs / math.Max(math.Max(math.Abs(a[k]), math.Abs(n[k])), 1e-12)
		in.MaxAbsDiff = math.Max(in.MaxAbsDiff, abs)
		in.MaxRelDiff = math.Max(in.MaxRelDiff, rel)
		if math.IsNaN(abs) || (abs > tol && rel > tol) {
			in.OK = false
		}
	}
	return in
}
