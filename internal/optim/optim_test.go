package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/edges/internal/graph"
	"github.com/born-ml/edges/internal/optim"
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	store := params.NewStore()
	id := store.AddParameters("x", tensor.Scalar(2.0))

	optimizer := optim.NewSGD(optim.SGDConfig{LR: 0.1})

	store.AccumulateGrad(id, tensor.Scalar(1.0))
	optimizer.Step(store)

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if actual := store.ParameterValue(id).At(0, 0); !floatEqual(actual, 1.9, 1e-12) {
		t.Errorf("SGD update: got %f, want %f", actual, 1.9)
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	store := params.NewStore()
	id := store.AddParameters("x", tensor.Scalar(1.0))

	optimizer := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// v_1 = 0.9 * 0 + 1.0 = 1.0
	// x_1 = 1.0 - 0.1 * 1.0 = 0.9
	store.AccumulateGrad(id, tensor.Scalar(1.0))
	optimizer.Step(store)
	store.ZeroGrad()
	if actual := store.ParameterValue(id).At(0, 0); !floatEqual(actual, 0.9, 1e-12) {
		t.Errorf("SGD momentum step 1: got %f, want %f", actual, 0.9)
	}

	// v_2 = 0.9 * 1.0 + 1.0 = 1.9
	// x_2 = 0.9 - 0.1 * 1.9 = 0.71
	store.AccumulateGrad(id, tensor.Scalar(1.0))
	optimizer.Step(store)
	if actual := store.ParameterValue(id).At(0, 0); !floatEqual(actual, 0.71, 1e-12) {
		t.Errorf("SGD momentum step 2: got %f, want %f", actual, 0.71)
	}
}

// TestSGD_LookupUpdatesTouchedRowsOnly tests that untouched embeddings stay put.
func TestSGD_LookupUpdatesTouchedRowsOnly(t *testing.T) {
	store := params.NewStore()
	id := store.AddLookup("E", []*tensor.Matrix{tensor.ColumnVector(1, 1), tensor.ColumnVector(2, 2)})

	store.AccumulateRowGrad(id, 1, tensor.ColumnVector(1, -1))
	optim.NewSGD(optim.SGDConfig{LR: 0.5}).Step(store)

	if got := store.LookupRow(id, 0).Data(); got[0] != 1 || got[1] != 1 {
		t.Errorf("untouched row changed: %v", got)
	}
	if got := store.LookupRow(id, 1).Data(); !floatEqual(got[0], 1.5, 1e-12) || !floatEqual(got[1], 2.5, 1e-12) {
		t.Errorf("touched row: got %v, want [1.5 2.5]", got)
	}
}

// TestSGD_GetSetLR tests learning rate accessors and defaults.
func TestSGD_GetSetLR(t *testing.T) {
	optimizer := optim.NewSGD(optim.SGDConfig{})
	if lr := optimizer.GetLR(); lr != 0.01 {
		t.Errorf("default LR: got %f, want 0.01", lr)
	}
	optimizer.SetLR(0.5)
	if lr := optimizer.GetLR(); lr != 0.5 {
		t.Errorf("SetLR: got %f, want 0.5", lr)
	}
}

// TestAdam_SimpleUpdate tests the first Adam step, which moves each weight by ~lr.
func TestAdam_SimpleUpdate(t *testing.T) {
	store := params.NewStore()
	id := store.AddParameters("x", tensor.ColumnVector(1.0, -1.0))

	optimizer := optim.NewAdam(optim.AdamConfig{LR: 0.1})
	store.AccumulateGrad(id, tensor.ColumnVector(0.5, -2.0))
	optimizer.Step(store)

	// With bias correction m_hat = g and v_hat = g², so the step is lr * sign(g).
	got := store.ParameterValue(id).Data()
	if !floatEqual(got[0], 0.9, 1e-6) || !floatEqual(got[1], -0.9, 1e-6) {
		t.Errorf("Adam step: got %v, want [0.9 -0.9]", got)
	}
	if optimizer.GetTimestep() != 1 {
		t.Errorf("timestep: got %d, want 1", optimizer.GetTimestep())
	}
}

// TestConvergence_SimpleQuadratic minimizes ||w - target||² through the graph.
func TestConvergence_SimpleQuadratic(t *testing.T) {
	tests := []struct {
		name      string
		optimizer optim.Optimizer
		maxLoss   float64
	}{
		{"sgd", optim.NewSGD(optim.SGDConfig{LR: 0.1}), 1e-6},
		{"momentum", optim.NewSGD(optim.SGDConfig{LR: 0.05, Momentum: 0.9}), 1e-6},
		{"adam", optim.NewAdam(optim.AdamConfig{LR: 0.05}), 1e-2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := params.NewStore()
			w := store.AddParameters("w", tensor.ColumnVector(0, 0, 0))
			target := store.AddConst("target", tensor.ColumnVector(3, -1, 0.5))

			g := graph.New(store)
			g.SquaredDistance(g.AddParameters(w), g.AddInput(target))

			var loss float64
			for step := 0; step < 500; step++ {
				loss = g.Forward().At(0, 0)
				g.Backward()
				tt.optimizer.Step(store)
				store.ZeroGrad()
			}
			if loss > tt.maxLoss {
				t.Errorf("%s did not converge: final loss %g, w = %v", tt.name, loss, store.ParameterValue(w).Data())
			}
		})
	}
}
