package optim

import (
	"math"

	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"k8s.io/klog/v2"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Lookup rows keep their own moments and are only updated on steps in which
// they received a gradient.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int
	m     map[slot]*tensor.Matrix
	v     map[slot]*tensor.Matrix
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
func NewAdam(config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas == [2]float64{} {
		config.Betas = [2]float64{0.9, 0.999}
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     make(map[slot]*tensor.Matrix),
		v:     make(map[slot]*tensor.Matrix),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step(store *params.Store) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	forEachSlot(store, func(key slot, value, grad *tensor.Matrix) {
		m, ok := a.m[key]
		if !ok {
			m = tensor.New(grad.Dim())
			a.m[key] = m
			a.v[key] = tensor.New(grad.Dim())
		}
		v := a.v[key]

		m.CopyFrom(m.ZipApply(grad, func(mi, g float64) float64 {
			return a.beta1*mi + (1-a.beta1)*g
		}))
		v.CopyFrom(v.ZipApply(grad, func(vi, g float64) float64 {
			return a.beta2*vi + (1-a.beta2)*g*g
		}))
		update := m.ZipApply(v, func(mi, vi float64) float64 {
			return -a.lr * (mi / c1) / (math.Sqrt(vi/c2) + a.eps)
		})
		value.AddInPlace(update)
	})
	klog.V(1).Infof("optim: adam step %d (lr=%g)", a.t, a.lr)
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken.
func (a *Adam) GetTimestep() int {
	return a.t
}
