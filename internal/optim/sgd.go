package optim

import (
	"github.com/born-ml/edges/internal/params"
	"github.com/born-ml/edges/internal/tensor"
	"k8s.io/klog/v2"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	lr         float64
	momentum   float64
	velocities map[slot]*tensor.Matrix
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[slot]*tensor.Matrix),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(store *params.Store) {
	n := 0
	forEachSlot(store, func(key slot, value, grad *tensor.Matrix) {
		n++
		if s.momentum == 0 {
			value.AddInPlace(grad.Scale(-s.lr))
			return
		}
		velocity, ok := s.velocities[key]
		if !ok {
			velocity = tensor.New(grad.Dim())
			s.velocities[key] = velocity
		}
		velocity.CopyFrom(velocity.Scale(s.momentum).Add(grad))
		value.AddInPlace(velocity.Scale(-s.lr))
	})
	klog.V(1).Infof("optim: sgd step over %d slots (lr=%g)", n, s.lr)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
