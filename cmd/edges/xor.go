package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/edges/graph"
	"github.com/born-ml/edges/optim"
	"github.com/born-ml/edges/params"
	"github.com/born-ml/edges/tensor"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// xorExamples are the four XOR rows and their targets.
var xorExamples = []struct {
	in     [2]float64
	target float64
}{
	{[2]float64{0, 0}, 0},
	{[2]float64{0, 1}, 1},
	{[2]float64{1, 0}, 1},
	{[2]float64{1, 1}, 0},
}

// xorNet is σ(W2 · tanh(W1 · x + b1) + b2) with a squared distance loss
// against y. x and y are constants overwritten per example.
type xorNet struct {
	store *params.Store
	g     *graph.Graph
	x, y  params.ConstID
	out   graph.NodeID
}

func newXORNet(rng *rand.Rand, hidden int) *xorNet {
	store := params.NewStore()
	w1 := store.AddParameters("W1", params.Xavier(rng, hidden, 2))
	b1 := store.AddParameters("b1", tensor.Zeros(hidden, 1))
	w2 := store.AddParameters("W2", params.Xavier(rng, 1, hidden))
	b2 := store.AddParameters("b2", tensor.Zeros(1, 1))

	net := &xorNet{
		store: store,
		g:     graph.New(store),
		x:     store.AddConst("x", tensor.Zeros(2, 1)),
		y:     store.AddConst("y", tensor.Zeros(1, 1)),
	}
	g := net.g
	h := g.Tanh(g.Sum(g.MatrixMultiply(g.AddParameters(w1), g.AddInput(net.x)), g.AddParameters(b1)))
	net.out = g.Sigmoid(g.Sum(g.MatrixMultiply(g.AddParameters(w2), h), g.AddParameters(b2)))
	g.SquaredDistance(net.out, g.AddInput(net.y))
	return net
}

// load sets the graph inputs to example i.
func (n *xorNet) load(i int) {
	ex := xorExamples[i]
	n.store.SetConst(n.x, tensor.ColumnVector(ex.in[0], ex.in[1]))
	n.store.SetConst(n.y, tensor.Scalar(ex.target))
}

// epoch runs one SGD pass over the four examples and returns the mean loss.
func (n *xorNet) epoch(opt optim.Optimizer) float64 {
	total := 0.0
	for i := range xorExamples {
		n.load(i)
		total += n.g.Forward().At(0, 0)
		n.g.Backward()
		opt.Step(n.store)
		n.store.ZeroGrad()
	}
	return total / float64(len(xorExamples))
}

// predict returns the network output for example i.
func (n *xorNet) predict(i int) float64 {
	n.load(i)
	n.g.Forward()
	return n.g.Value(n.out).At(0, 0)
}

func runTrain() error {
	if err := checkFlags(); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(*flagSeed, *flagSeed+1))
	net := newXORNet(rng, *flagHidden)
	if err := restore(net.store); err != nil {
		return err
	}
	klog.Infof("XOR network: %d nodes, %s parameters", net.g.Len(), humanize.Comma(int64(net.store.NumParameters())))

	opt := optim.NewSGD(optim.SGDConfig{LR: *flagLR, Momentum: *flagMomentum})
	bar := progressbar.NewOptions(*flagEpochs,
		progressbar.OptionSetDescription("Training: "),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("epochs"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
	)
	var loss float64
	for range *flagEpochs {
		loss = net.epoch(opt)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Println()

	klog.Infof("final mean loss: %.6f", loss)
	for i, ex := range xorExamples {
		klog.Infof("  %v -> %.4f (target %g)", ex.in, net.predict(i), ex.target)
	}
	return persist(net.store, "train", loss)
}

func runGraph() error {
	if err := checkFlags(); err != nil {
		return err
	}
	net := newXORNet(rand.New(rand.NewPCG(*flagSeed, *flagSeed+1)), *flagHidden)
	fmt.Print(net.g)
	return nil
}
