package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/born-ml/edges/graph"
	"github.com/born-ml/edges/optim"
	"github.com/born-ml/edges/params"
	"github.com/born-ml/edges/tensor"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Synthetic task: token t belongs to class t % numClasses.
const (
	vocabSize  = 12
	numClasses = 3
	embedDim   = 4
)

// classifier holds one graph per token sharing a store: the lookup row is
// fixed when the graph is built. Each graph computes
//
//	loss = (log_softmax(W · E[token])[class])²
//
// which is zero when the model assigns probability 1 to the class.
type classifier struct {
	store  *params.Store
	graphs []*graph.Graph
	logp   []graph.NodeID
}

func newClassifier(rng *rand.Rand) *classifier {
	store := params.NewStore()
	rows := make([]*tensor.Matrix, vocabSize)
	for i := range rows {
		rows[i] = params.Uniform(rng, embedDim, 1, 0.5)
	}
	emb := store.AddLookup("E", rows)
	w := store.AddParameters("W", params.Xavier(rng, numClasses, embedDim))

	c := &classifier{store: store}
	for token := range vocabSize {
		label := store.AddConst(fmt.Sprintf("label.%d", token), tensor.Scalar(float64(token%numClasses)))
		g := graph.New(store)
		logp := g.LogSoftmax(g.MatrixMultiply(g.AddParameters(w), g.AddLookup(emb, token)))
		g.Square(g.PickElement(logp, g.AddInput(label)))
		c.graphs = append(c.graphs, g)
		c.logp = append(c.logp, logp)
	}
	return c
}

// epoch visits every token in a random order and returns the mean loss.
func (c *classifier) epoch(rng *rand.Rand, opt optim.Optimizer) float64 {
	total := 0.0
	for _, token := range rng.Perm(vocabSize) {
		g := c.graphs[token]
		total += g.Forward().At(0, 0)
		g.Backward()
		opt.Step(c.store)
		c.store.ZeroGrad()
	}
	return total / vocabSize
}

// predict returns the most probable class of token.
func (c *classifier) predict(token int) (class int, prob float64) {
	g := c.graphs[token]
	g.Forward()
	logp := g.Value(c.logp[token]).Data()
	best := 0
	for i, v := range logp {
		if v > logp[best] {
			best = i
		}
	}
	return best, math.Exp(logp[best])
}

func runClassify() error {
	if err := checkFlags(); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(*flagSeed, *flagSeed+1))
	c := newClassifier(rng)
	if err := restore(c.store); err != nil {
		return err
	}
	klog.Infof("classifier: %d tokens, %d classes, %s parameters",
		vocabSize, numClasses, humanize.Comma(int64(c.store.NumParameters())))

	opt := optim.NewAdam(optim.AdamConfig{LR: *flagLR / 10})
	bar := progressbar.NewOptions(*flagEpochs,
		progressbar.OptionSetDescription("Training: "),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("epochs"),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
	)
	var loss float64
	for range *flagEpochs {
		loss = c.epoch(rng, opt)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	correct := 0
	for token := range vocabSize {
		class, prob := c.predict(token)
		if class == token%numClasses {
			correct++
		}
		klog.V(1).Infof("  token %2d -> class %d (p=%.3f, want %d)", token, class, prob, token%numClasses)
	}
	klog.Infof("final mean loss: %.6f, accuracy %d/%d", loss, correct, vocabSize)
	return persist(c.store, "classify", loss)
}
