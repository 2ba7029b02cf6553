package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/edges/internal/gradcheck"
	"github.com/born-ml/edges/optim"
	"github.com/born-ml/edges/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXORNet_LossDecreases(t *testing.T) {
	net := newXORNet(rand.New(rand.NewPCG(1, 2)), 4)
	opt := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	first := net.epoch(opt)
	var last float64
	for range 300 {
		last = net.epoch(opt)
	}
	assert.Less(t, last, first)
	for i := range xorExamples {
		p := net.predict(i)
		assert.True(t, p > 0 && p < 1, "sigmoid output %g", p)
	}
}

func TestXORNet_Graph(t *testing.T) {
	net := newXORNet(rand.New(rand.NewPCG(1, 2)), 3)
	s := net.g.String()
	assert.Contains(t, s, "x0 = parameters(3,2)")
	assert.Contains(t, s, `\sigma(`)
	assert.Contains(t, s, "|| ")
	assert.Equal(t, 13, net.g.Len())
}

func TestClassifier_LossDecreases(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	c := newClassifier(rng)
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})

	first := c.epoch(rng, opt)
	var last float64
	for range 200 {
		last = c.epoch(rng, opt)
	}
	assert.Less(t, last, first)

	class, prob := c.predict(0)
	assert.GreaterOrEqual(t, class, 0)
	assert.Less(t, class, numClasses)
	assert.Greater(t, prob, 1.0/numClasses-1e-12)
}

func TestClassifier_LabelNames(t *testing.T) {
	c := newClassifier(rand.New(rand.NewPCG(3, 4)))
	for token := range vocabSize {
		label := c.store.Const(params.ConstID(token))
		assert.Equal(t, fmt.Sprintf("label.%d", token), label.Name())
		assert.Equal(t, float64(token%numClasses), label.Value().At(0, 0))
	}
}

func TestCheckCases_AllMatch(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for _, c := range checkCases(rng) {
		report := gradcheck.Check(c.edge, nil, c.xs, gradcheck.Options{})
		require.NoError(t, report.Err(), report.String())
	}
}

func TestCheckFlags(t *testing.T) {
	require.NoError(t, checkFlags())

	saved := *flagHidden
	defer func() { *flagHidden = saved }()
	*flagHidden = 0
	require.Error(t, checkFlags())
}

func TestPersistRestore(t *testing.T) {
	dir := t.TempDir()
	savedSave, savedLoad, savedExport := *flagSave, *flagLoad, *flagExport
	defer func() { *flagSave, *flagLoad, *flagExport = savedSave, savedLoad, savedExport }()

	*flagSave = filepath.Join(dir, "xor.edgs")
	*flagExport = filepath.Join(dir, "xor.safetensors")
	trained := newXORNet(rand.New(rand.NewPCG(1, 2)), 4)
	require.NoError(t, persist(trained.store, "train", 0.5))
	_, err := os.Stat(*flagExport)
	require.NoError(t, err)

	*flagLoad = *flagSave
	fresh := newXORNet(rand.New(rand.NewPCG(9, 9)), 4)
	require.NoError(t, restore(fresh.store))
	for i := range xorExamples {
		assert.Equal(t, trained.predict(i), fresh.predict(i))
	}

	// A checkpoint of a different architecture is rejected.
	other := newXORNet(rand.New(rand.NewPCG(1, 2)), 5)
	require.Error(t, restore(other.store))
}
