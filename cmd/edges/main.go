// Package main provides the edges CLI: it trains small networks built from
// edges, prints their expression graphs and checks edge gradients.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/born-ml/edges/internal/serialization"
	"github.com/born-ml/edges/params"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

var (
	flagEpochs   = flag.Int("epochs", 2000, "Number of passes over the training data.")
	flagLR       = flag.Float64("lr", 0.1, "Learning rate.")
	flagMomentum = flag.Float64("momentum", 0.9, "SGD momentum, 0 disables it.")
	flagHidden   = flag.Int("hidden", 8, "Hidden layer width of the XOR network.")
	flagSeed     = flag.Uint64("seed", 42, "Random seed for parameter initialization and gradient checks.")
	flagLoad     = flag.String("load", "", "Checkpoint to restore the model from before training. If left empty, the model is freshly initialized.")
	flagSave     = flag.String("save", "", "Path to save a checkpoint of the trained model. If left empty, no checkpoint is written.")
	flagExport   = flag.String("safetensors", "", "Path to export the trained model in SafeTensors format.")
)

var commands = []struct {
	name, help string
	run        func() error
}{
	{"version", "Show version", runVersion},
	{"train", "Train a 2-layer network on XOR", runTrain},
	{"classify", "Train an embedding classifier on a synthetic token task", runClassify},
	{"graph", "Print the expression graph of the XOR network", runGraph},
	{"check", "Check every edge's gradient against finite differences", runCheck},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s <command> [flags]\n\nCommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(out, "  %-10s %s\n", c.name, c.help)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name := os.Args[1]
	must.M(flag.CommandLine.Parse(os.Args[2:]))

	for _, c := range commands {
		if c.name != name {
			continue
		}
		var err error
		if panicErr := exceptions.TryCatch[error](func() { err = c.run() }); panicErr != nil {
			err = panicErr
		}
		if err != nil {
			klog.Exitf("%s failed: %+v", name, err)
		}
		return
	}
	usage()
	klog.Exitf("unknown command %q", name)
}

func runVersion() error {
	fmt.Printf("edges %s\n", version)
	return nil
}

// restore loads -load into store, if set.
func restore(store *params.Store) error {
	if *flagLoad == "" {
		return nil
	}
	if err := serialization.Load(*flagLoad, store); err != nil {
		return err
	}
	klog.Infof("restored model from %s", *flagLoad)
	return nil
}

// persist writes the -save checkpoint and the -safetensors export, if set.
func persist(store *params.Store, command string, loss float64) error {
	metadata := map[string]string{
		"command": command,
		"epochs":  strconv.Itoa(*flagEpochs),
		"loss":    strconv.FormatFloat(loss, 'g', -1, 64),
	}
	if *flagSave != "" {
		if err := serialization.Save(*flagSave, store, metadata); err != nil {
			return err
		}
		klog.Infof("saved checkpoint to %s", *flagSave)
	}
	if *flagExport != "" {
		if err := serialization.ExportSafeTensors(*flagExport, store, metadata); err != nil {
			return err
		}
		klog.Infof("exported SafeTensors to %s", *flagExport)
	}
	return nil
}

// checkFlags validates the training flags.
func checkFlags() error {
	switch {
	case *flagEpochs <= 0:
		return errors.Errorf("-epochs must be positive, got %d", *flagEpochs)
	case *flagLR <= 0:
		return errors.Errorf("-lr must be positive, got %g", *flagLR)
	case *flagMomentum < 0 || *flagMomentum >= 1:
		return errors.Errorf("-momentum must be in [0, 1), got %g", *flagMomentum)
	case *flagHidden <= 0:
		return errors.Errorf("-hidden must be positive, got %d", *flagHidden)
	}
	return nil
}
