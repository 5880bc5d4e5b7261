// Command train preprocesses a corpus file, trains the skip-gram model, and
// writes the vocabulary artifact and embedding checkpoint.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fabiofumarola/skipgram/pkg/word2vec"
)

func main() {
	var (
		corpusPath = flag.String("corpus", "", "path to the raw corpus text file (required)")
		outDir     = flag.String("out", "out", "output directory for artifact and checkpoint")
		embedDim   = flag.Int("dim", 300, "embedding dimensionality")
		window     = flag.Int("window", 10, "maximum context window radius")
		batchSize  = flag.Int("batch", 1000, "batch size")
		epochs     = flag.Int("epochs", 10, "training epochs")
		threshold  = flag.Float64("subsample", 1e-5, "subsampling threshold")
		learnRate  = flag.Float64("lr", 0.001, "learning rate")
		seed       = flag.Int64("seed", 1, "random seed for subsampling and window radii")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if *corpusPath == "" {
		flag.Usage()
		log.Fatal("missing -corpus")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wallStart := time.Now()
	cpuStart := cpuTimeNow()

	model, err := word2vec.Train(ctx, *corpusPath, *outDir,
		word2vec.WithEmbedDim(*embedDim),
		word2vec.WithWindow(*window),
		word2vec.WithBatchSize(*batchSize),
		word2vec.WithEpochs(*epochs),
		word2vec.WithSubsampleThreshold(*threshold),
		word2vec.WithLearnRate(*learnRate),
		word2vec.WithSeed(*seed),
		word2vec.WithLogger(log),
	)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"vocab":    model.VocabSize(),
		"dim":      model.EmbedDim(),
		"wall":     time.Since(wallStart).Round(time.Millisecond),
		"cpu":      (cpuTimeNow() - cpuStart).Round(time.Millisecond),
		"artifact": *outDir + "/" + word2vec.ArtifactName,
	}).Info("training complete")
}
