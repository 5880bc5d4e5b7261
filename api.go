// Package skipgram is the root facade over pkg/word2vec: train a skip-gram
// embedding model, persist it, and restore it for nearest-neighbor queries.
package skipgram

import (
	"context"

	"github.com/fabiofumarola/skipgram/pkg/word2vec"
)

// Config holds the training hyperparameters.
type Config = word2vec.Config

// Option configures training.
type Option = word2vec.Option

// Model is a trained or restored embedding model.
type Model = word2vec.Model

// Neighbor is a nearest-neighbor match.
type Neighbor = word2vec.Neighbor

// Default artifact file names inside the output directory.
const (
	ArtifactName   = word2vec.ArtifactName
	CheckpointName = word2vec.CheckpointName
)

// Option helpers.
var (
	WithEmbedDim           = word2vec.WithEmbedDim
	WithWindow             = word2vec.WithWindow
	WithBatchSize          = word2vec.WithBatchSize
	WithEpochs             = word2vec.WithEpochs
	WithSubsampleThreshold = word2vec.WithSubsampleThreshold
	WithLearnRate          = word2vec.WithLearnRate
	WithNegSamples         = word2vec.WithNegSamples
	WithSeed               = word2vec.WithSeed
	WithReportEvery        = word2vec.WithReportEvery
	WithNormConfig         = word2vec.WithNormConfig
	WithLogger             = word2vec.WithLogger
)

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return word2vec.DefaultConfig()
}

// Train runs preprocessing and training on the corpus file at corpusPath and
// writes the vocabulary artifact and embedding checkpoint to outDir.
func Train(ctx context.Context, corpusPath, outDir string, opts ...Option) (*Model, error) {
	return word2vec.Train(ctx, corpusPath, outDir, opts...)
}

// Restore loads a persisted vocabulary artifact and embedding checkpoint.
func Restore(artifactPath, checkpointPath string) (*Model, error) {
	return word2vec.Restore(artifactPath, checkpointPath)
}
