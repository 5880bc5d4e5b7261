package word2vec

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fabiofumarola/skipgram/internal/vocab"
)

// Config holds the training hyperparameters. All of them have working
// defaults; there is no package-level mutable state.
type Config struct {
	// EmbedDim is the embedding dimensionality.
	EmbedDim int

	// Window is the maximum context window radius C; the per-position
	// radius is drawn uniformly from [1, C].
	Window int

	// BatchSize is the number of center positions per generated batch and
	// the fixed pair count per optimizer step.
	BatchSize int

	// Epochs is the number of passes over the subsampled corpus.
	Epochs int

	// SubsampleT is the subsampling threshold t in p = 1 - sqrt(t/f).
	SubsampleT float64

	// LearnRate is the optimizer learning rate.
	LearnRate float64

	// NegSamples is the sampled-softmax candidate count persisted with the
	// vocabulary artifact. The loss itself is framework-owned.
	NegSamples int

	// Seed seeds the corpus-side randomness (subsampling, window radii).
	Seed int64

	// ReportEvery is the loss logging interval in optimizer steps.
	ReportEvery int

	// Norm controls corpus text normalization.
	Norm vocab.NormConfig

	// Logger receives progress output.
	Logger *logrus.Logger
}

// DefaultConfig returns the standard word2vec hyperparameters.
func DefaultConfig() Config {
	return Config{
		EmbedDim:    300,
		Window:      10,
		BatchSize:   1000,
		Epochs:      10,
		SubsampleT:  1e-5,
		LearnRate:   0.001,
		NegSamples:  100,
		Seed:        1,
		ReportEvery: 100,
		Norm:        vocab.DefaultNormConfig(),
		Logger:      logrus.StandardLogger(),
	}
}

func (c Config) validate() error {
	if c.EmbedDim < 1 {
		return fmt.Errorf("word2vec: embed dim must be at least 1, got %d", c.EmbedDim)
	}
	if c.Window < 1 {
		return fmt.Errorf("word2vec: window must be at least 1, got %d", c.Window)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("word2vec: batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.Epochs < 1 {
		return fmt.Errorf("word2vec: epochs must be at least 1, got %d", c.Epochs)
	}
	if c.SubsampleT <= 0 {
		return fmt.Errorf("word2vec: subsample threshold must be positive, got %g", c.SubsampleT)
	}
	if c.LearnRate <= 0 {
		return fmt.Errorf("word2vec: learn rate must be positive, got %g", c.LearnRate)
	}
	if c.NegSamples < 0 {
		return fmt.Errorf("word2vec: negative sample count must be non-negative, got %d", c.NegSamples)
	}
	if c.Logger == nil {
		return fmt.Errorf("word2vec: nil logger")
	}
	return nil
}

// Option is a functional option for Train.
type Option func(*Config)

// WithEmbedDim sets the embedding dimensionality.
func WithEmbedDim(dim int) Option {
	return func(c *Config) { c.EmbedDim = dim }
}

// WithWindow sets the maximum context window radius.
func WithWindow(window int) Option {
	return func(c *Config) { c.Window = window }
}

// WithBatchSize sets the batch size.
func WithBatchSize(n int) Option {
	return func(c *Config) { c.BatchSize = n }
}

// WithEpochs sets the number of training epochs.
func WithEpochs(n int) Option {
	return func(c *Config) { c.Epochs = n }
}

// WithSubsampleThreshold sets the subsampling threshold.
func WithSubsampleThreshold(t float64) Option {
	return func(c *Config) { c.SubsampleT = t }
}

// WithLearnRate sets the optimizer learning rate.
func WithLearnRate(lr float64) Option {
	return func(c *Config) { c.LearnRate = lr }
}

// WithNegSamples sets the persisted sampled-softmax candidate count.
func WithNegSamples(n int) Option {
	return func(c *Config) { c.NegSamples = n }
}

// WithSeed seeds the corpus-side randomness.
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithReportEvery sets the loss logging interval.
func WithReportEvery(n int) Option {
	return func(c *Config) { c.ReportEvery = n }
}

// WithNormConfig sets the corpus normalization configuration.
func WithNormConfig(cfg vocab.NormConfig) Option {
	return func(c *Config) { c.Norm = cfg }
}

// WithLogger sets the progress logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
