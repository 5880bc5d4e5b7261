// Package train runs the skip-gram training loop. The numerical work
// (forward pass, gradients, parameter updates) belongs to an Optimizer
// collaborator; the driver only feeds it batches in order and reports
// progress.
package train

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fabiofumarola/skipgram/internal/corpus"
)

// Optimizer is the opaque training collaborator. Step consumes one batch and
// returns the loss for it; Checkpoint persists the current parameters;
// Embedding hands out the learned table read-only.
type Optimizer interface {
	Step(batch corpus.Batch) (float64, error)
	Checkpoint(path string) error
	Embedding() [][]float32
}

// Config controls the training loop.
type Config struct {
	// Epochs is the number of passes over the batch stream. Defaults to 1.
	Epochs int

	// ReportEvery is the step interval for loss logging. Defaults to 100.
	ReportEvery int

	// CheckpointPath, when set, is where the optimizer persists its state
	// after the final epoch.
	CheckpointPath string

	// Logger receives progress output. Defaults to the logrus standard
	// logger.
	Logger *logrus.Logger

	// Validate, when set, is called with the current embedding table every
	// ValidateEvery steps, e.g. for a periodic nearest-neighbor printout.
	Validate      func(embedding [][]float32)
	ValidateEvery int
}

// Trainer drives the optimizer over the batch stream, strictly ordered by
// batch index. Execution is single-threaded and batch-sequential; a failed
// step aborts the run.
type Trainer struct {
	opt Optimizer
	cfg Config
}

// New creates a Trainer, filling config defaults.
func New(opt Optimizer, cfg Config) *Trainer {
	if cfg.Epochs < 1 {
		cfg.Epochs = 1
	}
	if cfg.ReportEvery < 1 {
		cfg.ReportEvery = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Trainer{opt: opt, cfg: cfg}
}

// Run iterates the batcher for the configured number of epochs, stepping the
// optimizer once per batch. Cancellation is observed between batches.
func (t *Trainer) Run(ctx context.Context, batches *corpus.Batcher) error {
	step := 0
	windowLoss := 0.0
	windowSteps := 0

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		batches.Reset()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			batch, ok := batches.Next()
			if !ok {
				break
			}
			if batch.Len() == 0 {
				continue
			}

			loss, err := t.opt.Step(batch)
			if err != nil {
				return fmt.Errorf("train: step %d: %w", step, err)
			}
			step++
			windowLoss += loss
			windowSteps++

			if step%t.cfg.ReportEvery == 0 {
				t.cfg.Logger.WithFields(logrus.Fields{
					"epoch": epoch,
					"step":  step,
					"loss":  windowLoss / float64(windowSteps),
				}).Info("training progress")
				windowLoss, windowSteps = 0, 0
			}

			if t.cfg.Validate != nil && t.cfg.ValidateEvery > 0 && step%t.cfg.ValidateEvery == 0 {
				t.cfg.Validate(t.opt.Embedding())
			}
		}
	}

	if t.cfg.CheckpointPath != "" {
		if err := t.opt.Checkpoint(t.cfg.CheckpointPath); err != nil {
			return fmt.Errorf("train: checkpoint: %w", err)
		}
	}
	return nil
}
