// Package word2vec provides the high-level API: train a skip-gram embedding
// model from a corpus file, persist the vocabulary artifact and embedding
// checkpoint, and restore them for nearest-neighbor validation.
package word2vec

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/fabiofumarola/skipgram/internal/artifact"
	"github.com/fabiofumarola/skipgram/internal/checkpoint"
	"github.com/fabiofumarola/skipgram/internal/corpus"
	"github.com/fabiofumarola/skipgram/internal/train"
	"github.com/fabiofumarola/skipgram/internal/vocab"
	"github.com/fabiofumarola/skipgram/search"
	"github.com/fabiofumarola/skipgram/search/cosine"
)

// Default artifact file names inside the output directory.
const (
	ArtifactName   = "vocab.sgva"
	CheckpointName = "embedding.sgck"
)

// Neighbor is a nearest-neighbor match resolved back to its token.
type Neighbor struct {
	Word  string
	ID    int32
	Score float32
}

// Model is a trained or restored embedding model: the vocabulary plus the
// read-only embedding table and its similarity index.
type Model struct {
	vocab     *vocab.Vocab
	table     *cosine.Table
	embedding [][]float32
}

// Train runs the full preprocessing and training flow: normalize and
// tokenize the corpus file, build the vocabulary, subsample, generate
// windowed pair batches, and hand them to the framework optimizer. The
// vocabulary artifact and the embedding checkpoint are written to outDir.
func Train(ctx context.Context, corpusPath, outDir string, opts ...Option) (*Model, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("word2vec: read corpus: %w", err)
	}

	normalizer := vocab.NewNormalizer(cfg.Norm)
	tokens := normalizer.Tokenize(string(raw))
	v, err := vocab.Build(tokens)
	if err != nil {
		return nil, err
	}
	ids := v.Encode(tokens)

	cfg.Logger.WithFields(logrus.Fields{
		"tokens": len(ids),
		"vocab":  v.Len(),
	}).Info("corpus preprocessed")

	rng := rand.New(rand.NewSource(cfg.Seed))
	kept, err := corpus.Subsample(ids, cfg.SubsampleT, rng)
	if err != nil {
		return nil, err
	}
	batches, err := corpus.NewBatcher(kept, cfg.BatchSize, cfg.Window, rng)
	if err != nil {
		return nil, err
	}

	opt, err := train.NewSGNS(train.SGNSConfig{
		VocabSize: v.Len(),
		EmbedDim:  cfg.EmbedDim,
		BatchSize: cfg.BatchSize,
		LearnRate: cfg.LearnRate,
	})
	if err != nil {
		return nil, err
	}
	defer opt.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("word2vec: create output dir: %w", err)
	}

	trainer := train.New(opt, train.Config{
		Epochs:         cfg.Epochs,
		ReportEvery:    cfg.ReportEvery,
		CheckpointPath: filepath.Join(outDir, CheckpointName),
		Logger:         cfg.Logger,
	})
	if err := trainer.Run(ctx, batches); err != nil {
		return nil, err
	}

	params := artifact.Params{EmbedDim: cfg.EmbedDim, NegSamples: cfg.NegSamples}
	if err := artifact.Write(filepath.Join(outDir, ArtifactName), v, params); err != nil {
		return nil, err
	}

	return newModel(v, opt.Embedding())
}

// Restore loads a persisted vocabulary artifact and embedding checkpoint.
// A vocabulary/checkpoint row-count mismatch is surfaced as
// checkpoint.ErrRowMismatch.
func Restore(artifactPath, checkpointPath string) (*Model, error) {
	art, err := artifact.Read(artifactPath)
	if err != nil {
		return nil, err
	}
	v, err := art.Vocab()
	if err != nil {
		return nil, err
	}

	ck, err := checkpoint.Load(checkpointPath)
	if err != nil {
		return nil, err
	}
	if err := ck.Validate(v.Len()); err != nil {
		return nil, err
	}
	if ck.Dim() != art.Params.EmbedDim {
		return nil, fmt.Errorf("word2vec: checkpoint dim %d does not match artifact dim %d", ck.Dim(), art.Params.EmbedDim)
	}

	return newModel(v, ck.Matrix())
}

func newModel(v *vocab.Vocab, embedding [][]float32) (*Model, error) {
	table, err := cosine.NewTable(embedding)
	if err != nil {
		return nil, err
	}
	return &Model{vocab: v, table: table, embedding: embedding}, nil
}

// VocabSize returns the number of vocabulary entries.
func (m *Model) VocabSize() int { return m.vocab.Len() }

// EmbedDim returns the embedding dimensionality.
func (m *Model) EmbedDim() int { return m.table.Dim() }

// Vector returns the embedding row for a word.
func (m *Model) Vector(word string) ([]float32, bool) {
	id, ok := m.vocab.ID(word)
	if !ok {
		return nil, false
	}
	return m.embedding[id], true
}

// Nearest returns the topK nearest neighbors for each query word.
func (m *Model) Nearest(words []string, topK int) ([][]Neighbor, error) {
	ids := make([]int, len(words))
	for i, w := range words {
		id, ok := m.vocab.ID(w)
		if !ok {
			return nil, fmt.Errorf("word2vec: word %q not in vocabulary", w)
		}
		ids[i] = int(id)
	}
	return m.nearest(ids, topK)
}

// NearestIDs returns the topK nearest neighbors for each query id.
func (m *Model) NearestIDs(ids []int, topK int) ([][]Neighbor, error) {
	return m.nearest(ids, topK)
}

func (m *Model) nearest(ids []int, topK int) ([][]Neighbor, error) {
	results, err := m.table.Nearest(ids, topK)
	if err != nil {
		return nil, err
	}
	out := make([][]Neighbor, len(results))
	for i, rs := range results {
		out[i] = make([]Neighbor, len(rs))
		for j, r := range rs {
			out[i][j] = m.neighbor(r)
		}
	}
	return out, nil
}

func (m *Model) neighbor(r search.Result) Neighbor {
	word, _ := m.vocab.Token(r.ID)
	return Neighbor{Word: word, ID: r.ID, Score: r.Score}
}
