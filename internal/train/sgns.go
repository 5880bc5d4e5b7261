package train

import (
	"fmt"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/fabiofumarola/skipgram/internal/checkpoint"
	"github.com/fabiofumarola/skipgram/internal/corpus"
)

// SGNSConfig configures the gorgonia skip-gram optimizer.
type SGNSConfig struct {
	VocabSize int
	EmbedDim  int

	// BatchSize is the fixed number of pairs per graph execution. The graph
	// shape is static, so incoming batches are re-chunked to this size.
	BatchSize int

	LearnRate float64
}

// SGNS is the gorgonia-backed skip-gram optimizer: an embedding matrix, an
// output projection, and a softmax cross-entropy loss, with gradients and
// parameter updates owned entirely by gorgonia's tape machine and Adam
// solver.
//
// The compiled graph has a fixed pair-batch shape. Incoming batches carry a
// variable number of pairs, so Step buffers them and executes one graph run
// per full chunk; a trailing partial chunk stays buffered for the next call
// and is dropped at the end of training.
type SGNS struct {
	cfg SGNSConfig

	g      *gorgonia.ExprGraph
	embed  *gorgonia.Node
	out    *gorgonia.Node
	x      *gorgonia.Node
	y      *gorgonia.Node
	loss   *gorgonia.Node
	vm     gorgonia.VM
	solver gorgonia.Solver

	pendingCenters  []int32
	pendingContexts []int32
	lastLoss        float64
}

// NewSGNS builds the computation graph and compiles the tape machine.
func NewSGNS(cfg SGNSConfig) (*SGNS, error) {
	if cfg.VocabSize < 2 {
		return nil, fmt.Errorf("train: vocab size must be at least 2, got %d", cfg.VocabSize)
	}
	if cfg.EmbedDim < 1 {
		return nil, fmt.Errorf("train: embed dim must be at least 1, got %d", cfg.EmbedDim)
	}
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("train: batch size must be at least 1, got %d", cfg.BatchSize)
	}
	if cfg.LearnRate <= 0 {
		return nil, fmt.Errorf("train: learn rate must be positive, got %g", cfg.LearnRate)
	}

	g := gorgonia.NewGraph()
	embed := gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(cfg.VocabSize, cfg.EmbedDim),
		gorgonia.WithName("embedding"),
		gorgonia.WithInit(gorgonia.GlorotU(1.0)))
	out := gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(cfg.EmbedDim, cfg.VocabSize),
		gorgonia.WithName("output"),
		gorgonia.WithInit(gorgonia.GlorotU(1.0)))

	x := gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(cfg.BatchSize, cfg.VocabSize),
		gorgonia.WithName("centers"))
	y := gorgonia.NewMatrix(g, tensor.Float32,
		gorgonia.WithShape(cfg.BatchSize, cfg.VocabSize),
		gorgonia.WithName("contexts"))

	hidden, err := gorgonia.Mul(x, embed)
	if err != nil {
		return nil, fmt.Errorf("train: build hidden layer: %w", err)
	}
	logits, err := gorgonia.Mul(hidden, out)
	if err != nil {
		return nil, fmt.Errorf("train: build logits: %w", err)
	}
	probs, err := gorgonia.SoftMax(logits)
	if err != nil {
		return nil, fmt.Errorf("train: build softmax: %w", err)
	}
	logProbs, err := gorgonia.Log(probs)
	if err != nil {
		return nil, fmt.Errorf("train: build log-probs: %w", err)
	}
	picked, err := gorgonia.HadamardProd(y, logProbs)
	if err != nil {
		return nil, fmt.Errorf("train: build target selection: %w", err)
	}
	perPair, err := gorgonia.Sum(picked, 1)
	if err != nil {
		return nil, fmt.Errorf("train: build per-pair loss: %w", err)
	}
	meanLoss, err := gorgonia.Mean(perPair)
	if err != nil {
		return nil, fmt.Errorf("train: build mean loss: %w", err)
	}
	loss, err := gorgonia.Neg(meanLoss)
	if err != nil {
		return nil, fmt.Errorf("train: build loss: %w", err)
	}

	if _, err := gorgonia.Grad(loss, embed, out); err != nil {
		return nil, fmt.Errorf("train: build gradients: %w", err)
	}

	return &SGNS{
		cfg:    cfg,
		g:      g,
		embed:  embed,
		out:    out,
		x:      x,
		y:      y,
		loss:   loss,
		vm:     gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(embed, out)),
		solver: gorgonia.NewAdamSolver(gorgonia.WithLearnRate(cfg.LearnRate), gorgonia.WithBatchSize(float64(cfg.BatchSize))),
	}, nil
}

// Step buffers the batch's pairs and runs the graph once per full chunk of
// cfg.BatchSize pairs. It returns the mean loss over the chunks executed in
// this call, or the last known loss when the buffer is still short of a full
// chunk.
func (s *SGNS) Step(batch corpus.Batch) (float64, error) {
	if len(batch.Centers) != len(batch.Contexts) {
		return 0, fmt.Errorf("train: misaligned batch: %d centers, %d contexts", len(batch.Centers), len(batch.Contexts))
	}
	for i := range batch.Centers {
		if err := s.checkID(batch.Centers[i]); err != nil {
			return 0, err
		}
		if err := s.checkID(batch.Contexts[i]); err != nil {
			return 0, err
		}
	}
	s.pendingCenters = append(s.pendingCenters, batch.Centers...)
	s.pendingContexts = append(s.pendingContexts, batch.Contexts...)

	chunks := 0
	total := 0.0
	for len(s.pendingCenters) >= s.cfg.BatchSize {
		loss, err := s.runChunk(s.pendingCenters[:s.cfg.BatchSize], s.pendingContexts[:s.cfg.BatchSize])
		if err != nil {
			return 0, err
		}
		s.pendingCenters = s.pendingCenters[s.cfg.BatchSize:]
		s.pendingContexts = s.pendingContexts[s.cfg.BatchSize:]
		total += loss
		chunks++
	}
	if chunks == 0 {
		return s.lastLoss, nil
	}
	s.lastLoss = total / float64(chunks)
	return s.lastLoss, nil
}

func (s *SGNS) checkID(id int32) error {
	if id < 0 || int(id) >= s.cfg.VocabSize {
		return fmt.Errorf("train: token id %d out of range [0, %d)", id, s.cfg.VocabSize)
	}
	return nil
}

func (s *SGNS) runChunk(centers, contexts []int32) (float64, error) {
	xb := make([]float32, s.cfg.BatchSize*s.cfg.VocabSize)
	yb := make([]float32, s.cfg.BatchSize*s.cfg.VocabSize)
	for i := 0; i < s.cfg.BatchSize; i++ {
		xb[i*s.cfg.VocabSize+int(centers[i])] = 1
		yb[i*s.cfg.VocabSize+int(contexts[i])] = 1
	}

	xT := tensor.New(tensor.WithShape(s.cfg.BatchSize, s.cfg.VocabSize), tensor.WithBacking(xb))
	yT := tensor.New(tensor.WithShape(s.cfg.BatchSize, s.cfg.VocabSize), tensor.WithBacking(yb))

	if err := gorgonia.Let(s.x, xT); err != nil {
		return 0, fmt.Errorf("train: bind centers: %w", err)
	}
	if err := gorgonia.Let(s.y, yT); err != nil {
		return 0, fmt.Errorf("train: bind contexts: %w", err)
	}

	s.vm.Reset()
	if err := s.vm.RunAll(); err != nil {
		return 0, fmt.Errorf("train: run graph: %w", err)
	}

	lossVal, ok := s.loss.Value().Data().(float32)
	if !ok {
		return 0, fmt.Errorf("train: unexpected loss value type %T", s.loss.Value().Data())
	}

	if err := s.solver.Step(gorgonia.NodesToValueGrads(gorgonia.Nodes{s.embed, s.out})); err != nil {
		return 0, fmt.Errorf("train: solver step: %w", err)
	}
	return float64(lossVal), nil
}

// Embedding returns a copy of the current embedding table, one row per
// vocabulary id.
func (s *SGNS) Embedding() [][]float32 {
	data := s.embed.Value().Data().([]float32)
	rows := make([][]float32, s.cfg.VocabSize)
	for i := range rows {
		rows[i] = append([]float32(nil), data[i*s.cfg.EmbedDim:(i+1)*s.cfg.EmbedDim]...)
	}
	return rows
}

// Checkpoint persists the embedding table to path.
func (s *SGNS) Checkpoint(path string) error {
	return checkpoint.Save(path, s.Embedding())
}

// Close releases the tape machine.
func (s *SGNS) Close() error {
	return s.vm.Close()
}
