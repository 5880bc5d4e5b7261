// Package checkpoint persists the trained embedding table as a binary blob:
// a magic/version header, the matrix shape, then rows*dim little-endian
// float32 values in row-major order.
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
)

var checkpointMagic = [4]byte{'S', 'G', 'C', 'K'}

const checkpointVersion uint16 = 1

// ErrRowMismatch reports that the persisted vocabulary size does not match
// the embedding row count loaded from the checkpoint.
var ErrRowMismatch = errors.New("checkpoint: vocabulary size does not match embedding rows")

// Checkpoint is a loaded, read-only embedding table.
type Checkpoint struct {
	rows int
	dim  int
	data []float32
}

// Save writes the embedding table to path. Every row must have the same
// dimensionality.
func Save(path string, rows [][]float32) error {
	if len(rows) == 0 {
		return fmt.Errorf("checkpoint: empty embedding table")
	}
	dim := len(rows[0])
	if dim == 0 {
		return fmt.Errorf("checkpoint: zero-dimensional embedding")
	}

	var buf bytes.Buffer
	buf.Write(checkpointMagic[:])

	var hdr [12]byte
	binary.LittleEndian.PutUint16(hdr[0:], checkpointVersion)
	// hdr[2:4] is padding
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(rows)))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(dim))
	buf.Write(hdr[:])

	var scratch [4]byte
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("checkpoint: row %d has dim %d, want %d", i, len(row), dim)
		}
		for _, v := range row {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			buf.Write(scratch[:])
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", path, err)
	}
	return nil
}

// Load memory-maps the checkpoint at path and decodes the embedding table.
// The mapping is released before returning; the decoded data is an owned
// copy.
func Load(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: mmap %s: %w", path, err)
	}
	defer m.Unmap()

	return decode(m)
}

func decode(data []byte) (*Checkpoint, error) {
	const headerSize = 4 + 12
	if len(data) < headerSize {
		return nil, fmt.Errorf("checkpoint: file too small for header")
	}
	if !bytes.Equal(data[:4], checkpointMagic[:]) {
		return nil, fmt.Errorf("checkpoint: invalid magic: %q", data[:4])
	}

	version := binary.LittleEndian.Uint16(data[4:])
	if version != checkpointVersion {
		return nil, fmt.Errorf("checkpoint: unsupported version %d", version)
	}

	rows := int(binary.LittleEndian.Uint32(data[8:]))
	dim := int(binary.LittleEndian.Uint32(data[12:]))
	if rows == 0 || dim == 0 {
		return nil, fmt.Errorf("checkpoint: degenerate shape %dx%d", rows, dim)
	}

	want := headerSize + rows*dim*4
	if len(data) != want {
		return nil, fmt.Errorf("checkpoint: size mismatch: %d bytes, want %d for %dx%d", len(data), want, rows, dim)
	}

	values := make([]float32, rows*dim)
	off := headerSize
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
	}
	return &Checkpoint{rows: rows, dim: dim, data: values}, nil
}

// Rows returns the number of embedding rows.
func (c *Checkpoint) Rows() int { return c.rows }

// Dim returns the embedding dimensionality.
func (c *Checkpoint) Dim() int { return c.dim }

// Row returns row i. The slice must not be mutated.
func (c *Checkpoint) Row(i int) []float32 {
	return c.data[i*c.dim : (i+1)*c.dim]
}

// Matrix returns the table as a slice of rows backed by the checkpoint data.
// The rows must not be mutated.
func (c *Checkpoint) Matrix() [][]float32 {
	out := make([][]float32, c.rows)
	for i := range out {
		out[i] = c.Row(i)
	}
	return out
}

// Validate checks the checkpoint shape against the persisted vocabulary
// size. A mismatch is surfaced as ErrRowMismatch, never truncated.
func (c *Checkpoint) Validate(vocabSize int) error {
	if c.rows != vocabSize {
		return fmt.Errorf("%w: %d rows, %d tokens", ErrRowMismatch, c.rows, vocabSize)
	}
	return nil
}
