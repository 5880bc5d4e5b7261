// Package artifact persists the preprocessing output: the vocabulary (tokens
// and corpus counts in id order) together with the hyperparameters the
// restore flow needs. The on-disk layout is a little-endian binary blob with
// a magic/version header, validated strictly on read.
package artifact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"

	"github.com/fabiofumarola/skipgram/internal/vocab"
)

var artifactMagic = [4]byte{'S', 'G', 'V', 'A'}

const artifactVersion uint16 = 1

// Params are the training hyperparameters carried alongside the vocabulary.
type Params struct {
	EmbedDim   int
	NegSamples int
}

// Artifact is a decoded vocabulary artifact.
type Artifact struct {
	Tokens []string
	Counts []int64
	Params Params
}

// Vocab reconstructs the vocabulary from the artifact.
func (a *Artifact) Vocab() (*vocab.Vocab, error) {
	return vocab.FromCounts(a.Tokens, a.Counts)
}

// Write encodes the vocabulary and parameters and writes them to path.
func Write(path string, v *vocab.Vocab, p Params) error {
	if p.EmbedDim < 1 {
		return fmt.Errorf("artifact: embed dim must be at least 1, got %d", p.EmbedDim)
	}
	if p.EmbedDim > int(^uint16(0)) || p.NegSamples > int(^uint16(0)) || p.NegSamples < 0 {
		return fmt.Errorf("artifact: params out of range: dim=%d samples=%d", p.EmbedDim, p.NegSamples)
	}

	tokens := v.Tokens()
	counts := v.Counts()

	var buf bytes.Buffer
	buf.Write(artifactMagic[:])
	writeU16(&buf, artifactVersion)
	writeU16(&buf, uint16(p.EmbedDim))
	writeU16(&buf, uint16(p.NegSamples))
	writeU32(&buf, uint32(len(tokens)))

	for id, tok := range tokens {
		writeU64(&buf, uint64(counts[id]))
		writeU32(&buf, uint32(len(tok)))
		buf.WriteString(tok)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return nil
}

// Read memory-maps the artifact at path and decodes it.
func Read(path string) (*Artifact, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: mmap %s: %w", path, err)
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	return decode(data)
}

func decode(data []byte) (*Artifact, error) {
	const headerSize = 4 + 2 + 2 + 2 + 4
	if len(data) < headerSize {
		return nil, fmt.Errorf("artifact: file too small for header")
	}

	if !bytes.Equal(data[:4], artifactMagic[:]) {
		return nil, fmt.Errorf("artifact: invalid magic: %q", data[:4])
	}
	off := 4

	version := binary.LittleEndian.Uint16(data[off:])
	off += 2
	if version != artifactVersion {
		return nil, fmt.Errorf("artifact: unsupported version %d", version)
	}

	a := &Artifact{}
	a.Params.EmbedDim = int(binary.LittleEndian.Uint16(data[off:]))
	off += 2
	a.Params.NegSamples = int(binary.LittleEndian.Uint16(data[off:]))
	off += 2

	count := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if count == 0 {
		return nil, fmt.Errorf("artifact: empty vocabulary")
	}

	a.Tokens = make([]string, count)
	a.Counts = make([]int64, count)
	for i := 0; i < count; i++ {
		if off+12 > len(data) {
			return nil, fmt.Errorf("artifact: truncated at token %d", i)
		}
		a.Counts[i] = int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		n := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if off+n > len(data) {
			return nil, fmt.Errorf("artifact: truncated token %d (%d bytes)", i, n)
		}
		a.Tokens[i] = string(data[off : off+n])
		off += n
	}
	if off != len(data) {
		return nil, fmt.Errorf("artifact: %d trailing bytes", len(data)-off)
	}
	return a, nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}
