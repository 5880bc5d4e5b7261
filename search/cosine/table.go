// Package cosine ranks embedding rows by cosine similarity. It is the
// validation side of training: given a handful of query ids it reports the
// closest vocabulary entries in one dense matrix multiply.
package cosine

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/fabiofumarola/skipgram/search"
)

// Table holds an L2-normalized copy of an embedding table. Rows of the
// source table are never mutated; similarity against normalized rows is the
// plain dot product, so every score lies in [-1, 1].
type Table struct {
	n      int
	dim    int
	normed *mat.Dense
}

// NewTable copies and row-normalizes the embedding table. Zero rows stay
// zero. Every row must share the same dimensionality.
func NewTable(rows [][]float32) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cosine: empty embedding table")
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("cosine: zero-dimensional embedding")
	}

	normed := mat.NewDense(len(rows), dim, nil)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("cosine: row %d has dim %d, want %d", i, len(row), dim)
		}
		dst := normed.RawRowView(i)
		for j, v := range row {
			dst[j] = float64(v)
		}
		if nrm := mat.Norm(normed.RowView(i), 2); nrm > 0 {
			for j := range dst {
				dst[j] /= nrm
			}
		}
	}
	return &Table{n: len(rows), dim: dim, normed: normed}, nil
}

// Len returns the number of rows in the table.
func (t *Table) Len() int { return t.n }

// Dim returns the embedding dimensionality.
func (t *Table) Dim() int { return t.dim }

// Nearest returns, for each query id, the topK most similar vocabulary ids
// in descending similarity order. The query id itself is always excluded.
// Exact ties rank the lower id first; callers must not assume strict
// ordering on ties.
func (t *Table) Nearest(queryIDs []int, topK int) ([][]search.Result, error) {
	if topK < 1 {
		return nil, fmt.Errorf("cosine: topK must be at least 1, got %d", topK)
	}
	for _, id := range queryIDs {
		if id < 0 || id >= t.n {
			return nil, fmt.Errorf("cosine: query id %d out of range [0, %d)", id, t.n)
		}
	}
	if len(queryIDs) == 0 {
		return nil, nil
	}

	// One dense multiply: query rows x normalized table transpose.
	queries := mat.NewDense(len(queryIDs), t.dim, nil)
	for i, id := range queryIDs {
		queries.SetRow(i, t.normed.RawRowView(id))
	}
	var sims mat.Dense
	sims.Mul(queries, t.normed.T())

	k := topK
	if k > t.n-1 {
		k = t.n - 1
	}

	out := make([][]search.Result, len(queryIDs))
	for qi, qid := range queryIDs {
		row := sims.RawRowView(qi)

		order := make([]int, t.n)
		for i := range order {
			order[i] = i
		}
		// Stable over ascending ids, so equal scores keep the lower id first.
		sort.SliceStable(order, func(a, b int) bool {
			return row[order[a]] > row[order[b]]
		})

		results := make([]search.Result, 0, k)
		for _, id := range order {
			if id == qid {
				continue
			}
			results = append(results, search.Result{ID: int32(id), Score: float32(row[id])})
			if len(results) == k {
				break
			}
		}
		out[qi] = results
	}
	return out, nil
}
