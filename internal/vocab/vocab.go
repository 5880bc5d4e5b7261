// Package vocab builds the corpus vocabulary: a bidirectional mapping between
// token strings and dense zero-based integer ids.
package vocab

import (
	"fmt"
	"sort"
)

// Vocab is an immutable token<->id mapping. Ids are contiguous, zero-based and
// assigned in descending corpus frequency; ties keep first-seen order so
// construction is deterministic.
type Vocab struct {
	tokens []string
	ids    map[string]int32
	counts []int64
	total  int64
}

// Build constructs a vocabulary from a raw token sequence in a single pass
// over the corpus.
func Build(tokens []string) (*Vocab, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("vocab: empty token sequence")
	}

	counts := make(map[string]int64)
	distinct := make([]string, 0, 1024)
	for _, tok := range tokens {
		if _, seen := counts[tok]; !seen {
			distinct = append(distinct, tok)
		}
		counts[tok]++
	}

	// distinct is in first-seen order, so the stable sort keeps that order
	// for equal frequencies.
	sort.SliceStable(distinct, func(i, j int) bool {
		return counts[distinct[i]] > counts[distinct[j]]
	})

	v := &Vocab{
		tokens: distinct,
		ids:    make(map[string]int32, len(distinct)),
		counts: make([]int64, len(distinct)),
		total:  int64(len(tokens)),
	}
	for id, tok := range distinct {
		v.ids[tok] = int32(id)
		v.counts[id] = counts[tok]
	}
	return v, nil
}

// FromCounts reconstructs a vocabulary from persisted tokens and per-id
// corpus counts (in id order). Used when loading a vocabulary artifact.
func FromCounts(tokens []string, counts []int64) (*Vocab, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("vocab: empty token list")
	}
	if len(tokens) != len(counts) {
		return nil, fmt.Errorf("vocab: token/count length mismatch: %d != %d", len(tokens), len(counts))
	}

	v := &Vocab{
		tokens: append([]string(nil), tokens...),
		ids:    make(map[string]int32, len(tokens)),
		counts: append([]int64(nil), counts...),
	}
	for id, tok := range v.tokens {
		if _, dup := v.ids[tok]; dup {
			return nil, fmt.Errorf("vocab: duplicate token %q", tok)
		}
		v.ids[tok] = int32(id)
		v.total += counts[id]
	}
	return v, nil
}

// Len returns the number of distinct tokens.
func (v *Vocab) Len() int { return len(v.tokens) }

// Total returns the corpus length the vocabulary was built from.
func (v *Vocab) Total() int64 { return v.total }

// ID looks up the id for a token.
func (v *Vocab) ID(token string) (int32, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Token looks up the token for an id.
func (v *Vocab) Token(id int32) (string, bool) {
	if id < 0 || int(id) >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Count returns the corpus frequency for an id.
func (v *Vocab) Count(id int32) (int64, bool) {
	if id < 0 || int(id) >= len(v.counts) {
		return 0, false
	}
	return v.counts[id], true
}

// Tokens returns the tokens in id order. The slice must not be mutated.
func (v *Vocab) Tokens() []string { return v.tokens }

// Counts returns the per-id corpus counts. The slice must not be mutated.
func (v *Vocab) Counts() []int64 { return v.counts }

// Encode maps a token sequence to ids, skipping tokens outside the
// vocabulary.
func (v *Vocab) Encode(tokens []string) []int32 {
	out := make([]int32, 0, len(tokens))
	for _, tok := range tokens {
		if id, ok := v.ids[tok]; ok {
			out = append(out, id)
		}
	}
	return out
}
