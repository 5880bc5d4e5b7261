// Package search defines the shared types for embedding-table similarity
// queries.
package search

// Result captures a nearest-neighbour match.
type Result struct {
	ID    int32
	Score float32
}
