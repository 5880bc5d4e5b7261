// Command nearest restores a trained model and prints the nearest neighbors
// for a set of query words (or, with no arguments, for a sample of frequent
// vocabulary entries).
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/fabiofumarola/skipgram/pkg/word2vec"
)

func main() {
	var (
		artifactPath   = flag.String("artifact", "out/"+word2vec.ArtifactName, "vocabulary artifact path")
		checkpointPath = flag.String("checkpoint", "out/"+word2vec.CheckpointName, "embedding checkpoint path")
		topK           = flag.Int("k", 8, "neighbors per query")
		sample         = flag.Int("sample", 16, "frequent-id sample size when no words are given")
	)
	flag.Parse()

	model, err := word2vec.Restore(*artifactPath, *checkpointPath)
	if err != nil {
		log.Fatalf("restore failed: %v", err)
	}

	var results [][]word2vec.Neighbor
	var labels []string

	if words := flag.Args(); len(words) > 0 {
		labels = words
		results, err = model.Nearest(words, *topK)
	} else {
		// Ids are frequency-ordered, so the lowest ids are the most
		// frequent words.
		n := *sample
		if n > model.VocabSize() {
			n = model.VocabSize()
		}
		ids := make([]int, n)
		labels = make([]string, n)
		for i := range ids {
			ids[i] = i
			labels[i] = fmt.Sprintf("id %d", i)
		}
		results, err = model.NearestIDs(ids, *topK)
	}
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	for i, rs := range results {
		words := make([]string, len(rs))
		for j, r := range rs {
			words[j] = fmt.Sprintf("%s (%.3f)", r.Word, r.Score)
		}
		fmt.Printf("%-20s -> %s\n", labels[i], strings.Join(words, ", "))
	}
}
