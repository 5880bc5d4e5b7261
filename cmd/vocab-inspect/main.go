// Command vocab-inspect dumps a vocabulary artifact: hyperparameters, size,
// and either specific token ids or an overview of the most and least
// frequent entries.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fabiofumarola/skipgram/internal/artifact"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: vocab-inspect <vocab.sgva> [token_ids...]")
	}

	art, err := artifact.Read(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read artifact: %v", err)
	}

	fmt.Printf("Vocabulary size: %d\n", len(art.Tokens))
	fmt.Printf("Embedding dim:   %d\n", art.Params.EmbedDim)
	fmt.Printf("Neg samples:     %d\n\n", art.Params.NegSamples)

	if len(os.Args) > 2 {
		fmt.Println("Requested token details:")
		fmt.Println(strings.Repeat("-", 60))
		for _, arg := range os.Args[2:] {
			id, err := strconv.Atoi(arg)
			if err != nil {
				log.Printf("Invalid token id %q: %v", arg, err)
				continue
			}
			if id < 0 || id >= len(art.Tokens) {
				log.Printf("Token id %d out of range [0, %d)", id, len(art.Tokens))
				continue
			}
			printToken(art, id)
		}
		return
	}

	overview := 20
	if overview > len(art.Tokens) {
		overview = len(art.Tokens)
	}

	fmt.Printf("Top %d tokens by frequency:\n", overview)
	fmt.Println(strings.Repeat("-", 60))
	for id := 0; id < overview; id++ {
		printToken(art, id)
	}

	if len(art.Tokens) > 2*overview {
		fmt.Printf("\n... (%d tokens) ...\n\n", len(art.Tokens)-2*overview)
		fmt.Printf("Bottom %d tokens:\n", overview)
		fmt.Println(strings.Repeat("-", 60))
		for id := len(art.Tokens) - overview; id < len(art.Tokens); id++ {
			printToken(art, id)
		}
	}
}

func printToken(art *artifact.Artifact, id int) {
	fmt.Printf("%6d  %-30q count=%d\n", id, art.Tokens[id], art.Counts[id])
}
