// Package genforest generates randomly shaped labeled forests for the
// "gen" CLI subcommand and for property-based construction tests,
// following the reference tree generator's shape and seeded using
// math/rand/v2 so a given seed always reproduces the same forest.
package genforest

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/arbwt/tbwt/internal/fasta"
)

// Options controls the shape of a generated forest.
type Options struct {
	Entries int // number of documents
	Trees   int // trees per document
	Size    int // each tree targets roughly Size*Size nodes
}

// Generate builds a fasta.Forest of Options.Entries documents, each
// holding Options.Trees independently generated trees, using prng for
// every random decision so a given seed always reproduces the same
// forest.
func Generate(prng *rand.Rand, opt Options) *fasta.Forest {
	f := &fasta.Forest{}
	for e := 0; e < opt.Entries; e++ {
		name := strconv.Itoa(e)
		f.Names = append(f.Names, name)
		for t := 0; t < opt.Trees; t++ {
			var b strings.Builder
			writeTree(&b, prng, opt.Size)
			f.Records = append(f.Records, fasta.Record{Doc: e, Name: name, Tree: b.String()})
		}
	}
	return f
}

// writeTree emits one tree targeting size*size nodes: a root labeled
// from the full A-Z range, followed by a run of subtrees each
// consuming from the shared node budget until it is exhausted.
func writeTree(b *strings.Builder, prng *rand.Rand, size int) {
	budget := size*size - 1
	b.WriteByte('(')
	b.WriteByte(randomLabel(prng, 26))
	for budget > 0 {
		writeNode(b, prng, &budget)
	}
	b.WriteByte(')')
}

// writeNode emits one node and, by independent coin flip, a child
// subtree and a following sibling subtree, decrementing budget as it
// goes. Node labels here are drawn from a narrower A-H range, matching
// the reference generator exactly rather than the root's full alphabet.
func writeNode(b *strings.Builder, prng *rand.Rand, budget *int) {
	if *budget <= 0 {
		return
	}
	*budget--

	b.WriteByte('(')
	b.WriteByte(randomLabel(prng, 8))

	if prng.IntN(100) < 50 {
		writeNode(b, prng, budget)
	}

	b.WriteByte(')')

	if prng.IntN(100) < 50 {
		writeNode(b, prng, budget)
	}
}

func randomLabel(prng *rand.Rand, span int) byte {
	return byte('A' + prng.IntN(span))
}
