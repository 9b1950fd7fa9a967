package genforest

import (
	"math/rand/v2"
	"testing"

	"github.com/arbwt/tbwt/internal/forest"
)

func TestGenerateProducesParsableForest(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(1, 1))
	f := Generate(prng, Options{Entries: 3, Trees: 2, Size: 3})

	if f.NumberOfEntries() != 3 {
		t.Fatalf("entries = %d, want 3", f.NumberOfEntries())
	}
	if f.NumberOfTrees() != 6 {
		t.Fatalf("trees = %d, want 6", f.NumberOfTrees())
	}

	nf, err := forest.Parse(f.Seq())
	if err != nil {
		t.Fatalf("forest.Parse of generated output: %v", err)
	}
	if nf.NumberOfTrees() != 6 {
		t.Fatalf("parsed trees = %d, want 6", nf.NumberOfTrees())
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	opt := Options{Entries: 2, Trees: 3, Size: 4}
	f1 := Generate(rand.New(rand.NewPCG(99, 99)), opt)
	f2 := Generate(rand.New(rand.NewPCG(99, 99)), opt)

	if len(f1.Records) != len(f2.Records) {
		t.Fatalf("record count differs: %d vs %d", len(f1.Records), len(f2.Records))
	}
	for i := range f1.Records {
		if f1.Records[i].Tree != f2.Records[i].Tree {
			t.Fatalf("record %d differs between runs with the same seed", i)
		}
	}
}
