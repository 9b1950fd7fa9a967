package builder

import (
	"strings"
	"testing"

	"github.com/arbwt/tbwt/internal/fasta"
	"github.com/arbwt/tbwt/internal/forest"
)

func build(t *testing.T, in string) *Arrays {
	t.Helper()
	ff, err := fasta.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("fasta.Parse: %v", err)
	}
	f, err := forest.Parse(ff.Seq())
	if err != nil {
		t.Fatalf("forest.Parse: %v", err)
	}
	a, err := Build(f, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return a
}

func TestArrayShapes(t *testing.T) {
	t.Parallel()

	a := build(t, ">d0\n(A)\n(B(C)(D))\n")
	if a.Nodes != 4 || a.Trees != 2 || a.Entries != 1 {
		t.Fatalf("got N=%d T=%d E=%d, want 4,2,1", a.Nodes, a.Trees, a.Entries)
	}
	if len(a.Leaf) != a.Nodes || len(a.Last) != a.Nodes {
		t.Fatalf("Leaf/Last length mismatch: %d/%d vs %d", len(a.Leaf), len(a.Last), a.Nodes)
	}

	leaves := 0
	for _, b := range a.Leaf {
		if b {
			leaves++
		}
	}
	if leaves != 3 {
		t.Fatalf("leaf count = %d, want 3", leaves)
	}
	if len(a.TBWTInternal)+len(a.TBWTLeaf) != a.Nodes {
		t.Fatalf("TBWT label arrays don't cover all nodes: %d+%d != %d", len(a.TBWTInternal), len(a.TBWTLeaf), a.Nodes)
	}
	if a.LeafEntry.Len() != leaves {
		t.Fatalf("LeafEntry length = %d, want %d", a.LeafEntry.Len(), leaves)
	}
	if a.LastEntry.Len() != a.Nodes-leaves {
		t.Fatalf("LastEntry length = %d, want %d", a.LastEntry.Len(), a.Nodes-leaves)
	}

	// Roots occupy sorted positions [0, T); all but the last root must
	// have LAST forced to 0.
	for i := 0; i < a.Trees-1; i++ {
		if a.Last[i] {
			t.Fatalf("root position %d should not have LAST set", i)
		}
	}
}

func TestFSeedWithTreeCount(t *testing.T) {
	t.Parallel()

	a := build(t, ">d0\n(A)\n(B(C)(D))\n")
	if a.C[0] != a.Trees {
		t.Fatalf("C[0] = %d, want %d (seeded with tree count)", a.C[0], a.Trees)
	}
	if a.F[0] != 0 {
		t.Fatalf("F[0] = %d, want 0", a.F[0])
	}
}

func TestSingleNodeBuild(t *testing.T) {
	t.Parallel()

	a := build(t, ">d0\n(A)\n")
	if a.Nodes != 1 || a.Trees != 1 {
		t.Fatalf("got N=%d T=%d, want 1,1", a.Nodes, a.Trees)
	}
	if !a.Leaf[0] {
		t.Fatal("single node should be a leaf")
	}
}
