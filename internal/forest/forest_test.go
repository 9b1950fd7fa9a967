package forest

import (
	"strings"
	"testing"

	"github.com/arbwt/tbwt/internal/fasta"
)

func parseString(t *testing.T, in string) *Forest {
	t.Helper()
	ff, err := fasta.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("fasta.Parse: %v", err)
	}
	f, err := Parse(ff.Seq())
	if err != nil {
		t.Fatalf("forest.Parse: %v", err)
	}
	return f
}

// TestSingleNodeTree covers the boundary case of a single 1-node tree:
// N=T=L=1 and the node is both root and leaf.
func TestSingleNodeTree(t *testing.T) {
	t.Parallel()

	f := parseString(t, ">d0\n(A)\n")
	if f.NumberOfNodes() != 1 || f.NumberOfTrees() != 1 || f.NumberOfLeaves() != 1 {
		t.Fatalf("got N=%d T=%d L=%d, want 1,1,1", f.NumberOfNodes(), f.NumberOfTrees(), f.NumberOfLeaves())
	}
	if !f.IsRoot(0) || !f.IsLeaf(0) {
		t.Fatal("single node must be both root and leaf")
	}
	if f.GetLabel(0) != 'A' {
		t.Fatalf("label = %c, want A", f.GetLabel(0))
	}
}

// TestS1Shape covers >d0 (A) (B(C)(D)): a leaf root alongside an
// internal root with two leaf children.
func TestS1Shape(t *testing.T) {
	t.Parallel()

	f := parseString(t, ">d0\n(A)\n(B(C)(D))\n")
	if f.NumberOfEntries() != 1 {
		t.Fatalf("entries = %d, want 1", f.NumberOfEntries())
	}
	if f.NumberOfTrees() != 2 {
		t.Fatalf("trees = %d, want 2", f.NumberOfTrees())
	}
	if f.NumberOfNodes() != 4 {
		t.Fatalf("nodes = %d, want 4", f.NumberOfNodes())
	}
	if f.NumberOfLeaves() != 3 {
		t.Fatalf("leaves = %d, want 3", f.NumberOfLeaves())
	}

	// parse order: A(0), B(1), C(2), D(3)
	if f.GetLabel(0) != 'A' || !f.IsRoot(0) || !f.IsLeaf(0) {
		t.Fatalf("node 0 should be root leaf A")
	}
	if f.GetLabel(1) != 'B' || !f.IsRoot(1) || f.IsLeaf(1) {
		t.Fatalf("node 1 should be root internal B")
	}
	if f.GetLabel(2) != 'C' || f.GetParent(2) != 1 || f.IsLast(2) {
		t.Fatalf("node 2 should be C, non-last child of B")
	}
	if f.GetLabel(3) != 'D' || f.GetParent(3) != 1 || !f.IsLast(3) {
		t.Fatalf("node 3 should be D, last child of B")
	}
}

func TestAllRootsForest(t *testing.T) {
	t.Parallel()

	f := parseString(t, ">d0\n(A)\n(B)\n(C)\n")
	if f.NumberOfTrees() != 3 || f.NumberOfNodes() != 3 || f.NumberOfLeaves() != 3 {
		t.Fatalf("got T=%d N=%d L=%d, want 3,3,3", f.NumberOfTrees(), f.NumberOfNodes(), f.NumberOfLeaves())
	}
	for i := 0; i < 3; i++ {
		if !f.IsRoot(i) || !f.IsLeaf(i) {
			t.Fatalf("node %d should be both root and leaf", i)
		}
	}
}

func TestDocumentLookup(t *testing.T) {
	t.Parallel()

	f := parseString(t, ">d0\n(A)\n(B)\n>d1\n(C)\n")
	if got := f.Document(0); got != 0 {
		t.Fatalf("Document(0) = %d, want 0", got)
	}
	if got := f.Document(1); got != 0 {
		t.Fatalf("Document(1) = %d, want 0", got)
	}
	if got := f.Document(2); got != 1 {
		t.Fatalf("Document(2) = %d, want 1", got)
	}
}

func TestInvalidEncodingRejected(t *testing.T) {
	t.Parallel()

	cases := []string{
		">d0\n(A\n",
		">d0\nA)\n",
		">d0\n()\n",
	}
	for _, enc := range cases {
		ff, err := fasta.Parse(strings.NewReader(enc))
		if err != nil {
			// fasta's own row-length validation caught it first; fine.
			continue
		}
		if _, err := Parse(ff.Seq()); err == nil {
			t.Fatalf("expected error parsing %q", enc)
		}
	}
}
