package tbwt

import (
	"iter"
	"log"

	"github.com/arbwt/tbwt/internal/bitrank"
	"github.com/arbwt/tbwt/internal/blockarray"
	"github.com/arbwt/tbwt/internal/builder"
	"github.com/arbwt/tbwt/internal/forest"
	"github.com/arbwt/tbwt/internal/huffwt"
)

// Range is an inclusive range of sorted node ids. Last < First denotes
// an empty range -- a valid sentinel, not an error.
type Range struct {
	First int
	Last  int
}

// Empty reports whether r denotes no nodes.
func (r Range) Empty() bool { return r.Last < r.First }

// Index is a built Tree Burrows-Wheeler Transform: an immutable,
// self-indexed representation of a forest supporting downward
// navigation and frequency queries over root-originating label paths.
type Index struct {
	entries int
	trees   int
	n       int

	f [256]int

	leaf *bitrank.Vector
	last *bitrank.Vector

	wt     *huffwt.Tree
	wtleaf *huffwt.Tree

	leafEntry *blockarray.Array
	lastEntry *blockarray.Array
}

// New builds an Index from an iterator of (document id, parenthesized
// tree encoding) pairs, one call per tree, trees grouped by ascending
// document id. logger may be nil; when non-nil it receives one line
// per construction phase.
func New(trees iter.Seq2[int, string], logger *log.Logger) (*Index, error) {
	f, err := forest.Parse(trees)
	if err != nil {
		switch {
		case err == forest.ErrTooManyNodes:
			return nil, wrapErr(TooManyNodes, "parsing input forest", err)
		default:
			return nil, wrapErr(InvalidTree, "parsing input forest", err)
		}
	}

	arrays, err := builder.Build(f, logger)
	if err != nil {
		return nil, wrapErr(TooManyNodes, "sorting forest", err)
	}

	return fromArrays(arrays), nil
}

func fromArrays(a *builder.Arrays) *Index {
	idx := &Index{
		entries: a.Entries,
		trees:   a.Trees,
		n:       a.Nodes,
		f:       a.F,

		leaf: bitrank.New(a.Nodes),
		last: bitrank.New(a.Nodes),

		leafEntry: a.LeafEntry,
		lastEntry: a.LastEntry,
	}
	for i, b := range a.Leaf {
		if b {
			idx.leaf.Set(i)
		}
	}
	idx.leaf.Build()
	for i, b := range a.Last {
		if b {
			idx.last.Set(i)
		}
	}
	idx.last.Build()

	idx.wt = huffwt.Build(a.TBWTInternal)
	idx.wtleaf = huffwt.Build(a.TBWTLeaf)

	return idx
}

// NumberOfNodes returns N, the total number of nodes in the forest.
func (x *Index) NumberOfNodes() int { return x.n }

// NumberOfTrees returns T, the number of trees (roots occupy [0, T)).
func (x *Index) NumberOfTrees() int { return x.trees }

// NumberOfEntries returns E, the number of source documents.
func (x *Index) NumberOfEntries() int { return x.entries }

// NumberOfLeaves returns L, the number of leaves in the forest.
func (x *Index) NumberOfLeaves() int {
	if x.n == 0 {
		return 0
	}
	return x.leaf.Rank1(x.n - 1)
}

// IsLeaf reports whether sorted node v is a leaf.
func (x *Index) IsLeaf(v int) bool { return x.leaf.Get(v) }

// IsRoot reports whether sorted node v is a root (roots occupy [0, T)).
func (x *Index) IsRoot(v int) bool { return v < x.trees }

// Root returns the sorted node id of the doc-th tree's root.
func (x *Index) Root(doc int) int { return doc }

// Label returns the label byte of sorted node v.
func (x *Index) Label(v int) byte {
	if x.leaf.Get(v) {
		rank := x.leaf.Rank1(v) - 1
		return x.wtleaf.Access(rank)
	}
	rank := x.leaf.Rank0(v) - 1
	return x.wt.Access(rank)
}

// Children returns the inclusive range of v's children in sorted
// order, or an empty Range if v is a leaf.
func (x *Index) Children(v int) Range {
	if x.leaf.Get(v) {
		return Range{First: 1, Last: 0}
	}
	u := x.leaf.Rank0(v) - 1
	c, r := x.wt.AccessRank(u)
	y := x.f[c]
	z := x.last.Rank1(y - 1)
	lo := x.last.Select1(z+r-1) + 1
	hi := x.last.Select1(z + r)
	return Range{First: lo, Last: hi}
}

// RankedChild returns the k-th (1-based) child of v, failing with
// OutOfRange if v has fewer than k children.
func (x *Index) RankedChild(v, k int) (int, error) {
	c := x.Children(v)
	degree := c.Last - c.First + 1
	if k < 1 || k > degree {
		return 0, newErr(OutOfRange, "ranked_child: k out of range")
	}
	return c.First + k - 1, nil
}

// Degree returns v's number of children.
func (x *Index) Degree(v int) int {
	c := x.Children(v)
	return c.Last - c.First + 1
}

// SubtreeSize returns the number of LAST bits set in r: the number of
// sibling groups that end inside r. For a children range this is the
// number of parent nodes the range belongs to; the root block [0, T)
// counts as one group.
func (x *Index) SubtreeSize(r Range) int {
	if r.Empty() {
		return 0
	}
	lo := 0
	if r.First > 0 {
		lo = x.last.Rank1(r.First - 1)
	}
	return x.last.Rank1(r.Last) - lo
}
