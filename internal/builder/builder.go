// Package builder implements the TBWT construction algorithm: a
// parallel-free radix-doubling (path-doubling) stable sort of a
// bit-packed forest's nodes by upward label sequence, followed by
// extraction of the TBWT arrays consumed by the index.
//
// The sort is the tree analogue of suffix sorting by Larsson-Sadakane:
// each pass doubles the comparison depth by having every node adopt its
// grandparent's rank as a secondary sort key, renaming runs of equal
// keys into a fresh dense rank, and repeating until the rank uniquely
// orders every node by its full upward path.
package builder

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/arbwt/tbwt/internal/blockarray"
	"github.com/arbwt/tbwt/internal/forest"
)

// ErrTooManyNodes mirrors forest.ErrTooManyNodes at the builder boundary.
var ErrTooManyNodes = errors.New("builder: too many nodes for 32-bit indices")

const maxNodes = 1<<32 - 1

// Arrays holds the TBWT arrays extracted after sorting: everything the
// index needs to build its succinct structures from.
type Arrays struct {
	Entries int
	Trees   int
	Nodes   int

	// Leaf[i] reports whether sorted node i is a leaf; length Nodes.
	Leaf []bool
	// Last[i] reports whether sorted node i is the last child of its
	// parent; forced false for all but the last of the root block.
	Last []bool

	TBWTInternal []byte // labels of internal nodes in sorted order
	TBWTLeaf     []byte // labels of leaf nodes in sorted order

	F [256]int // F[c] = sorted position of the first child of any node labeled c
	C [256]int // C[c] = number of internal nodes labeled c (C[0] seeded with Trees)

	LeafEntry *blockarray.Array // doc id per leaf, indexed by leaf rank
	LastEntry *blockarray.Array // doc id per last-child internal node, indexed by internal "last" rank
}

// Build sorts f in place (overwriting its parent pointers via
// path-doubling) and extracts the TBWT arrays. logger may be nil; when
// non-nil it receives one line per doubling pass, matching the
// reference builder's verbose trace.
func Build(f *forest.Forest, logger *log.Logger) (*Arrays, error) {
	n := f.NumberOfNodes()
	if n >= maxNodes {
		return nil, ErrTooManyNodes
	}
	if logger != nil {
		logger.Printf("builder: initializing %d nodes", n)
	}

	order := initOrder(f)

	height := f.Height()
	for iter := 0; (1 << uint(iter)) < height; iter++ {
		if logger != nil {
			logger.Printf("builder: sorting step %d", iter)
		}
		sortPass(f, order)

		if (1 << uint(iter+1)) < height {
			doubleParents(f)
		}
	}

	if logger != nil {
		logger.Printf("builder: sort complete")
	}
	return extract(f, order), nil
}

// initOrder assigns the initial sort keys (root -> 0, non-root -> the
// byte value of the parent's label) and returns the initial (identity)
// order vector.
func initOrder(f *forest.Forest) []int {
	n := f.NumberOfNodes()
	order := make([]int, n)
	for i := 0; i < n; i++ {
		order[i] = i
		if f.IsRoot(i) {
			f.SetName(i, 0)
		} else {
			f.SetName(i, int(f.GetLabel(f.GetParent(i))))
		}
	}
	return order
}

// parentNameOf returns the sort key contributed by v's parent, or 0 for
// a root (roots are defined to compare as if their parent-key were 0).
func parentNameOf(f *forest.Forest, v int) int {
	if f.IsRoot(v) {
		return 0
	}
	return f.GetName(f.GetParent(v))
}

// less implements the (name, parent-name) comparator nodes are sorted
// by on each pass.
func less(f *forest.Forest, i, j int) bool {
	ni, nj := f.GetName(i), f.GetName(j)
	if ni != nj {
		return ni < nj
	}
	return parentNameOf(f, i) < parentNameOf(f, j)
}

// sortPass stable-sorts order by the current (name, parent-name) keys,
// then renames every maximal run of equal keys to a fresh dense rank.
// The run boundaries are computed from the pre-rename keys in one pass,
// then ranks are written back in a second pass, so that a node's rank
// write never affects the comparator result used for a sibling still
// awaiting its own write.
func sortPass(f *forest.Forest, order []int) {
	sort.SliceStable(order, func(a, b int) bool {
		return less(f, order[a], order[b])
	})

	n := len(order)
	incr := make([]bool, n)
	for j := 0; j < n-1; j++ {
		incr[j] = less(f, order[j], order[j+1])
	}

	rank := 0
	f.SetName(order[0], rank)
	for j := 1; j < n; j++ {
		if incr[j-1] {
			rank++
		}
		f.SetName(order[j], rank)
	}
}

// doubleParents replaces every non-root's parent pointer with its
// grandparent, fixing a root-pointing-to-itself sentinel for nodes
// whose parent was a root (a "root for doubling purposes"). Processing
// proceeds by descending node id so that a node's grandparent lookup
// always observes this pass's not-yet-updated parent pointer.
func doubleParents(f *forest.Forest) {
	for j := f.NumberOfNodes() - 1; j >= 0; j-- {
		if f.IsRoot(j) {
			continue
		}
		parent := f.GetParent(j)
		if f.IsRoot(parent) {
			f.SetParent(j, j)
		} else {
			f.SetParent(j, f.GetParent(parent))
		}
	}
}

// extract reads off the five TBWT arrays from the now-sorted order.
func extract(f *forest.Forest, order []int) *Arrays {
	n := f.NumberOfNodes()
	trees := f.NumberOfTrees()
	a := &Arrays{
		Entries: f.NumberOfEntries(),
		Trees:   trees,
		Nodes:   n,
		Leaf:    make([]bool, n),
		Last:    make([]bool, n),
	}

	leafCount := 0
	for i := 0; i < n; i++ {
		if f.IsLeaf(order[i]) {
			a.Leaf[i] = true
			leafCount++
		}
	}
	for i := trees - 1; i < n; i++ {
		a.Last[i] = f.IsLast(order[i])
	}

	a.TBWTInternal = make([]byte, 0, n-leafCount)
	a.TBWTLeaf = make([]byte, 0, leafCount)
	for i := 0; i < n; i++ {
		v := order[i]
		if f.IsLeaf(v) {
			a.TBWTLeaf = append(a.TBWTLeaf, f.GetLabel(v))
		} else {
			a.TBWTInternal = append(a.TBWTInternal, f.GetLabel(v))
		}
	}

	a.C[0] = trees
	for i := 0; i < n; i++ {
		v := order[i]
		if !f.IsLeaf(v) {
			a.C[f.GetLabel(v)]++
		}
	}
	a.F[0] = 0
	j := 0
	for c := 0; c < 255; c++ {
		s := 0
		for s != a.C[c] {
			if f.IsLast(order[j]) {
				s++
			}
			j++
		}
		a.F[c+1] = j
	}

	leafWidth := blockarray.CeilLog2(uint64(leafCount))
	a.LeafEntry = blockarray.New(leafCount, leafWidth)
	lj := 0
	for i := 0; i < n; i++ {
		v := order[i]
		if f.IsLeaf(v) {
			a.LeafEntry.Set(lj, uint64(f.Document(v)))
			lj++
		}
	}
	if lj != leafCount {
		panic(fmt.Sprintf("builder: leaf extraction mismatch: got %d want %d", lj, leafCount))
	}

	internalCount := n - leafCount
	lastWidth := blockarray.CeilLog2(uint64(internalCount))
	a.LastEntry = blockarray.New(internalCount, lastWidth)
	kj := 0
	for i := trees; i < n; i++ {
		v := order[i]
		if f.IsLast(v) {
			a.LastEntry.Set(kj, uint64(f.Document(v)))
			kj++
		}
	}
	if kj != internalCount {
		panic(fmt.Sprintf("builder: internal extraction mismatch: got %d want %d", kj, internalCount))
	}

	return a
}
