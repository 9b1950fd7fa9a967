// Package huffwt implements a Huffman-shaped wavelet tree: a binary
// tree over a byte alphabet where each level's split is defined not by
// a fixed bit-plane but by the level-th bit of each symbol's Huffman
// code, so that more frequent symbols resolve in fewer levels. It
// supports access (symbol at a position), rank (occurrences of a
// symbol up to a position) and select (position of the k-th
// occurrence), the three operations the TBWT index needs to move
// between the internal-node and leaf-node byte sequences and their
// document tables.
package huffwt

import (
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arbwt/tbwt/internal/bitrank"
)

// codeEntry is one symbol's Huffman code: bits low-to-high in code,
// bits long.
type codeEntry struct {
	code uint32
	bits uint32
}

// Tree is a built (or loaded) Huffman wavelet tree.
type Tree struct {
	codetable [256]codeEntry
	root      *node
}

type node struct {
	leaf        bool
	ch          byte
	br          *bitrank.Vector
	left, right *node
}

// hnode is a Huffman merge-tree node used only during code construction.
type hnode struct {
	weight int
	value  byte
	c0, c1 *hnode
}

type priorityQueue []*hnode

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].weight < q[j].weight }
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(*hnode)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// buildCodeTable runs the classic two-smallest-merge Huffman
// construction over the byte frequencies of s.
func buildCodeTable(s []byte) [256]codeEntry {
	var counts [256]int
	for _, b := range s {
		counts[b]++
	}

	var q priorityQueue
	for c := 0; c < 256; c++ {
		if counts[c] > 0 {
			q = append(q, &hnode{weight: counts[c], value: byte(c)})
		}
	}
	heap.Init(&q)

	for q.Len() > 1 {
		c0 := heap.Pop(&q).(*hnode)
		c1 := heap.Pop(&q).(*hnode)
		heap.Push(&q, &hnode{weight: c0.weight + c1.weight, c0: c0, c1: c1})
	}

	var ct [256]codeEntry
	if q.Len() == 0 {
		return ct
	}

	var assign func(n *hnode, code, bits uint32)
	assign = func(n *hnode, code, bits uint32) {
		if n.c0 == nil {
			ct[n.value] = codeEntry{code: code, bits: bits}
			return
		}
		assign(n.c0, code, bits+1)
		assign(n.c1, code|(1<<bits), bits+1)
	}
	assign(q[0], 0, 0)
	return ct
}

// Build constructs a wavelet tree over s, a byte sequence (a TBWT
// internal- or leaf-node label sequence).
func Build(s []byte) *Tree {
	ct := buildCodeTable(s)
	return &Tree{codetable: ct, root: buildNode(s, &ct, 0)}
}

func buildNode(s []byte, ct *[256]codeEntry, level uint32) *node {
	n := len(s)
	if n == 0 {
		return &node{leaf: true}
	}
	ch := s[0]

	bit := make([]bool, n)
	sum := 0
	for i, b := range s {
		if ct[b].code&(1<<level) != 0 {
			bit[i] = true
			sum++
		}
	}
	if sum == 0 || sum == n {
		return &node{leaf: true, ch: ch}
	}

	left := make([]byte, 0, n-sum)
	right := make([]byte, 0, sum)
	br := bitrank.New(n)
	for i, b := range s {
		if bit[i] {
			br.Set(i)
			right = append(right, b)
		} else {
			left = append(left, b)
		}
	}
	br.Build()

	return &node{
		ch:    ch,
		br:    br,
		left:  buildNode(left, ct, level+1),
		right: buildNode(right, ct, level+1),
	}
}

// Access returns the symbol at position i.
func (t *Tree) Access(i int) byte {
	ch, _ := t.accessRank(i)
	return ch
}

// AccessRank returns the symbol at position i together with its rank:
// the number of occurrences of that symbol in [0, i].
func (t *Tree) AccessRank(i int) (byte, int) {
	return t.accessRank(i)
}

func (t *Tree) accessRank(i int) (byte, int) {
	n := t.root
	for !n.leaf {
		if n.br.Get(i) {
			i = n.br.Rank1(i) - 1
			n = n.right
		} else {
			i = n.br.Rank0(i) - 1
			n = n.left
		}
	}
	return n.ch, i + 1
}

// Rank returns the number of occurrences of c in [0, i].
func (t *Tree) Rank(c byte, i int) int {
	if i < 0 {
		return 0
	}
	ce := t.codetable[c]
	n := t.root
	var level uint32
	for !n.leaf {
		if ce.code&(1<<level) != 0 {
			i = n.br.Rank1(i) - 1
			n = n.right
		} else {
			i = n.br.Rank0(i) - 1
			n = n.left
		}
		level++
		if i < 0 {
			return 0
		}
	}
	if n.ch != c {
		return 0
	}
	return i + 1
}

// Select returns the 0-based position of the k-th (1-based) occurrence
// of c, or -1 if there is no such occurrence.
func (t *Tree) Select(c byte, k int) int {
	if k <= 0 {
		return -1
	}
	ce := t.codetable[c]
	return selectAt(t.root, c, ce, 0, k)
}

func selectAt(n *node, c byte, ce codeEntry, level uint32, k int) int {
	if n.leaf {
		if n.ch != c {
			return -1
		}
		return k - 1
	}
	bit := ce.code&(1<<level) != 0
	var child *node
	if bit {
		child = n.right
	} else {
		child = n.left
	}
	idx := selectAt(child, c, ce, level+1, k)
	if idx < 0 {
		return -1
	}
	if bit {
		return n.br.Select1(idx + 1)
	}
	return n.br.Select0(idx + 1)
}

// WriteTo serializes the code table followed by a preorder traversal
// of the wavelet tree: per node, a leaf flag, a symbol byte, and (for
// internal nodes) the split bitrank vector and both children.
func (t *Tree) WriteTo(w io.Writer) error {
	for _, ce := range t.codetable {
		if err := binary.Write(w, binary.LittleEndian, ce.code); err != nil {
			return fmt.Errorf("huffwt: write codetable: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, ce.bits); err != nil {
			return fmt.Errorf("huffwt: write codetable: %w", err)
		}
	}
	return writeNode(w, t.root)
}

func writeNode(w io.Writer, n *node) error {
	if err := binary.Write(w, binary.LittleEndian, n.leaf); err != nil {
		return fmt.Errorf("huffwt: write node: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.ch); err != nil {
		return fmt.Errorf("huffwt: write node: %w", err)
	}
	if n.leaf {
		return nil
	}
	if _, err := n.br.WriteTo(w); err != nil {
		return fmt.Errorf("huffwt: write split vector: %w", err)
	}
	if err := writeNode(w, n.left); err != nil {
		return err
	}
	return writeNode(w, n.right)
}

// ReadFrom deserializes a Tree written by WriteTo.
func ReadFrom(r io.Reader) (*Tree, error) {
	var ct [256]codeEntry
	for i := range ct {
		if err := binary.Read(r, binary.LittleEndian, &ct[i].code); err != nil {
			return nil, fmt.Errorf("huffwt: read codetable: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &ct[i].bits); err != nil {
			return nil, fmt.Errorf("huffwt: read codetable: %w", err)
		}
	}
	root, err := readNode(r)
	if err != nil {
		return nil, err
	}
	return &Tree{codetable: ct, root: root}, nil
}

func readNode(r io.Reader) (*node, error) {
	var leaf bool
	var ch byte
	if err := binary.Read(r, binary.LittleEndian, &leaf); err != nil {
		return nil, fmt.Errorf("huffwt: read node: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
		return nil, fmt.Errorf("huffwt: read node: %w", err)
	}
	if leaf {
		return &node{leaf: true, ch: ch}, nil
	}
	br, err := bitrank.ReadVector(r)
	if err != nil {
		return nil, fmt.Errorf("huffwt: read split vector: %w", err)
	}
	left, err := readNode(r)
	if err != nil {
		return nil, err
	}
	right, err := readNode(r)
	if err != nil {
		return nil, err
	}
	return &node{ch: ch, br: br, left: left, right: right}, nil
}
