// Package bitrank implements a bit-vector augmented with precomputed
// popcount summaries for constant-time rank and logarithmic select,
// the succinct auxiliary structure underlying the LEAF and LAST arrays
// of a TBWT index.
//
// The raw bits are stored in a github.com/bits-and-blooms/bitset.BitSet;
// this package only adds the two-level rank index and select on top of
// it, following the superblock/block scheme described for BitRank in
// the TBWT design.
package bitrank

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
)

const (
	superblockBits = 512
	blockBits      = 32
	blocksPerSuper = superblockBits / blockBits
)

// Vector is a bit-vector with O(1) Rank1 and O(log n) Select1/Select0.
// It is built once (via New + Set calls, then Build) and is read-only
// afterwards.
type Vector struct {
	bits *bitset.BitSet
	n    int

	// superblock[i] = popcount of bits [0, i*superblockBits).
	superblock []uint32
	// block[i] = popcount of bits [start of the enclosing superblock,
	// i*blockBits), i.e. cumulative count within the enclosing
	// superblock, reset every blocksPerSuper entries.
	block []uint16

	built bool
}

// New allocates a Vector able to hold n bits, all initially clear.
func New(n int) *Vector {
	if n < 0 {
		n = 0
	}
	return &Vector{
		bits: bitset.New(uint(n)),
		n:    n,
	}
}

// FromWords wraps a pre-populated raw bit-vector of n bits (as produced
// elsewhere, e.g. by the builder's array extraction) without copying the
// caller's ownership of the backing words.
func FromWords(words []uint64, n int) *Vector {
	return &Vector{
		bits: bitset.From(words),
		n:    n,
	}
}

// Len returns the number of bits.
func (v *Vector) Len() int { return v.n }

// Set sets bit i to 1. Must be called before Build.
func (v *Vector) Set(i int) {
	v.bits.Set(uint(i))
}

// Get returns the bit at position i.
func (v *Vector) Get(i int) bool {
	return v.bits.Test(uint(i))
}

// Build precomputes the superblock/block rank summaries. Must be called
// once, after all Set calls, before Rank1/Select1/Select0 are used.
func (v *Vector) Build() {
	if v.built {
		return
	}
	v.built = true

	words := v.bits.Bytes()
	nSuper := v.n/superblockBits + 1
	nBlock := v.n/blockBits + 1
	v.superblock = make([]uint32, nSuper)
	v.block = make([]uint16, nBlock)

	var total uint32
	var sinceSuper uint16
	for blk := 0; blk < nBlock; blk++ {
		bitStart := blk * blockBits
		if bitStart%superblockBits == 0 {
			v.superblock[bitStart/superblockBits] = total
			sinceSuper = 0
		}
		v.block[blk] = sinceSuper

		// popcount of this 32-bit block, taken from the underlying words.
		wordIdx := bitStart / 64
		var c uint16
		if wordIdx < len(words) {
			shift := uint(bitStart % 64)
			w := words[wordIdx] >> shift
			limit := v.n - bitStart
			if limit > blockBits {
				limit = blockBits
			}
			if limit > 0 {
				if limit < 64 {
					w &= (uint64(1) << uint(limit)) - 1
				}
				c = uint16(bits.OnesCount64(w))
			}
		}
		total += uint32(c)
		sinceSuper += c
	}
}

// Rank1 returns the number of set bits in [0, i] (popcount up to and
// including index i). Rank1(-1) is 0 by convention.
func (v *Vector) Rank1(i int) int {
	if i < 0 {
		return 0
	}
	if i >= v.n {
		i = v.n - 1
	}
	sb := i / superblockBits
	blk := i / blockBits
	r := int(v.superblock[sb]) + int(v.block[blk])

	wordIdx := (blk * blockBits) / 64
	words := v.bits.Bytes()
	if wordIdx < len(words) {
		shift := uint(i%blockBits) + 1
		start := uint((blk * blockBits) % 64)
		w := words[wordIdx] >> start
		if shift < 64 {
			w &= (uint64(1) << shift) - 1
		}
		r += bits.OnesCount64(w)
	}
	return r
}

// Rank0 returns the number of unset bits in [0, i].
func (v *Vector) Rank0(i int) int {
	if i < 0 {
		return 0
	}
	return (i + 1) - v.Rank1(i)
}

// Select1 returns the 0-based index of the k-th (1-based) set bit, or
// -1 if there is no such bit.
func (v *Vector) Select1(k int) int {
	if k <= 0 {
		return -1
	}
	lo, hi := 0, v.n-1
	if v.Rank1(hi) < k {
		return -1
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if v.Rank1(mid) >= k {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Select0 returns the 0-based index of the k-th (1-based) unset bit, or
// -1 if there is no such bit.
func (v *Vector) Select0(k int) int {
	if k <= 0 {
		return -1
	}
	lo, hi := 0, v.n-1
	if v.Rank0(hi) < k {
		return -1
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if v.Rank0(mid) >= k {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Words returns the raw backing words, for serialization.
func (v *Vector) Words() []uint64 {
	return v.bits.Bytes()
}

// WriteTo serializes the bit length followed by the raw backing words,
// little-endian. It satisfies io.WriterTo.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	var written int64
	if err := binary.Write(w, binary.LittleEndian, uint64(v.n)); err != nil {
		return written, fmt.Errorf("bitrank: write length: %w", err)
	}
	written += 8

	words := v.Words()
	if err := binary.Write(w, binary.LittleEndian, uint64(len(words))); err != nil {
		return written, fmt.Errorf("bitrank: write word count: %w", err)
	}
	written += 8

	if err := binary.Write(w, binary.LittleEndian, words); err != nil {
		return written, fmt.Errorf("bitrank: write words: %w", err)
	}
	written += int64(len(words)) * 8
	return written, nil
}

// ReadVector deserializes a Vector written by WriteTo and builds its
// rank index, ready for Rank1/Select1/Select0 use.
func ReadVector(r io.Reader) (*Vector, error) {
	var n, nwords uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("bitrank: read length: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nwords); err != nil {
		return nil, fmt.Errorf("bitrank: read word count: %w", err)
	}
	words := make([]uint64, nwords)
	if err := binary.Read(r, binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("bitrank: read words: %w", err)
	}
	v := FromWords(words, int(n))
	v.Build()
	return v, nil
}
