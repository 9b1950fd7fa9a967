package bitrank

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

func reference(bits []bool) (rank1 func(int) int, rank0 func(int) int, select1 func(int) int, select0 func(int) int) {
	n := len(bits)
	rank1 = func(i int) int {
		if i < 0 {
			return 0
		}
		if i >= n {
			i = n - 1
		}
		c := 0
		for j := 0; j <= i; j++ {
			if bits[j] {
				c++
			}
		}
		return c
	}
	rank0 = func(i int) int {
		if i < 0 {
			return 0
		}
		return i + 1 - rank1(i)
	}
	select1 = func(k int) int {
		c := 0
		for i, b := range bits {
			if b {
				c++
				if c == k {
					return i
				}
			}
		}
		return -1
	}
	select0 = func(k int) int {
		c := 0
		for i, b := range bits {
			if !b {
				c++
				if c == k {
					return i
				}
			}
		}
		return -1
	}
	return
}

func TestVectorAgainstReference(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{0, 1, 7, 32, 63, 64, 513, 1000, 4096} {
		n := n
		t.Run("", func(t *testing.T) {
			t.Parallel()
			bits := make([]bool, n)
			v := New(n)
			for i := range bits {
				if prng.IntN(2) == 1 {
					bits[i] = true
					v.Set(i)
				}
			}
			v.Build()

			rank1, rank0, select1, select0 := reference(bits)
			for i := -2; i < n+2; i++ {
				if got, want := v.Rank1(i), rank1(i); got != want {
					t.Fatalf("n=%d Rank1(%d) = %d, want %d", n, i, got, want)
				}
				if got, want := v.Rank0(i), rank0(i); got != want {
					t.Fatalf("n=%d Rank0(%d) = %d, want %d", n, i, got, want)
				}
			}
			if n > 0 {
				ones := rank1(n - 1)
				for k := 1; k <= ones+1; k++ {
					if got, want := v.Select1(k), select1(k); got != want {
						t.Fatalf("n=%d Select1(%d) = %d, want %d", n, k, got, want)
					}
				}
				zeros := rank0(n - 1)
				for k := 1; k <= zeros+1; k++ {
					if got, want := v.Select0(k), select0(k); got != want {
						t.Fatalf("n=%d Select0(%d) = %d, want %d", n, k, got, want)
					}
				}
			}
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	t.Parallel()

	v := New(100)
	for i := 0; i < 100; i += 3 {
		v.Set(i)
	}
	v.Build()

	var buf bytes.Buffer
	if _, err := v.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	v2, err := ReadVector(&buf)
	if err != nil {
		t.Fatalf("ReadVector: %v", err)
	}
	if v2.Len() != v.Len() {
		t.Fatalf("length mismatch: got %d want %d", v2.Len(), v.Len())
	}
	for i := 0; i < 100; i++ {
		if v2.Get(i) != v.Get(i) {
			t.Fatalf("bit %d mismatch", i)
		}
		if v2.Rank1(i) != v.Rank1(i) {
			t.Fatalf("rank1 %d mismatch", i)
		}
	}
}
