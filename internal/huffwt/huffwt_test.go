package huffwt

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

func TestAccessMatchesSource(t *testing.T) {
	t.Parallel()

	s := []byte("mississippimississippimississippi")
	tr := Build(s)
	for i, want := range s {
		if got := tr.Access(i); got != want {
			t.Fatalf("Access(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestRankMatchesNaive(t *testing.T) {
	t.Parallel()

	s := []byte("abracadabraabracadabra")
	tr := Build(s)

	for _, c := range []byte("abcdr") {
		want := 0
		for i, b := range s {
			if b == c {
				want++
			}
			if got := tr.Rank(c, i); got != want {
				t.Fatalf("Rank(%q, %d) = %d, want %d", c, i, got, want)
			}
		}
	}

	if got := tr.Rank('z', len(s)-1); got != 0 {
		t.Fatalf("Rank of absent symbol = %d, want 0", got)
	}
}

func TestSelectMatchesNaive(t *testing.T) {
	t.Parallel()

	s := []byte("abracadabraabracadabra")
	tr := Build(s)

	for _, c := range []byte("abcdr") {
		var positions []int
		for i, b := range s {
			if b == c {
				positions = append(positions, i)
			}
		}
		for k, want := range positions {
			if got := tr.Select(c, k+1); got != want {
				t.Fatalf("Select(%q, %d) = %d, want %d", c, k+1, got, want)
			}
		}
		if got := tr.Select(c, len(positions)+1); got != -1 {
			t.Fatalf("Select(%q, %d) (out of range) = %d, want -1", c, len(positions)+1, got)
		}
	}
}

func TestSingleSymbol(t *testing.T) {
	t.Parallel()

	s := bytes.Repeat([]byte{'Q'}, 17)
	tr := Build(s)
	for i := range s {
		if got := tr.Access(i); got != 'Q' {
			t.Fatalf("Access(%d) = %q, want 'Q'", i, got)
		}
	}
	if got := tr.Rank('Q', len(s)-1); got != len(s) {
		t.Fatalf("Rank('Q', last) = %d, want %d", got, len(s))
	}
}

func TestRandomAgainstNaive(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(7, 9))
	alphabet := []byte("ABCDEFGH")
	s := make([]byte, 500)
	for i := range s {
		s[i] = alphabet[prng.IntN(len(alphabet))]
	}
	tr := Build(s)

	for i, want := range s {
		if got := tr.Access(i); got != want {
			t.Fatalf("Access(%d) = %q, want %q", i, got, want)
		}
	}
	for _, c := range alphabet {
		count := 0
		for i, b := range s {
			if b == c {
				count++
			}
			if got := tr.Rank(c, i); got != count {
				t.Fatalf("Rank(%q, %d) = %d, want %d", c, i, got, count)
			}
			if count > 0 {
				if got := tr.Select(c, count); got != i {
					t.Fatalf("Select(%q, %d) = %d, want %d", c, count, got, i)
				}
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := []byte("the quick brown fox jumps over the lazy dog")
	tr := Build(s)

	var buf bytes.Buffer
	if err := tr.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	tr2, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	for i, want := range s {
		if got := tr2.Access(i); got != want {
			t.Fatalf("loaded Access(%d) = %q, want %q", i, got, want)
		}
	}
	for _, c := range []byte("aeiou") {
		if tr2.Rank(c, len(s)-1) != tr.Rank(c, len(s)-1) {
			t.Fatalf("loaded Rank(%q) mismatch", c)
		}
	}
}
