package tbwt

import (
	"fmt"
	"io"
	"strings"
)

// String returns a hierarchical diagram of the indexed forest, one
// "▼" block per tree. Panics if the underlying Fprint fails, which
// only happens if w itself errors.
func (x *Index) String() string {
	w := new(strings.Builder)
	if err := x.Fprint(w); err != nil {
		panic(err)
	}
	return w.String()
}

// Fprint writes a hierarchical tree diagram of every tree in the
// forest to w. For the forest (A) (B(C)(D)):
//
//	▼
//	└─ A
//	▼
//	└─ B
//	   ├─ C
//	   └─ D
func (x *Index) Fprint(w io.Writer) error {
	for t := 0; t < x.trees; t++ {
		root := x.Root(t)
		if _, err := fmt.Fprintf(w, "▼\n└─ %c\n", x.Label(root)); err != nil {
			return err
		}
		if err := x.fprintRec(w, root, "   "); err != nil {
			return err
		}
	}
	return nil
}

func (x *Index) fprintRec(w io.Writer, v int, pad string) error {
	c := x.Children(v)
	if c.Empty() {
		return nil
	}
	glyphe := "├─ "
	spacer := "│  "
	for i := c.First; i <= c.Last; i++ {
		if i == c.Last {
			glyphe = "└─ "
			spacer = "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%c\n", pad, glyphe, x.Label(i)); err != nil {
			return err
		}
		if err := x.fprintRec(w, i, pad+spacer); err != nil {
			return err
		}
	}
	return nil
}

// DumpString is a wrapper for Dump, for debugging in a REPL or test
// failure message.
func (x *Index) DumpString() string {
	w := new(strings.Builder)
	if err := x.Dump(w); err != nil {
		panic(err)
	}
	return w.String()
}

// Dump writes the index's raw per-node arrays to w: sorted position,
// leaf/last flags, and label, one line per node. Useful during
// development; not part of the stable output format.
func (x *Index) Dump(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "entries=%d trees=%d nodes=%d leaves=%d\n",
		x.entries, x.trees, x.n, x.NumberOfLeaves()); err != nil {
		return err
	}
	for v := 0; v < x.n; v++ {
		leafFlag := "."
		if x.IsLeaf(v) {
			leafFlag = "L"
		}
		lastFlag := "."
		if x.last.Get(v) {
			lastFlag = "S"
		}
		if _, err := fmt.Fprintf(w, "%6d %s%s %c\n", v, leafFlag, lastFlag, x.Label(v)); err != nil {
			return err
		}
	}
	return nil
}
