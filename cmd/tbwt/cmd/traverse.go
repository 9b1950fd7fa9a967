package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbwt/tbwt"
)

var (
	traverseMin int
	traverseMax int
)

var traverseCmd = &cobra.Command{
	Use:   "traverse <index>",
	Short: "Walk every root-originating path of an index",
	Long: `traverse visits every root-originating path of the index whose
length falls between --min and --max (inclusive), printing one line per
path as "p d1:c1 d2:c2 ..." where d_i:c_i are per-document occurrence
counts of the node reached by that path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := verboseLogger()
		if logger != nil {
			logger.Printf("loading %s", args[0])
		}
		idx, err := loadIndex(args[0])
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("entries=%d trees=%d nodes=%d, traversing", idx.NumberOfEntries(), idx.NumberOfTrees(), idx.NumberOfNodes())
		}

		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()

		t := &traversal{
			idx:   idx,
			w:     w,
			min:   traverseMin,
			max:   traverseMax,
			start: time.Now(),
			log:   logger,
		}
		root := tbwt.Range{First: 0, Last: idx.NumberOfTrees() - 1}
		t.visit(nil, root, nil)

		if logger != nil {
			logger.Printf("traverse complete in %s: %d internal nodes checked, %d occurrences found",
				time.Since(t.start), t.traversed, t.totalOccs)
		}
		return nil
	},
}

func init() {
	traverseCmd.Flags().IntVarP(&traverseMin, "min", "m", 1, "minimum path length in the result set")
	traverseCmd.Flags().IntVar(&traverseMax, "max", math.MaxInt, "maximum path length in the result set")
	rootCmd.AddCommand(traverseCmd)
}

// traversal holds the state threaded through the recursive subtree
// walk: the index, the output sink, the length bounds, and running
// progress counters for the verbose trace.
type traversal struct {
	idx *tbwt.Index
	w   io.Writer
	min int
	max int

	log       interface{ Printf(string, ...any) }
	start     time.Time
	traversed int
	totalOccs int
}

// visit mirrors the reference traverseSubtree: it descends into every
// distinct internal-node label in rng, merging in the frequency of any
// leaves sharing that label, then emits any remaining pure-leaf labels
// and finally the current node's own aggregated frequency.
func (t *traversal) visit(path []byte, rng tbwt.Range, leafFreq map[int]int) {
	t.traversed += t.idx.SubtreeSize(rng)

	internalLabels := t.idx.LabelsInSubtree(rng)
	leafLabels := t.idx.LabelsOfLeaves(rng)

	isInternal := make(map[byte]bool, len(internalLabels))
	for _, c := range internalLabels {
		isInternal[c] = true
	}
	hasLeaf := make(map[byte]bool, len(leafLabels))
	for _, c := range leafLabels {
		hasLeaf[c] = true
	}

	for _, c := range internalLabels {
		next := append(append([]byte(nil), path...), c)
		var lf map[int]int
		if hasLeaf[c] {
			lf = t.idx.LeafFrequency(rng, c)
		}
		t.visit(next, t.idx.SubtreeForSymbol(rng, c), lf)
	}

	if len(path)+1 >= t.min && len(path)+1 <= t.max {
		for _, c := range leafLabels {
			if isInternal[c] {
				continue
			}
			next := append(append([]byte(nil), path...), c)
			t.output(next, t.idx.LeafFrequency(rng, c))
		}
	}

	freq := map[int]int{}
	if rng.First != 0 {
		freq = t.idx.InternalFrequency(rng)
	}
	sumFreqs(freq, leafFreq)

	if len(path) >= t.min && len(path) <= t.max {
		t.output(path, freq)
	}
}

func (t *traversal) output(path []byte, freq map[int]int) {
	fmt.Fprintf(t.w, "%s", string(path))
	for _, doc := range sortedKeys(freq) {
		fmt.Fprintf(t.w, " %d:%d", doc, freq[doc])
		t.totalOccs += freq[doc]
	}
	fmt.Fprintln(t.w)
}

func sumFreqs(to, from map[int]int) {
	for k, v := range from {
		to[k] += v
	}
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
