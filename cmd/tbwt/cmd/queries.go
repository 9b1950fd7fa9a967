package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbwt/tbwt"
)

var queriesMin, queriesMax int

var queriesCmd = &cobra.Command{
	Use:   "queries <index> <resultfile>",
	Short: "Replay path queries against an index and report timings",
	Long: `queries reads one root-originating path pattern per line from
<resultfile> (the pattern is everything up to the first space -- the
format traverse's output uses), runs every pattern through the count,
subtree-frequency, and subtree-enumeration queries, and prints one line
per query class with the number of queries, the total found across all
patterns, and the wall-clock time. Per-pattern results are not printed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := verboseLogger()
		idx, err := loadIndex(args[0])
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("entries=%d trees=%d nodes=%d", idx.NumberOfEntries(), idx.NumberOfTrees(), idx.NumberOfNodes())
		}

		patterns, err := readPatterns(args[1])
		if err != nil {
			return err
		}

		root := tbwt.Range{First: 0, Last: idx.NumberOfTrees() - 1}

		start := time.Now()
		var totalCount int
		for _, p := range patterns {
			totalCount += subpathCount(idx, root, p)
		}
		fmt.Printf("subpath_count: %d queries, %d occurrences found, %s (%.0f queries/s)\n",
			len(patterns), totalCount, time.Since(start), ratePerSec(len(patterns), time.Since(start)))

		start = time.Now()
		var totalFreq int
		for _, p := range patterns {
			freq := subpathFreq(idx, root, p)
			for _, c := range freq {
				totalFreq += c
			}
		}
		fmt.Printf("subpath_freq: %d queries, %d occurrences found, %s (%.0f queries/s)\n",
			len(patterns), totalFreq, time.Since(start), ratePerSec(len(patterns), time.Since(start)))

		start = time.Now()
		var totalLeaves int
		for _, p := range patterns {
			totalLeaves += subpathSubtree(idx, root, p)
		}
		fmt.Printf("subpath_subtree: %d queries, %d leaves found, %s (%.0f queries/s)\n",
			len(patterns), totalLeaves, time.Since(start), ratePerSec(len(patterns), time.Since(start)))

		return nil
	},
}

func init() {
	queriesCmd.Flags().IntVarP(&queriesMin, "min", "m", 1, "minimum pattern length to replay")
	queriesCmd.Flags().IntVar(&queriesMax, "max", 0, "maximum pattern length to replay (0: no limit)")
	rootCmd.AddCommand(queriesCmd)
}

func ratePerSec(n int, d time.Duration) float64 {
	secs := d.Seconds()
	if secs == 0 {
		return 0
	}
	return float64(n) / secs
}

func readPatterns(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if i := strings.IndexByte(line, ' '); i >= 0 {
			line = line[:i]
		}
		if len(line) == 0 {
			continue
		}
		if queriesMin > 0 && len(line) < queriesMin {
			continue
		}
		if queriesMax > 0 && len(line) > queriesMax {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return patterns, nil
}

// subpathCount returns the number of nodes whose root-to-node label
// sequence equals path, assuming the path exists.
func subpathCount(idx *tbwt.Index, root tbwt.Range, path string) int {
	rng := root
	for i := 0; i < len(path)-1; i++ {
		rng = idx.SubtreeForSymbol(rng, path[i])
	}
	last := path[len(path)-1]
	lc := idx.LeafCount(rng, last)
	rng = idx.SubtreeForSymbol(rng, last)
	return idx.InternalCount(rng) + lc
}

// subpathFreq returns the per-document occurrence histogram of the node
// reached by path, assuming the path exists.
func subpathFreq(idx *tbwt.Index, root tbwt.Range, path string) map[int]int {
	rng := root
	for i := 0; i < len(path)-1; i++ {
		rng = idx.SubtreeForSymbol(rng, path[i])
	}
	last := path[len(path)-1]
	result := idx.LeafFrequency(rng, last)
	rng = idx.SubtreeForSymbol(rng, last)
	if !rng.Empty() {
		sumFreqs(result, idx.InternalFrequency(rng))
	}
	return result
}

// subpathSubtree returns the total leaf count under the locus reached
// by path, assuming the path exists.
func subpathSubtree(idx *tbwt.Index, root tbwt.Range, path string) int {
	rng := root
	for i := 0; i < len(path)-1; i++ {
		rng = idx.SubtreeForSymbol(rng, path[i])
	}
	last := path[len(path)-1]
	lc := idx.LeafCount(rng, last)
	rng = idx.SubtreeForSymbol(rng, last)
	if rng.Empty() {
		return lc
	}
	return subpathSubtreeLeaves(idx, rng) + lc
}

func subpathSubtreeLeaves(idx *tbwt.Index, rng tbwt.Range) int {
	leaves := idx.LeafCountAll(rng)
	for _, c := range idx.LabelsInSubtree(rng) {
		leaves += subpathSubtreeLeaves(idx, idx.SubtreeForSymbol(rng, c))
	}
	return leaves
}
