package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/arbwt/tbwt/internal/genforest"
)

var (
	genEntries int
	genTrees   int
	genSize    int
	genSeed    uint64
)

var genCmd = &cobra.Command{
	Use:   "gen [<output>]",
	Short: "Generate a random FASTA-style forest for testing",
	Long: `gen emits a random forest of --entries documents, each holding
--trees independently generated trees of roughly --size*--size nodes,
in the same FASTA-style format build consumes. With no output path it
writes to standard output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prng := rand.New(rand.NewPCG(genSeed, genSeed))
		f := genforest.Generate(prng, genforest.Options{
			Entries: genEntries,
			Trees:   genTrees,
			Size:    genSize,
		})

		out := os.Stdout
		if len(args) == 1 {
			file, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer file.Close()
			out = file
		}
		_, err := f.WriteTo(out)
		return err
	},
}

func init() {
	genCmd.Flags().IntVar(&genEntries, "entries", 1, "number of documents to generate")
	genCmd.Flags().IntVar(&genTrees, "trees", 1, "number of trees per document")
	genCmd.Flags().IntVar(&genSize, "size", 4, "tree size parameter (each tree targets size*size nodes)")
	genCmd.Flags().Uint64Var(&genSeed, "seed", 42, "PRNG seed, for reproducible output")
	rootCmd.AddCommand(genCmd)
}
