package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbwt/tbwt"
)

var buildCmd = &cobra.Command{
	Use:   "build <input-fasta> [<output>]",
	Short: "Build a TBWT index from a FASTA-style forest file",
	Long: `build parses a FASTA-style forest file -- '>' headers opening
each document, followed by one parenthesized tree row per tree -- and
writes the resulting TBWT index to <output> (default: <input>.tbwt).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := input + ".tbwt"
		if len(args) == 2 {
			output = args[1]
		}

		logger := verboseLogger()
		if logger != nil {
			logger.Printf("reading %s", input)
		}

		forest, err := readFasta(input)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("entries=%d trees=%d, building index", forest.NumberOfEntries(), forest.NumberOfTrees())
		}

		start := time.Now()
		idx, err := tbwt.New(forest.Seq(), logger)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("build complete in %s: nodes=%d leaves=%d", time.Since(start), idx.NumberOfNodes(), idx.NumberOfLeaves())
		}

		out, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer out.Close()
		if err := idx.Save(out); err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("saved to %s", output)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
