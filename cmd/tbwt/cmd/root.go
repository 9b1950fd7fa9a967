package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/arbwt/tbwt"
)

// verbose is set by the persistent -v flag and threaded into every
// subcommand that does non-trivial work (build, traverse, queries, test).
var verbose bool

// rootCmd is the base command when tbwt is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "tbwt",
	Short: "Tree Burrows-Wheeler Transform index builder and query tool",
	Long: `tbwt builds a compressed, self-indexed representation of a
forest of ordinal labeled trees and answers root-originating path
queries against it: node counts, per-document subtree frequencies,
and subtree leaf enumeration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs rootCmd (each subcommand adds itself to rootCmd in its
// own init function). Called once by main.main().
func Execute() {
	log.SetFlags(log.Lmicroseconds)
	if err := rootCmd.Execute(); err != nil {
		var terr *tbwt.Error
		if errors.As(err, &terr) {
			fmt.Fprintf(os.Stderr, "tbwt: %s: %s\n", terr.Kind, terr.Context)
		} else {
			fmt.Fprintf(os.Stderr, "tbwt: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress information")
}

// verboseLogger returns a *log.Logger writing to stderr when verbose is
// set, or nil otherwise -- the nil case is the signal internal packages
// use to skip their own progress tracing.
func verboseLogger() *log.Logger {
	if !verbose {
		return nil
	}
	return log.New(os.Stderr, "", log.Lmicroseconds)
}
