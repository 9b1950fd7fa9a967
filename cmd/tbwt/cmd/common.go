package cmd

import (
	"fmt"
	"os"

	"github.com/arbwt/tbwt"
	"github.com/arbwt/tbwt/internal/fasta"
)

// readFasta opens and parses a FASTA-style forest file from path.
func readFasta(path string) (*fasta.Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return fasta.Parse(f)
}

// loadIndex opens and loads a tbwt.Index previously written by Save.
func loadIndex(path string) (*tbwt.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return tbwt.Load(f)
}
