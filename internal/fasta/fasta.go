// Package fasta reads and writes the line-based input format the
// index is built from: FASTA-style "> name" headers, each followed by
// one or more parenthesized tree rows belonging to that document.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// maxLineSize bounds a single tree row; production trees can run to
// millions of nodes, each contributing 3 characters to its row.
const maxLineSize = 1 << 28

// Record is one tree row tagged with the document it belongs to.
type Record struct {
	Doc  int
	Name string
	Tree string
}

// Forest holds every record parsed from an input stream, in file
// order, plus the document names in the order their headers appeared.
type Forest struct {
	Names   []string
	Records []Record
}

// Seq returns the (document id, tree encoding) iterator that
// internal/forest.Parse and internal/naive.Parse both consume.
func (f *Forest) Seq() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for _, rec := range f.Records {
			if !yield(rec.Doc, rec.Tree) {
				return
			}
		}
	}
}

// Parse reads FASTA-style input from r: lines starting with '>' open a
// new document, every other non-empty line is one tree row belonging
// to the most recently opened document. A row's length must be a
// multiple of 3, since every node contributes exactly "(c)" (an open
// paren, one label byte, a close paren) to its row, wherever in the
// nesting it appears.
func Parse(r io.Reader) (*Forest, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	f := &Forest{}
	doc := -1
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if line[0] == '>' {
			f.Names = append(f.Names, line[1:])
			doc++
			continue
		}
		if doc < 0 {
			return nil, fmt.Errorf("fasta: tree row at line %d precedes any '>' header", lineNo)
		}
		if len(line)%3 != 0 {
			return nil, fmt.Errorf("fasta: invalid row length %d at line %d", len(line), lineNo)
		}
		f.Records = append(f.Records, Record{Doc: doc, Name: f.Names[doc], Tree: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	return f, nil
}

// WriteTo writes f back out in the same FASTA-style format Parse
// reads, grouping consecutive records under one header per document.
func (f *Forest) WriteTo(w io.Writer) (int64, error) {
	var written int64
	lastDoc := -1
	for _, rec := range f.Records {
		if rec.Doc != lastDoc {
			n, err := fmt.Fprintf(w, ">%s\n", rec.Name)
			written += int64(n)
			if err != nil {
				return written, fmt.Errorf("fasta: write header: %w", err)
			}
			lastDoc = rec.Doc
		}
		n, err := fmt.Fprintf(w, "%s\n", rec.Tree)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("fasta: write row: %w", err)
		}
	}
	return written, nil
}

// NumberOfEntries returns the number of distinct documents read.
func (f *Forest) NumberOfEntries() int { return len(f.Names) }

// NumberOfTrees returns the number of tree rows read.
func (f *Forest) NumberOfTrees() int { return len(f.Records) }
