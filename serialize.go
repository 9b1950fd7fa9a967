package tbwt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/arbwt/tbwt/internal/bitrank"
	"github.com/arbwt/tbwt/internal/blockarray"
	"github.com/arbwt/tbwt/internal/huffwt"
)

// magicPrefix identifies an Index file; formatVersion distinguishes
// incompatible revisions of the framing below it.
const (
	magicPrefix   = "TBWTIDX"
	formatVersion = byte(1)
)

// Save writes the index to w in a little-endian binary format: a magic
// tag, a format version byte, the entries/trees/nodes counts, the
// LEAF and LAST bit-vectors, the internal and leaf wavelet trees, the
// F table, and the LeafEntry/LastEntry document tables.
func (x *Index) Save(w io.Writer) error {
	if _, err := io.WriteString(w, magicPrefix); err != nil {
		return wrapErr(IoError, "writing magic", err)
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return wrapErr(IoError, "writing version", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(x.entries)); err != nil {
		return wrapErr(IoError, "writing entries", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(x.trees)); err != nil {
		return wrapErr(IoError, "writing trees", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(x.n)); err != nil {
		return wrapErr(IoError, "writing nodes", err)
	}
	if _, err := x.leaf.WriteTo(w); err != nil {
		return wrapErr(IoError, "writing LEAF vector", err)
	}
	if _, err := x.last.WriteTo(w); err != nil {
		return wrapErr(IoError, "writing LAST vector", err)
	}
	if err := x.wt.WriteTo(w); err != nil {
		return wrapErr(IoError, "writing internal wavelet tree", err)
	}
	if err := x.wtleaf.WriteTo(w); err != nil {
		return wrapErr(IoError, "writing leaf wavelet tree", err)
	}
	for _, c := range x.f {
		if err := binary.Write(w, binary.LittleEndian, uint32(c)); err != nil {
			return wrapErr(IoError, "writing F table", err)
		}
	}
	if _, err := x.leafEntry.WriteTo(w); err != nil {
		return wrapErr(IoError, "writing LeafEntry", err)
	}
	if _, err := x.lastEntry.WriteTo(w); err != nil {
		return wrapErr(IoError, "writing LastEntry", err)
	}
	return nil
}

// Load reads an Index previously written by Save.
func Load(r io.Reader) (*Index, error) {
	prefix := make([]byte, len(magicPrefix))
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, loadErr("reading magic", err)
	}
	if string(prefix) != magicPrefix {
		return nil, newErr(BadMagic, "not a tbwt index file")
	}

	var version byte
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, loadErr("reading version", err)
	}
	if version != formatVersion {
		return nil, &Error{Kind: VersionMismatch, Context: fmt.Sprintf("unsupported format version %d", version)}
	}

	var entries uint32
	var trees, nodes uint64
	if err := binary.Read(r, binary.LittleEndian, &entries); err != nil {
		return nil, loadErr("reading entries", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &trees); err != nil {
		return nil, loadErr("reading trees", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nodes); err != nil {
		return nil, loadErr("reading nodes", err)
	}

	leaf, err := bitrank.ReadVector(r)
	if err != nil {
		return nil, loadErr("reading LEAF vector", err)
	}
	last, err := bitrank.ReadVector(r)
	if err != nil {
		return nil, loadErr("reading LAST vector", err)
	}
	wt, err := huffwt.ReadFrom(r)
	if err != nil {
		return nil, loadErr("reading internal wavelet tree", err)
	}
	wtleaf, err := huffwt.ReadFrom(r)
	if err != nil {
		return nil, loadErr("reading leaf wavelet tree", err)
	}

	var f [256]int
	for i := range f {
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, loadErr("reading F table", err)
		}
		f[i] = int(v)
	}

	leafEntry, err := blockarray.ReadArray(r)
	if err != nil {
		return nil, loadErr("reading LeafEntry", err)
	}
	lastEntry, err := blockarray.ReadArray(r)
	if err != nil {
		return nil, loadErr("reading LastEntry", err)
	}

	return &Index{
		entries:   int(entries),
		trees:     int(trees),
		n:         int(nodes),
		f:         f,
		leaf:      leaf,
		last:      last,
		wt:        wt,
		wtleaf:    wtleaf,
		leafEntry: leafEntry,
		lastEntry: lastEntry,
	}, nil
}

// loadErr classifies a read failure as Truncated (ran out of input) or
// IoError (anything else).
func loadErr(context string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapErr(Truncated, context, err)
	}
	return wrapErr(IoError, context, err)
}
