// Package tbwt implements the Tree Burrows-Wheeler Transform: a
// compressed, self-indexed representation of a forest of ordinal
// labeled trees that supports counting, subtree-frequency, and
// subtree-enumeration queries against root-originating label paths
// without ever decompressing the forest.
//
// Build an Index from a forest-producing iterator with New, query it
// with the Index methods, and persist it with Save/Load. Construction
// is a one-shot, in-memory operation: an Index does not support
// updates once built.
package tbwt
