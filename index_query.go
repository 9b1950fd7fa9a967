package tbwt

// LabelsInSubtree returns the distinct label bytes of the internal
// nodes whose sorted index falls in r, in ascending byte order.
func (x *Index) LabelsInSubtree(r Range) []byte {
	if r.Empty() {
		return nil
	}
	sp := 0
	if r.First > 0 {
		sp = x.leaf.Rank0(r.First - 1)
	}
	ep := x.leaf.Rank0(r.Last)
	return x.collectLabels(x.wt, sp, ep)
}

// LabelsOfLeaves returns the distinct label bytes of the leaves whose
// sorted index falls in r, in ascending byte order.
func (x *Index) LabelsOfLeaves(r Range) []byte {
	if r.Empty() {
		return nil
	}
	sp := 0
	if r.First > 0 {
		sp = x.leaf.Rank1(r.First - 1)
	}
	ep := x.leaf.Rank1(r.Last)
	return x.collectLabels(x.wtleaf, sp, ep)
}

func (x *Index) collectLabels(wt interface{ Access(int) byte }, sp, ep int) []byte {
	if sp >= ep {
		return nil
	}
	var seen [256]bool
	var out []byte
	for i := sp; i < ep; i++ {
		c := wt.Access(i)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// SubtreeForSymbol restricts r to the combined children-range of those
// internal nodes in r labeled c. An unknown symbol or an r with no
// matching label yields an empty Range -- not an error.
func (x *Index) SubtreeForSymbol(r Range, c byte) Range {
	if r.Empty() {
		return Range{First: 1, Last: 0}
	}
	sp := 0
	if r.First > 0 {
		sp = x.leaf.Rank0(r.First - 1)
	}
	ep := x.leaf.Rank0(r.Last) - 1
	if sp > ep {
		return Range{First: sp, Last: ep}
	}

	if sp > 0 {
		sp = x.wt.Rank(c, sp-1)
	} else {
		sp = 0
	}
	ep = x.wt.Rank(c, ep)
	if sp >= ep {
		return Range{First: sp + 1, Last: ep}
	}

	s := x.wt.Select(c, sp+1)
	e := x.wt.Select(c, ep)
	if s < 0 || e < 0 {
		return Range{First: 1, Last: 0}
	}

	sNode := x.leaf.Select0(s + 1)
	eNode := x.leaf.Select0(e + 1)
	first, err := x.RankedChild(sNode, 1)
	if err != nil {
		return Range{First: 1, Last: 0}
	}
	second, err := x.RankedChild(eNode, x.Degree(eNode))
	if err != nil {
		return Range{First: 1, Last: 0}
	}
	return Range{First: first, Last: second}
}

// LeafFrequency returns, for the leaves in r labeled c, a histogram of
// how many such leaves each document contributed.
func (x *Index) LeafFrequency(r Range, c byte) map[int]int {
	freq := map[int]int{}
	if r.Empty() {
		return freq
	}
	sp := 0
	if r.First > 0 {
		sp = x.leaf.Rank1(r.First - 1)
	}
	ep := x.leaf.Rank1(r.Last)
	for ; sp < ep; sp++ {
		if x.wtleaf.Access(sp) == c {
			freq[int(x.leafEntry.Get(sp))]++
		}
	}
	return freq
}

// LeafCount returns the number of leaves labeled c whose sorted index
// falls in r.
func (x *Index) LeafCount(r Range, c byte) int {
	if r.Empty() {
		return 0
	}
	sp := 0
	if r.First > 0 {
		sp = x.leaf.Rank1(r.First - 1)
	}
	ep := x.leaf.Rank1(r.Last)
	if sp > ep {
		return 0
	}
	if sp > 0 {
		sp = x.wtleaf.Rank(c, sp-1)
	}
	return x.wtleaf.Rank(c, ep-1) - sp
}

// LeafCountAll returns the total number of leaves whose sorted index
// falls in r, regardless of label.
func (x *Index) LeafCountAll(r Range) int {
	if r.Empty() {
		return 0
	}
	sp := 0
	if r.First > 0 {
		sp = x.leaf.Rank1(r.First - 1)
	}
	ep := x.leaf.Rank1(r.Last)
	return ep - sp
}

// InternalFrequency returns, for the sibling groups that end inside r
// (one per parent node, read at the group's last-sibling position), a
// histogram of how many such groups each document contributed. The
// root block contributes nothing.
func (x *Index) InternalFrequency(r Range) map[int]int {
	freq := map[int]int{}
	if r.Empty() {
		return freq
	}
	sp := 0
	if r.First > 0 {
		sp = x.last.Rank1(r.First-1) - 1
	}
	ep := x.last.Rank1(r.Last) - 1
	for ; sp < ep; sp++ {
		freq[int(x.lastEntry.Get(sp))]++
	}
	return freq
}

// InternalCount returns the number of LAST bits set in r, that is the
// number of sibling groups ending inside r (the same count as
// SubtreeSize). For a children range this is the number of parent
// nodes the range belongs to.
func (x *Index) InternalCount(r Range) int {
	if r.Empty() {
		return 0
	}
	sp := 0
	if r.First > 0 {
		sp = x.last.Rank1(r.First - 1)
	}
	ep := x.last.Rank1(r.Last)
	return ep - sp
}
