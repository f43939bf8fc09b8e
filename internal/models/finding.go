package models

import (
	"cmp"
	"fmt"
	"slices"
)

// Finding is one marker occurrence: the file it was seen in, the 0-based
// line index and the text that matched. Two findings are equal only when all
// three fields are equal, which makes Finding usable as a map key.
type Finding struct {
	File string // Base name of the file inside the watched directory
	Line int    // 0-based line index
	Text string // Matched text (first match on the line)
}

// String returns a compact "file:line: text" form used in summaries.
func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Text)
}

// compareFindings orders findings by file, then line, then text.
func compareFindings(a, b Finding) int {
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Line, b.Line); c != 0 {
		return c
	}
	return cmp.Compare(a.Text, b.Text)
}

// FindingSet is the set of findings observed by one scan.
type FindingSet map[Finding]struct{}

// NewFindingSet builds a FindingSet from the given findings, dropping repeats.
func NewFindingSet(findings ...Finding) FindingSet {
	s := make(FindingSet, len(findings))
	for _, f := range findings {
		s.Add(f)
	}
	return s
}

// Add inserts a finding. Adding an existing finding is a no-op.
func (s FindingSet) Add(f Finding) {
	s[f] = struct{}{}
}

// Has reports whether the finding is in the set.
func (s FindingSet) Has(f Finding) bool {
	_, ok := s[f]
	return ok
}

// Len returns the number of findings.
func (s FindingSet) Len() int {
	return len(s)
}

// Sorted returns the findings ordered by file, line and text.
func (s FindingSet) Sorted() []Finding {
	out := make([]Finding, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	slices.SortFunc(out, compareFindings)
	return out
}
