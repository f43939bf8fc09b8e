package models

import (
	"slices"
	"time"
)

// FileSet is the set of entry names present in the watched directory.
type FileSet map[string]struct{}

// NewFileSet builds a FileSet from the given names.
func NewFileSet(names ...string) FileSet {
	s := make(FileSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name.
func (s FileSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s FileSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names.
func (s FileSet) Len() int {
	return len(s)
}

// Sorted returns the names in lexical order.
func (s FileSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Snapshot is the scanner's complete observation of the watched directory at
// one instant. A Snapshot is never mutated after the scan that produced it.
type Snapshot struct {
	Files    FileSet           // Entries listed in the directory
	Findings FindingSet        // Marker occurrences across all readable files
	Digests  map[string]uint64 // xxh3 content digest per successfully read file
	Skipped  []string          // Files listed but not readable during this scan
	TakenAt  time.Time         // When the scan started
}

// EmptySnapshot returns a snapshot with no files and no findings.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Files:    FileSet{},
		Findings: FindingSet{},
		Digests:  map[string]uint64{},
	}
}
