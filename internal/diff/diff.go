// Package diff compares two snapshots of the watched directory.
//
// Every comparison is a pair of hash-set differences: added is what after has
// and before lacks, removed is the reverse. Nothing is remembered between
// calls, so a finding that disappears and later returns is reported as added
// again.
package diff

import (
	"slices"

	"github.com/harrison/dirwatcher/internal/models"
)

// Files returns the names present only in after (added) and only in before (removed).
func Files(before, after models.FileSet) (added, removed models.FileSet) {
	added = models.FileSet{}
	removed = models.FileSet{}

	for name := range after {
		if !before.Has(name) {
			added.Add(name)
		}
	}
	for name := range before {
		if !after.Has(name) {
			removed.Add(name)
		}
	}
	return added, removed
}

// Findings returns the findings present only in after (added) and only in
// before (removed). Findings compare on file, line and text together.
func Findings(before, after models.FindingSet) (added, removed models.FindingSet) {
	added = models.FindingSet{}
	removed = models.FindingSet{}

	for f := range after {
		if !before.Has(f) {
			added.Add(f)
		}
	}
	for f := range before {
		if !after.Has(f) {
			removed.Add(f)
		}
	}
	return added, removed
}

// Modified returns the files present in both digest maps whose digest changed.
func Modified(before, after map[string]uint64) []string {
	var out []string
	for name, sum := range after {
		if prev, ok := before[name]; ok && prev != sum {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Snapshots computes the full delta between two consecutive snapshots.
func Snapshots(before, after *models.Snapshot) models.Delta {
	addedFiles, removedFiles := Files(before.Files, after.Files)
	addedFindings, removedFindings := Findings(before.Findings, after.Findings)

	return models.Delta{
		AddedFiles:      addedFiles.Sorted(),
		RemovedFiles:    removedFiles.Sorted(),
		ModifiedFiles:   Modified(before.Digests, after.Digests),
		AddedFindings:   addedFindings.Sorted(),
		RemovedFindings: removedFindings.Sorted(),
	}
}

// Settle returns the snapshot that should replace before once after has been
// taken. Files that after listed but could not read keep the findings and
// digest they had in before: an unreadable file is not the same as a file
// whose markers went away, and treating it as one would log a removal now
// and a re-add on the next readable tick.
//
// When after skipped nothing it is returned unchanged.
func Settle(before, after *models.Snapshot) *models.Snapshot {
	if len(after.Skipped) == 0 {
		return after
	}

	skipped := models.NewFileSet(after.Skipped...)
	settled := &models.Snapshot{
		Files:    after.Files,
		Findings: make(models.FindingSet, after.Findings.Len()),
		Digests:  make(map[string]uint64, len(after.Digests)),
		Skipped:  after.Skipped,
		TakenAt:  after.TakenAt,
	}
	for f := range after.Findings {
		settled.Findings.Add(f)
	}
	for name, sum := range after.Digests {
		settled.Digests[name] = sum
	}

	for f := range before.Findings {
		if skipped.Has(f.File) {
			settled.Findings.Add(f)
		}
	}
	for name, sum := range before.Digests {
		if skipped.Has(name) {
			settled.Digests[name] = sum
		}
	}
	return settled
}
