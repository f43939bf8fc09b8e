package models

// Delta is the difference between two consecutive snapshots.
// All slices are sorted so that reports come out in a stable order.
type Delta struct {
	AddedFiles      []string
	RemovedFiles    []string
	ModifiedFiles   []string // Files present in both snapshots whose content digest changed
	AddedFindings   []Finding
	RemovedFindings []Finding
}

// IsEmpty reports whether the delta carries no change at all.
func (d Delta) IsEmpty() bool {
	return len(d.AddedFiles) == 0 &&
		len(d.RemovedFiles) == 0 &&
		len(d.ModifiedFiles) == 0 &&
		len(d.AddedFindings) == 0 &&
		len(d.RemovedFindings) == 0
}
