package diff

import (
	"testing"

	"github.com/harrison/dirwatcher/internal/models"
	"github.com/stretchr/testify/assert"
)

func finding(file string, line int) models.Finding {
	return models.Finding{File: file, Line: line, Text: "magic"}
}

func TestFiles(t *testing.T) {
	tests := []struct {
		name        string
		before      models.FileSet
		after       models.FileSet
		wantAdded   []string
		wantRemoved []string
	}{
		{"both empty", models.NewFileSet(), models.NewFileSet(), []string{}, []string{}},
		{"unchanged", models.NewFileSet("a", "b"), models.NewFileSet("a", "b"), []string{}, []string{}},
		{"added", models.NewFileSet("a"), models.NewFileSet("a", "b"), []string{"b"}, []string{}},
		{"removed", models.NewFileSet("a", "b"), models.NewFileSet("b"), []string{}, []string{"a"}},
		{"replaced", models.NewFileSet("a"), models.NewFileSet("c"), []string{"c"}, []string{"a"}},
		{"nil before", nil, models.NewFileSet("a"), []string{"a"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := Files(tt.before, tt.after)
			assert.Equal(t, tt.wantAdded, added.Sorted())
			assert.Equal(t, tt.wantRemoved, removed.Sorted())
		})
	}
}

func TestFilesSymmetry(t *testing.T) {
	sets := []models.FileSet{
		models.NewFileSet(),
		models.NewFileSet("a"),
		models.NewFileSet("a", "b", "c"),
		models.NewFileSet("c", "d"),
	}

	for _, a := range sets {
		for _, b := range sets {
			addedAB, removedAB := Files(a, b)
			addedBA, removedBA := Files(b, a)
			assert.Equal(t, addedAB, removedBA)
			assert.Equal(t, removedAB, addedBA)
		}
	}
}

func TestFindingsComparesWholeTriple(t *testing.T) {
	before := models.NewFindingSet(finding("a.txt", 1), finding("b.txt", 0))
	after := models.NewFindingSet(
		finding("a.txt", 2), // moved line
		models.Finding{File: "b.txt", Line: 0, Text: "MAGIC"}, // text changed
	)

	added, removed := Findings(before, after)
	assert.Equal(t, []models.Finding{
		finding("a.txt", 2),
		{File: "b.txt", Line: 0, Text: "MAGIC"},
	}, added.Sorted())
	assert.Equal(t, []models.Finding{finding("a.txt", 1), finding("b.txt", 0)}, removed.Sorted())
}

func TestFindingsUnchangedIsEmpty(t *testing.T) {
	s := models.NewFindingSet(finding("a.txt", 1), finding("a.txt", 4))
	added, removed := Findings(s, models.NewFindingSet(finding("a.txt", 4), finding("a.txt", 1)))
	assert.Equal(t, 0, added.Len())
	assert.Equal(t, 0, removed.Len())
}

func TestFindingsReoccurrenceIsReportedAgain(t *testing.T) {
	present := models.NewFindingSet(finding("f", 3))
	absent := models.NewFindingSet()

	// tick 1: appears
	added, _ := Findings(absent, present)
	assert.True(t, added.Has(finding("f", 3)))

	// tick 2: line changed
	_, removed := Findings(present, absent)
	assert.True(t, removed.Has(finding("f", 3)))

	// tick 3: back again, reported as added with no suppression
	added, _ = Findings(absent, present)
	assert.True(t, added.Has(finding("f", 3)))
}

func TestModified(t *testing.T) {
	before := map[string]uint64{"a": 1, "b": 2, "gone": 3}
	after := map[string]uint64{"a": 1, "b": 5, "new": 9}
	assert.Equal(t, []string{"b"}, Modified(before, after))
	assert.Empty(t, Modified(after, after))
}

func TestSnapshotsUnchangedStateProducesEmptyDelta(t *testing.T) {
	snap := &models.Snapshot{
		Files:    models.NewFileSet("a.txt"),
		Findings: models.NewFindingSet(finding("a.txt", 1)),
		Digests:  map[string]uint64{"a.txt": 42},
	}
	next := &models.Snapshot{
		Files:    models.NewFileSet("a.txt"),
		Findings: models.NewFindingSet(finding("a.txt", 1)),
		Digests:  map[string]uint64{"a.txt": 42},
	}

	assert.True(t, Snapshots(snap, next).IsEmpty())
}

func TestSnapshotsFileDeleted(t *testing.T) {
	before := &models.Snapshot{
		Files:    models.NewFileSet("a.txt"),
		Findings: models.NewFindingSet(finding("a.txt", 1)),
		Digests:  map[string]uint64{"a.txt": 42},
	}

	delta := Snapshots(before, models.EmptySnapshot())
	assert.Equal(t, []string{"a.txt"}, delta.RemovedFiles)
	assert.Equal(t, []models.Finding{finding("a.txt", 1)}, delta.RemovedFindings)
	assert.Empty(t, delta.AddedFiles)
	assert.Empty(t, delta.AddedFindings)
	assert.Empty(t, delta.ModifiedFiles)
}

func TestSettleSkippedFileKeepsFindings(t *testing.T) {
	before := &models.Snapshot{
		Files:    models.NewFileSet("a.txt", "b.txt"),
		Findings: models.NewFindingSet(finding("a.txt", 0), finding("b.txt", 2)),
		Digests:  map[string]uint64{"a.txt": 1, "b.txt": 2},
	}
	after := &models.Snapshot{
		Files:    models.NewFileSet("a.txt", "b.txt"),
		Findings: models.NewFindingSet(finding("a.txt", 0)),
		Digests:  map[string]uint64{"a.txt": 1},
		Skipped:  []string{"b.txt"},
	}

	settled := Settle(before, after)
	assert.True(t, Snapshots(before, settled).IsEmpty())
	assert.True(t, settled.Findings.Has(finding("b.txt", 2)))
	assert.Equal(t, uint64(2), settled.Digests["b.txt"])

	// The scan result itself is left untouched
	assert.False(t, after.Findings.Has(finding("b.txt", 2)))

	// Once b.txt is readable again with the same content nothing is reported
	readable := &models.Snapshot{
		Files:    models.NewFileSet("a.txt", "b.txt"),
		Findings: models.NewFindingSet(finding("a.txt", 0), finding("b.txt", 2)),
		Digests:  map[string]uint64{"a.txt": 1, "b.txt": 2},
	}
	assert.True(t, Snapshots(settled, Settle(settled, readable)).IsEmpty())
}

func TestSettleWithoutSkipsReturnsSameSnapshot(t *testing.T) {
	after := &models.Snapshot{Files: models.NewFileSet("a"), Findings: models.NewFindingSet()}
	assert.Same(t, after, Settle(models.EmptySnapshot(), after))
}
