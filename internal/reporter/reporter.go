// Package reporter turns snapshot deltas into log entries.
package reporter

import (
	"github.com/harrison/dirwatcher/internal/logger"
	"github.com/harrison/dirwatcher/internal/models"
)

// Reporter writes one log entry per change in a delta. It holds no state.
type Reporter struct {
	logger logger.Logger
}

// New creates a Reporter writing to log. A nil logger discards everything.
func New(log logger.Logger) *Reporter {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Reporter{logger: log}
}

// Report logs every change in delta. File events come before marker events
// so that "file added" precedes the markers found in it. An empty delta
// logs nothing.
func (r *Reporter) Report(delta models.Delta) {
	for _, name := range delta.AddedFiles {
		r.logger.Infof("file added: %s", name)
	}
	for _, name := range delta.RemovedFiles {
		r.logger.Infof("file removed: %s", name)
	}
	for _, name := range delta.ModifiedFiles {
		r.logger.Debugf("file modified: %s", name)
	}
	for _, f := range delta.AddedFindings {
		r.logger.Infof("marker found in %s at line %d: %s", f.File, f.Line, f.Text)
	}
	for _, f := range delta.RemovedFindings {
		r.logger.Infof("marker no longer present in %s at line %d: %s", f.File, f.Line, f.Text)
	}
}

// ReportSets is Report for callers holding raw set differences.
func (r *Reporter) ReportSets(addedFiles, removedFiles models.FileSet, addedFindings, removedFindings models.FindingSet) {
	r.Report(models.Delta{
		AddedFiles:      addedFiles.Sorted(),
		RemovedFiles:    removedFiles.Sorted(),
		AddedFindings:   addedFindings.Sorted(),
		RemovedFindings: removedFindings.Sorted(),
	})
}
