// Package scanner takes snapshots of a watched directory: the names of its
// direct entries and every line that carries the marker pattern.
//
// Listing failures of the directory itself are returned as *DirectoryError.
// Failures on individual files are not returned at all: the file is logged
// as skipped and the scan continues with the remaining entries.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/harrison/dirwatcher/internal/logger"
	"github.com/harrison/dirwatcher/internal/models"
	"github.com/zeebo/xxh3"
)

// Scanner reads one directory, non-recursively, looking for a marker.
type Scanner struct {
	dir    string
	marker *regexp.Regexp
	logger logger.Logger
	now    func() time.Time
}

// New creates a Scanner for dir. A nil logger discards warnings.
func New(dir string, marker *regexp.Regexp, log logger.Logger) *Scanner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scanner{
		dir:    dir,
		marker: marker,
		logger: log,
		now:    time.Now,
	}
}

// LiteralMarker compiles a marker that matches text exactly.
func LiteralMarker(text string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(text))
}

// Dir returns the watched directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// ListFiles returns the names of the direct entries of the watched directory.
func (s *Scanner) ListFiles() (models.FileSet, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, &DirectoryError{Path: s.dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryError{Path: s.dir, Err: errors.New("not a directory")}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &DirectoryError{Path: s.dir, Err: err}
	}

	files := make(models.FileSet, len(entries))
	for _, e := range entries {
		files.Add(e.Name())
	}
	return files, nil
}

// FindMarkers lists the directory and returns every marker occurrence found
// in its files.
func (s *Scanner) FindMarkers() (models.FindingSet, error) {
	snap, err := s.Scan()
	if err != nil {
		return nil, err
	}
	return snap.Findings, nil
}

// Scan lists the directory and reads every listed file, producing a complete
// snapshot. Only a failure to list the directory is returned as an error.
func (s *Scanner) Scan() (*models.Snapshot, error) {
	takenAt := s.now()

	files, err := s.ListFiles()
	if err != nil {
		return nil, err
	}

	snap := s.scanFiles(files.Sorted())
	snap.Files = files
	snap.TakenAt = takenAt
	return snap, nil
}

// scanFiles reads each named entry in turn. Entries that cannot be read are
// recorded in Skipped and logged. Directories, pipes, sockets and devices
// are listed but never opened.
func (s *Scanner) scanFiles(names []string) *models.Snapshot {
	snap := models.EmptySnapshot()

	for _, name := range names {
		digest, err := s.scanFile(name, snap.Findings)
		if err != nil {
			if errors.Is(err, errIsDir) {
				s.logger.Debugf("ignoring subdirectory %s", name)
				continue
			}
			if errors.Is(err, errNotRegular) {
				s.logger.Debugf("ignoring %s: not a regular file", name)
				continue
			}
			snap.Skipped = append(snap.Skipped, name)
			s.logger.Warnf("skipping %s for this scan: %v", name, err)
			continue
		}
		snap.Digests[name] = digest
	}

	return snap
}

var (
	errIsDir      = errors.New("is a directory")
	errNotRegular = errors.New("not a regular file")
)

// checkRegular accepts only regular files. A FIFO or device must never be
// opened: open on a FIFO blocks until a writer appears.
func checkRegular(info os.FileInfo) error {
	switch {
	case info.IsDir():
		return errIsDir
	case !info.Mode().IsRegular():
		return errNotRegular
	}
	return nil
}

// scanFile adds the findings of one file to findings and returns the xxh3
// digest of its content. At most one finding is recorded per line, using the
// first match on that line.
func (s *Scanner) scanFile(name string, findings models.FindingSet) (uint64, error) {
	path := filepath.Join(s.dir, name)

	info, err := os.Stat(path)
	if err != nil {
		return 0, &FileAccessError{Name: name, Op: "stat", Err: err}
	}
	if err := checkRegular(info); err != nil {
		return 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, &FileAccessError{Name: name, Op: "open", Err: err}
	}
	defer f.Close()

	// The entry may have been replaced between Stat and Open
	info, err = f.Stat()
	if err != nil {
		return 0, &FileAccessError{Name: name, Op: "stat", Err: err}
	}
	if err := checkRegular(info); err != nil {
		return 0, err
	}

	hasher := xxh3.New()
	reader := bufio.NewReader(io.TeeReader(f, hasher))

	// Collect into a local set first so a read error part way through
	// leaves no partial findings behind for this file.
	local := models.FindingSet{}
	for index := 0; ; index++ {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimRight(line, "\r\n")
			if loc := s.marker.FindStringIndex(line); loc != nil {
				local.Add(models.Finding{File: name, Line: index, Text: line[loc[0]:loc[1]]})
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, &FileAccessError{Name: name, Op: "read", Err: fmt.Errorf("line %d: %w", index, readErr)}
		}
	}

	for finding := range local {
		findings.Add(finding)
	}
	return hasher.Sum64(), nil
}
