package scanner

import "fmt"

// DirectoryError is returned when the watched directory itself cannot be
// listed: it is missing, unreadable, or not a directory. At startup this is
// fatal.
type DirectoryError struct {
	Path string
	Err  error
}

// Error implements the error interface for DirectoryError.
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot access directory %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// FileAccessError describes a file that was listed but could not be read,
// typically because another process removed it between listing and opening.
// It never escapes a scan; the file is skipped for that tick.
type FileAccessError struct {
	Name string // Entry name inside the watched directory
	Op   string // "open" or "read"
	Err  error
}

// Error implements the error interface for FileAccessError.
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileAccessError) Unwrap() error {
	return e.Err
}
