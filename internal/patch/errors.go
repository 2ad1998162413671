package patch

import "fmt"

// FileAccessError is returned when the target file cannot be read, backed up
// or written.
type FileAccessError struct {
	Op   string // "read", "write" or "backup"
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}
