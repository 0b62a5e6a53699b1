package xcstrings

import "fmt"

// FileAccessError reports a catalog that could not be read or written.
type FileAccessError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// FormatError reports content that is not a usable string catalog.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid string catalog: %v", e.Err)
	}
	return fmt.Sprintf("invalid string catalog %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
