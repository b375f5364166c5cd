// errors.go
package cursegen

import (
	"errors"
	"fmt"
)

var (
	// ErrLibraryNotFound indicates no candidate name resolved for a library
	ErrLibraryNotFound = errors.New("library not found")

	// ErrCompilerNotFound indicates no usable C compiler was located
	ErrCompilerNotFound = errors.New("no C compiler found")

	// ErrUnsupportedWidth indicates the feature probe rejected the chtype width
	ErrUnsupportedWidth = errors.New("unsupported chtype width")
)

// Error wraps an error with additional context
type Error struct {
	Op  string // Operation that failed
	Lib string // Logical library name if applicable
	Err error  // Underlying error
}

func (e *Error) Error() string {
	if e.Lib != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Lib, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
