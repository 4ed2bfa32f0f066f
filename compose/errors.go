package compose

import (
	"errors"
	"fmt"
)

// ErrUnknownImage is wrapped by BuildError when an image has no pinned tag.
var ErrUnknownImage = errors.New("unknown image")

// BuildError aborts descriptor generation before anything is started.
type BuildError struct {
	Op  string // "resolve image", "render", "write", ...
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build compose descriptor (%s): %v", e.Op, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
