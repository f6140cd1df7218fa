package tristrip

import (
	"errors"
	"fmt"
)

// Stripper errors.
var (
	ErrInvalidCacheSize      = errors.New("invalid vertex cache size")
	ErrInvalidMinStripLength = errors.New("invalid minimum strip length")
	ErrInvalidRestartIndex   = errors.New("invalid primitive restart index")
	ErrIndexCount            = errors.New("index count is not a multiple of 3")
	ErrNegativeIndex         = errors.New("negative vertex index")
	ErrIndexRange            = errors.New("vertex index above MaxVertexIndex")
	ErrValidation            = errors.New("strip validation failed")
	ErrAlreadyStripped       = errors.New("mesh is not a plain triangle list")
	ErrInternal              = errors.New("internal stripifier error")
)

// invariantError marks a broken internal invariant. It is raised with panic
// inside the stripifier and converted to ErrInternal at the API boundary.
type invariantError struct {
	msg string
}

func (e invariantError) Error() string {
	return e.msg
}

func invariant(format string, args ...any) {
	panic(invariantError{msg: fmt.Sprintf(format, args...)})
}

// recoverInvariant turns an invariant panic into an error. Other panics are
// re-raised.
func recoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(invariantError); ok {
		*err = fmt.Errorf("%w: %s", ErrInternal, ie.msg)
		return
	}
	panic(r)
}
