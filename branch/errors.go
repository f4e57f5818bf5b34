package branch

import (
	"errors"
	"strconv"
)

// ErrPermissionDenied is matched (via errors.Is) by every PermissionDeniedError.
var ErrPermissionDenied = errors.New("branch: permission denied")

// PermissionDeniedError is returned when a gated update is attempted without
// authorization. The branch is left unchanged.
type PermissionDeniedError struct {
	// Field is the record field the caller tried to change.
	Field string
}

// Error implements the error interface.
func (e *PermissionDeniedError) Error() string {
	// Example: branch: permission denied to update "telephone"
	return "branch: permission denied to update " + strconv.Quote(e.Field)
}

// Is lets errors.Is(err, ErrPermissionDenied) match.
func (e *PermissionDeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}
