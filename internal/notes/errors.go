package notes

import "errors"

// ErrNotFound is returned when a note does not exist or belongs to another
// user. Callers cannot tell the two apart.
var ErrNotFound = errors.New("note not found")
