package engine

import (
	"errors"
	"fmt"
)

// SaveError reports that a mutation was applied in memory but the document
// could not be written to the store.
//
// It is a warning, not a rejection: the result returned next to it is valid
// and the live document already reflects the change.
type SaveError struct {
	// Op names the mutation that triggered the write.
	Op string

	Err error
}

// Error implements the error interface.
func (e *SaveError) Error() string {
	return fmt.Sprintf("SAVE_FAILED: %s kept in memory only: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *SaveError) Unwrap() error {
	return e.Err
}

// IsSaveError returns true if err is (or wraps) a *SaveError.
func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}

// errNoChange lets an update report that it left the document as it was, so
// nothing is written.
var errNoChange = errors.New("no change")
