package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrValidation marks a rejected request; nothing was written.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientFunds marks a rejected request whose balance check
	// failed; nothing was written.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InconsistencyError reports that the event log row was appended but a later
// projection write failed. The event logs stay authoritative: re-running the
// FIFO matcher and analytics reconverges the projections.
type InconsistencyError struct {
	Stage string
	Err   error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("ledger inconsistency at %s: %v", e.Stage, e.Err)
}

func (e *InconsistencyError) Unwrap() error {
	return e.Err
}
