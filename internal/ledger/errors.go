package ledger

import "fmt"

// ValidationError reports a missing or invalid required field. The ledger
// never wraps these; handlers translate them to 400 responses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientRemainingError is returned when a payment would drive an
// entry's remaining amount negative. This is a hard rejection, not a clamp.
type InsufficientRemainingError struct {
	Requested int64
	Remaining int64
}

func (e *InsufficientRemainingError) Error() string {
	return fmt.Sprintf("payment of %d exceeds remaining amount %d", e.Requested, e.Remaining)
}
