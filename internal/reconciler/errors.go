package reconciler

import "fmt"

// PreconditionError is returned when the declared state cannot be reached
// from the current remote state, e.g. cordoning a server that does not
// exist, or creating one without a secret. No remote write was attempted.
type PreconditionError struct {
	// Identity is the server id the reconciliation was for.
	Identity string
	// Target is the declared lifecycle target.
	Target TargetState
	// Reason is a human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot reconcile server %s to %q: %s", e.Identity, e.Target, e.Reason)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *PreconditionError) Is(target error) bool {
	_, ok := target.(*PreconditionError)
	return ok
}

// ValidationError reports a malformed desired state. It is raised before
// any remote call is made.
type ValidationError struct {
	// Field is the name of the offending field.
	Field string
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
