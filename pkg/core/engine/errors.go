package engine

import "errors"

// The engine distinguishes two fault classes, both fatal to the current
// Solve call. Scheduling infeasibility is never an error: an
// unplaceable patient is recorded with no admission day and scored
// through the hard/soft constraints instead.
var (
	// ErrUnknownEntity marks a data-consistency fault: the encoding or
	// an internal cross-reference names a patient, surgeon, room,
	// theater or nurse that does not exist in the problem definition.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrCommitConflict marks a check/commit inconsistency: a resource
	// was exhausted while committing an assignment whose availability
	// check had already passed. It indicates an engine defect and must
	// not be absorbed into a constraint count.
	ErrCommitConflict = errors.New("commit conflict")
)
