package assessments

import "errors"

var (
	// ErrNotFound indicates the session has no assessment state yet.
	ErrNotFound = errors.New("assessment not found")
	// ErrNoAnswers indicates a submit without any usable answers.
	ErrNoAnswers = errors.New("no valid answers found")
	// ErrNoMatchingQuestions indicates none of the answered ids exist in the
	// question pool, typically a stale client after a pool change.
	ErrNoMatchingQuestions = errors.New("no matching question ids found, restart the test")
)
