package service

import "errors"

var (
	// ErrQuizNotFound indicates the requested quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizUnavailable is returned when the quiz is not in active status.
	ErrQuizUnavailable = errors.New("quiz is not available")
	// ErrRetakeNotAllowed is returned when the quiz forbids retakes and the
	// student already has a completed attempt.
	ErrRetakeNotAllowed = errors.New("retake is not allowed for this quiz")
	// ErrAttemptNotFound indicates the attempt id is unknown.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrForbidden is returned when the attempt belongs to another student.
	ErrForbidden = errors.New("attempt does not belong to this student")
	// ErrAlreadySubmitted rejects a second submission of the same attempt.
	ErrAlreadySubmitted = errors.New("attempt has already been submitted")
	// ErrLedgerUpdateFailed wraps failures while folding a graded attempt into
	// the best-score and lifetime-points aggregates. The whole submission
	// transaction rolls back, so resubmitting the attempt is a safe retry.
	ErrLedgerUpdateFailed = errors.New("score ledger update failed")
)
