package ai

import "errors"

var (
	// ErrAIUnavailable is returned when the model could not be reached
	ErrAIUnavailable = errors.New("ai unavailable")
	// ErrParseFailed is returned when the model answered but nothing was recognized
	ErrParseFailed = errors.New("no information found in ai response")
	// ErrEvaluationUndetermined is returned when the remote judgement failed.
	// It must not be treated as an incorrect answer.
	ErrEvaluationUndetermined = errors.New("evaluation undetermined")
	// ErrTimeout is returned when the caller context expired before the model answered
	ErrTimeout = errors.New("ai request timed out")
	// ErrEmptyWord is returned for blank queries
	ErrEmptyWord = errors.New("empty word")
)
