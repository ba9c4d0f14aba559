package training

import "fmt"

// TrainingError aborts training before any model is produced.
type TrainingError struct {
    Reason string
    Err    error
}

func (e *TrainingError) Error() string {
    if e.Err != nil { return fmt.Sprintf("training: %s: %v", e.Reason, e.Err) }
    return "training: " + e.Reason
}

func (e *TrainingError) Unwrap() error { return e.Err }

func failf(format string, args ...any) error {
    return &TrainingError{Reason: fmt.Sprintf(format, args...)}
}
