package llm

import "fmt"

// ExtractionError marks a failed extraction attempt: transport failure,
// empty completion, or a completion with no usable JSON. It is fatal to the
// single attempt that raised it, never to the caller; the deadline resolver
// converts it into its deterministic fallback.
type ExtractionError struct {
	Stage string // "call", "empty", "decode"
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("llm extraction (%s): %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
