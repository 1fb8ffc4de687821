package tools

import (
	"errors"
	"fmt"
)

// ErrUnknownTool matches any *UnknownToolError via errors.Is
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError is returned when a call names a tool absent from the registry
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool '%s' not found", e.Name)
}

func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// ExecutionFault records a tool that failed while running.
// It is surfaced to the model as a tool result, not returned to the caller.
type ExecutionFault struct {
	Tool   string
	CallID string
	Err    error
}

func (f *ExecutionFault) Error() string {
	return fmt.Sprintf("tool %s (call %s) failed: %v", f.Tool, f.CallID, f.Err)
}

func (f *ExecutionFault) Unwrap() error {
	return f.Err
}
