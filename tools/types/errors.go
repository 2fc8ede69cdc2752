package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound is matched by every NotFoundError.
var ErrToolNotFound = errors.New("tool not found")

// NotFoundError reports an invocation of a name nothing is registered under.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrToolNotFound)
}

// ArgumentMismatchError reports arguments that could not be bound to a tool's
// parameters. Its text describes caller mistakes only and is safe to return.
type ArgumentMismatchError struct {
	Tool       string
	Reason     string
	Missing    []string
	Unexpected []string
	Required   []string
	Accepted   []string
	Received   []string
}

func (e *ArgumentMismatchError) Error() string {
	if e == nil {
		return "argument mismatch"
	}
	if e.Tool == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Reason)
}

// ExecutionError wraps a failure raised by a tool body. Err holds the real
// detail for logs; callers outside the process only see an opaque code.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	if e == nil || e.Err == nil {
		return "tool execution failed"
	}
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func NewArgumentMismatch(tool string, missing, unexpected, required, accepted, received []string) *ArgumentMismatchError {
	var reasons []string
	if len(unexpected) > 0 {
		reasons = append(reasons, "unexpected parameters: "+strings.Join(unexpected, ", "))
	}
	if len(missing) > 0 {
		reasons = append(reasons, "missing required parameters: "+strings.Join(missing, ", "))
	}
	return &ArgumentMismatchError{
		Tool:       tool,
		Reason:     strings.Join(reasons, "; "),
		Missing:    missing,
		Unexpected: unexpected,
		Required:   required,
		Accepted:   accepted,
		Received:   received,
	}
}

func AsArgumentMismatch(err error) (*ArgumentMismatchError, bool) {
	if err == nil {
		return nil, false
	}
	var mismatch *ArgumentMismatchError
	if errors.As(err, &mismatch) {
		return mismatch, true
	}
	return nil, false
}

func AsExecutionError(err error) (*ExecutionError, bool) {
	if err == nil {
		return nil, false
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr, true
	}
	return nil, false
}
