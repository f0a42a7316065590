package behavior

import (
	"errors"
	"fmt"
)

// DomainError is a recoverable, user-caused evaluation failure: division by
// zero, operand shapes an operator does not support, and the like. The
// engine attaches it to the offending node and stops the run without
// treating it as a bug.
type DomainError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Domainf builds a DomainError with a formatted message.
func Domainf(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err is (or wraps) a DomainError, returning it.
func IsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
