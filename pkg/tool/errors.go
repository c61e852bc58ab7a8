package tool

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CodeBadRequest indicates the tool rejected the invocation itself.
	CodeBadRequest = 400

	// CodeNotFound indicates the queried resource does not exist. This is
	// the distinguished signal that a delete has finished taking effect.
	CodeNotFound = 404

	// CodeInternal is used for failures that don't map to anything more
	// specific.
	CodeInternal = 500
)

// CodedError is an error from an external tool invocation, classified with
// an HTTP-like status code.
type CodedError struct {
	Code   int
	Output string
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	return fmt.Sprintf("tool error (code %d): %s", e.Code, e.Output)
}

// IsNotFound returns whether the argument error indicates that the queried
// resource does not exist.
func IsNotFound(err error) bool {
	codedErr := &CodedError{}
	if errors.As(err, &codedErr) {
		return codedErr.Code == CodeNotFound
	}
	return false
}

// codedFromOutput classifies a failed invocation from its combined output.
// kubectl reports missing resources as 'Error from server (NotFound): ...';
// helm reports 'Error: release: not found'.
func codedFromOutput(output []byte, err error) error {
	text := string(output)

	if strings.Contains(text, "(NotFound)") ||
		strings.Contains(strings.ToLower(text), "not found") {
		return &CodedError{
			Code:   CodeNotFound,
			Output: strings.TrimSpace(text),
		}
	}

	return &CodedError{
		Code:   CodeInternal,
		Output: fmt.Sprintf("%+v: %s", err, strings.TrimSpace(text)),
	}
}
