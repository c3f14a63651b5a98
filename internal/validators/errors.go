package validators

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
)

// FieldError is one failed rule on one input field.
type FieldError struct {
	// Field is the JSON name of the offending field.
	Field string
	// Message is the user-facing description of the failure.
	Message string
}

// ValidationErrors is returned by [Validator.Validate] when one or more
// fields break their rules. Its messages are safe to show to clients.
type ValidationErrors []FieldError

// Error joins the field messages with ". ".
func (ve ValidationErrors) Error() string {
	return strings.Join(ve.Messages(), ". ")
}

// Messages returns the field messages in declaration order.
func (ve ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}
