package validate

import "fmt"

// Validation error codes (E200-E299)
const (
	ErrNameEmpty      = "E201" // name is required
	ErrNameTooLong    = "E202" // name exceeds MaxNameLength runes
	ErrNameExists     = "E203" // name collides with an existing record
	ErrScoreNotNumber = "E204" // score does not parse as a finite number
	ErrScoreNegative  = "E205" // score below zero
	ErrScoreTooHigh   = "E206" // score above the current max score
	ErrPincodeEmpty   = "E207" // pincode is required
	ErrPincodeFormat  = "E208" // pincode must be digits only, min 3
	ErrMaxNotPositive = "E209" // max score must be a positive number
	ErrMaxBelowScore  = "E210" // max score below a recorded score
)

// Error is a validation failure for a single field.
type Error struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

func newError(field, code, message string) *Error {
	return &Error{Field: field, Code: code, Message: message}
}

// Errors is a collection of validation errors.
type Errors []*Error

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e[0].Error(), len(e)-1)
}

// Add appends err if it is a non-nil *Error.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(*Error); ok {
		*e = append(*e, ve)
		return
	}
	*e = append(*e, newError("unknown", "E200", err.Error()))
}

// Err returns nil when the collection is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
