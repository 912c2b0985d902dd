package apperr

import "errors"

// ValidationError is a rejected user input. It is a normal outcome the caller
// must check, carrying a message that can be shown to the user as-is.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a new ValidationError.
func Validation(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// AsValidation extracts the ValidationError from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
