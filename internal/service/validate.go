package service

import (
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// requestValidator checks request DTOs with the same binding tags gin uses,
// so a service called outside HTTP gets the same guarantees.
var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

// ErrInvalidRequest is the code of malformed request bodies.
const ErrInvalidRequest = "invalid_request"

func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return apperr.Validation(ErrInvalidRequest, strings.Join(msgs, "; "))
}
