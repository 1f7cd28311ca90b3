// Package response defines the JSON envelope returned by the HTTP API.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Response{
	Status:  StatusError,
	Message: "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:  StatusError,
	Message: "Invalid request body.",
}

var ResourceNotFoundResponse = Response{
	Status:  StatusError,
	Message: "The requested resource was not found.",
}

var ConflictResponse = Response{
	Status:  StatusError,
	Message: "The resource could not be created due to a conflict. Please retry.",
}

// ServerErrorResponse deliberately carries no diagnostic detail.
var ServerErrorResponse = Response{
	Status:  StatusError,
	Message: "An internal server error occurred. Please try again later.",
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

// ValidationErrorResponse builds a client error response with one detail per
// failed field.
func ValidationErrorResponse(err error) Response {
	resp := Response{
		Status:  StatusError,
		Message: "Validation failed.",
	}

	for _, e := range getValidationErrors(err) {
		resp.Details = append(resp.Details, e)
	}

	return resp
}

// FieldErrorResponse builds a client error response for a single offending
// field.
func FieldErrorResponse(field, issue string) Response {
	return Response{
		Status:  StatusError,
		Message: "Validation failed.",
		Details: []any{
			validationError{Field: field, Issue: issue},
		},
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	errs := make([]validationError, 0, len(validationErrs))

	for _, e := range validationErrs {
		issue := fmt.Sprintf("Invalid %s.", e.Tag())

		switch e.Tag() {
		case "required":
			issue = "This field is required."
		case "url":
			issue = "Invalid url."
		}

		errs = append(errs, validationError{
			Field: e.Field(),
			Value: e.Value(),
			Issue: issue,
		})
	}

	return errs
}
