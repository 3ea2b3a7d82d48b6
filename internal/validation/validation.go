// Package validation holds the input schemas checked before any backend
// call is made. Validators are pure functions of their input.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"polly-api/internal/domain"
	"polly-api/pkg/errors"
)

// invalidFormMessage is deliberately generic: field-level detail is logged
// by callers but never returned to the form.
const invalidFormMessage = "Invalid form data"

var validate = validator.New(validator.WithRequiredStructEnabled())

// SignUp validates a credential sign-up submission.
func SignUp(req *domain.SignUpRequest) *errors.AppError {
	if err := validate.Struct(req); err != nil {
		return errors.NewValidationError(invalidFormMessage, fieldDetails(err))
	}
	return nil
}

// SignIn validates a credential sign-in submission.
func SignIn(req *domain.SignInRequest) *errors.AppError {
	if err := validate.Struct(req); err != nil {
		return errors.NewValidationError(invalidFormMessage, fieldDetails(err))
	}
	return nil
}

// CreatePoll validates a poll creation submission and returns the surviving
// option texts. Blank entries are dropped after trimming rather than
// rejected; at least two must survive.
func CreatePoll(req *domain.CreatePollRequest) ([]string, *errors.AppError) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewValidationError("Poll title is required", nil)
	}

	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}

	if len(options) < 2 {
		return nil, errors.NewValidationError("At least two options are required", nil)
	}

	return options, nil
}

// fieldDetails flattens validator errors into the AppError details map.
func fieldDetails(err error) map[string]interface{} {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
