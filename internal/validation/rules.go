// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/siaa-labs/vault/internal/errors"
)

var (
	// nameRegex constrains namespaces, keys and client IDs to a charset that is
	// safe in URL path segments and audit rows.
	nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Name validates namespace, key, and client identifier segments: they must
// start with an alphanumeric character and may contain dots, dashes, and
// underscores.
var Name = validation.NewStringRuleWithError(
	func(s string) bool {
		return nameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_name_format",
		"must start with an alphanumeric character and contain only alphanumerics, dots, dashes, and underscores",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)
