package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneClean = regexp.MustCompile(`[\s\-\(\)]+`)
	// Indian mobile numbers: +91 / 91 / 0 prefix, 10 digits starting 6-9
	mobileRegex = regexp.MustCompile(`^(\+91|91|0)?[6-9]\d{9}$`)

	registerOnce sync.Once
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, ", ")
}

// RegisterValidations adds the custom rules to gin's validator engine. It must run before
// any request type tagged with them is bound.
func RegisterValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
				return IsPhoneNumber(fl.Field().String())
			})
		}
	})
}

// ValidateStruct checks s against its `binding` tags with the engine gin uses for request
// bodies, so a payload built in code passes the same rules as one bound from JSON.
// Nested fields are reported by path, e.g. MemberList[1].Email.
func ValidateStruct(s interface{}) error {
	RegisterValidations()

	err := binding.Validator.ValidateStruct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.StructNamespace()),
			Message: message(fe),
		})
	}
	return out
}

// fieldPath drops the leading struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, path, ok := strings.Cut(namespace, "."); ok {
		return path
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid mobile number"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}

// IsPhoneNumber checks if a string looks like a mobile number
func IsPhoneNumber(phone string) bool {
	return mobileRegex.MatchString(phoneClean.ReplaceAllString(phone, ""))
}
