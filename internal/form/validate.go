// Package form validates user-entered forms and reports one message per
// offending field, worded as the storefront shows it inline.
package form

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var messages = map[string]string{
	"name.required":    "Name is required",
	"phone.required":   "Phone number is required",
	"phone.len":        "Please enter a valid 10-digit phone number",
	"phone.number":     "Please enter a valid 10-digit phone number",
	"address.required": "Address is required",
	"email.required":   "Email is required",
	"email.email":      "Please enter a valid email address",
	"message.required": "Message is required",
}

// ValidationError maps a form field to the message shown next to it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Validate checks the validate tags of the struct v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		if _, ok := fields[name]; ok {
			continue
		}
		msg, ok := messages[name+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		fields[name] = msg
	}
	return &ValidationError{Fields: fields}
}
