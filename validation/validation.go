package validation

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Violations struct {
	Errors map[string][]error
}

func (violations Violations) MarshalJSON() ([]byte, error) {
	errors := make(map[string][]string)
	for fieldName, fieldErrors := range violations.Errors {
		errors[fieldName] = make([]string, len(fieldErrors))
		for index, fieldError := range fieldErrors {
			errors[fieldName][index] = fieldError.Error()
		}
	}

	return json.Marshal(map[string]map[string][]string{
		"errors": errors,
	})
}

func (violations Violations) IsEmpty() bool {
	return len(violations.Errors) == 0
}

// Fields lists the fields with at least one violation, sorted.
func (violations Violations) Fields() []string {
	fields := make([]string, 0, len(violations.Errors))
	for field := range violations.Errors {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// ValidateForm checks every field named in rules against its rules. A field
// absent from form is validated as the empty string. Supported rules are
// "required", "min:<n>", "max:<n>" (length in characters), "email" and
// "alphanum".
func ValidateForm(form map[string]string, rules map[string][]string) Violations {
	var violations Violations
	violations.Errors = make(map[string][]error)

	for fieldName, fieldRules := range rules {
		value := form[fieldName]

		var errorCollection []error
		for _, fieldRule := range fieldRules {
			if err := validate(fieldRule, fieldName, value); err != nil {
				errorCollection = append(errorCollection, err)
			}
		}

		if len(errorCollection) != 0 {
			violations.Errors[fieldName] = errorCollection
		}
	}

	return violations
}

func validate(rule string, name string, value string) error {
	rule, param, _ := strings.Cut(rule, ":")

	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", name)
		}
	case "min":
		size, err := strconv.Atoi(param)
		if err != nil {
			return fmt.Errorf("invalid validation rule :: min:%s", param)
		}
		if utf8.RuneCountInString(value) < size {
			return fmt.Errorf("%s must be at least %d characters", name, size)
		}
	case "max":
		size, err := strconv.Atoi(param)
		if err != nil {
			return fmt.Errorf("invalid validation rule :: max:%s", param)
		}
		if utf8.RuneCountInString(value) > size {
			return fmt.Errorf("%s must be at most %d characters", name, size)
		}
	case "email":
		if value == "" {
			return nil
		}
		if address, err := mail.ParseAddress(value); err != nil || address.Address != value {
			return fmt.Errorf("%s must be a valid email address", name)
		}
	case "alphanum":
		for _, r := range value {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Errorf("%s may only contain letters and digits", name)
			}
		}
	default:
		return fmt.Errorf("invalid validation rule :: %s", rule)
	}

	return nil
}
