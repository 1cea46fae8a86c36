package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Rule is a single validation check. It returns nil when the value passes.
type Rule func() *ValidationError

// Validate runs rules in order and collects every failure.
func Validate(rules ...Rule) ValidationErrors {
	var errs ValidationErrors
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Required fails when value is empty or whitespace only.
func Required(field, value, message string) Rule {
	return func() *ValidationError {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: message}
		}
		return nil
	}
}

// MaxLength fails when value has more than max characters.
// Length is measured in runes, not bytes.
func MaxLength(field, value string, max int, message string) Rule {
	return func() *ValidationError {
		if utf8.RuneCountInString(value) > max {
			return &ValidationError{Field: field, Message: message}
		}
		return nil
	}
}

// Email fails when a non-empty value is not a valid email address.
// Empty values pass; combine with Required to reject them.
func Email(field, value, message string) Rule {
	return func() *ValidationError {
		if value != "" && !IsEmail(value) {
			return &ValidationError{Field: field, Message: message}
		}
		return nil
	}
}
