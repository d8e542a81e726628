// Package validation holds the intake-form field validators. They run before
// any database write; a failing result blocks the request with a per-field
// error message.
package validation

import (
	"regexp"
	"strings"
)

// Result is the outcome of validating a single field. Formatted carries the
// canonical display form for fields that have one (currently phone numbers).
type Result struct {
	Valid     bool
	Error     string
	Formatted string
}

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitPattern = regexp.MustCompile(`\d`)
)

// ValidateName requires a trimmed length of at least 2.
func ValidateName(raw string) Result {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Result{Error: "name is required"}
	}
	if len(name) < 2 {
		return Result{Error: "name must be at least 2 characters"}
	}
	return Result{Valid: true, Formatted: name}
}

// ValidatePhone accepts digits, spaces, dashes, plus signs and parentheses,
// and requires at least 7 digits. Formatted is the canonical display form.
func ValidatePhone(raw string) Result {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return Result{Error: "phone is required"}
	}
	if !phonePattern.MatchString(phone) {
		return Result{Error: "phone contains invalid characters"}
	}
	digits := digitPattern.FindAllString(phone, -1)
	if len(digits) < 7 {
		return Result{Error: "phone must contain at least 7 digits"}
	}
	return Result{Valid: true, Formatted: FormatPhone(phone)}
}

// FormatPhone normalizes a raw phone string to a display form: a leading +
// is kept, everything but digits is dropped, and digits are grouped as
// 3-3-rest (e.g. "072 345-6789" -> "072 345 6789").
func FormatPhone(raw string) string {
	raw = strings.TrimSpace(raw)
	prefix := ""
	if strings.HasPrefix(raw, "+") {
		prefix = "+"
	}
	digits := strings.Join(digitPattern.FindAllString(raw, -1), "")
	if len(digits) <= 3 {
		return prefix + digits
	}
	if len(digits) <= 6 {
		return prefix + digits[:3] + " " + digits[3:]
	}
	return prefix + digits[:3] + " " + digits[3:6] + " " + digits[6:]
}

// ValidateEmail validates local@domain.tld. Email is optional: an empty
// string is valid.
func ValidateEmail(raw string) Result {
	email := strings.TrimSpace(raw)
	if email == "" {
		return Result{Valid: true}
	}
	if !emailPattern.MatchString(email) {
		return Result{Error: "email is not valid"}
	}
	return Result{Valid: true, Formatted: strings.ToLower(email)}
}

// ValidateSubject requires a trimmed length between 5 and 200.
func ValidateSubject(raw string) Result {
	subject := strings.TrimSpace(raw)
	if len(subject) < 5 {
		return Result{Error: "subject must be at least 5 characters"}
	}
	if len(subject) > 200 {
		return Result{Error: "subject must be at most 200 characters"}
	}
	return Result{Valid: true, Formatted: subject}
}

// ValidateDescription requires a trimmed length between 20 and 2000.
func ValidateDescription(raw string) Result {
	desc := strings.TrimSpace(raw)
	if len(desc) < 20 {
		return Result{Error: "description must be at least 20 characters"}
	}
	if len(desc) > 2000 {
		return Result{Error: "description must be at most 2000 characters"}
	}
	return Result{Valid: true, Formatted: desc}
}
