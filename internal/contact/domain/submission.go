package domain

import (
	"regexp"
	"sort"
	"strings"
)

// Field names used as keys in FieldErrors.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RawSubmission is the untrusted form input. A nil field was either absent
// or not a string in the request body.
type RawSubmission struct {
	Name    *string
	Email   *string
	Phone   *string
	Message *string
}

// Submission is a validated, trimmed contact request.
type Submission struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// HasPhone reports whether the visitor left a phone number.
func (s Submission) HasPhone() bool {
	return s.Phone != ""
}

// FieldErrors maps a field name to a human readable problem.
type FieldErrors map[string]string

// Fields returns the failing field names in stable order.
func (e FieldErrors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationResult is either a valid Submission or a set of FieldErrors,
// never both.
type ValidationResult struct {
	submission Submission
	errors     FieldErrors
}

// Valid reports whether the input passed validation.
func (r ValidationResult) Valid() bool {
	return len(r.errors) == 0
}

// Submission returns the normalized submission. ok is false for invalid input.
func (r ValidationResult) Submission() (Submission, bool) {
	if !r.Valid() {
		return Submission{}, false
	}
	return r.submission, true
}

// Errors returns a copy of the field errors; empty for valid input.
func (r ValidationResult) Errors() FieldErrors {
	out := make(FieldErrors, len(r.errors))
	for k, v := range r.errors {
		out[k] = v
	}
	return out
}

// Validate checks every field and collects all problems instead of stopping
// at the first one. It has no side effects.
func Validate(raw RawSubmission, lang Language) ValidationResult {
	msgs := validationMessagesFor(lang)
	errs := FieldErrors{}

	name := trimmed(raw.Name)
	if name == "" {
		errs[FieldName] = msgs.nameRequired
	}

	email := trimmed(raw.Email)
	switch {
	case email == "":
		errs[FieldEmail] = msgs.emailRequired
	case !emailPattern.MatchString(*raw.Email):
		errs[FieldEmail] = msgs.emailInvalid
	}

	message := trimmed(raw.Message)
	if message == "" {
		errs[FieldMessage] = msgs.messageRequired
	}

	if len(errs) > 0 {
		return ValidationResult{errors: errs}
	}

	return ValidationResult{submission: Submission{
		Name:    name,
		Email:   email,
		Phone:   trimmed(raw.Phone),
		Message: message,
	}}
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
