package models

import (
	"regexp"
	"strings"
)

// Form field names used as FieldErrors keys.
const (
	FieldName     = "name"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldZipcode  = "zipcode"
)

// FormFields lists the creation form fields in prompt order.
var FormFields = []string{FieldName, FieldUsername, FieldEmail, FieldPhone, FieldZipcode}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+7 \d{3} \d{3}-\d{2}-\d{2}$`)
)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range FormFields {
		if msg, ok := e[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrValidation
}

// Fields returns the invalid field names in form order.
func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, f := range FormFields {
		if _, ok := e[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// ValidateNewUser checks the creation form. It returns nil when the form is
// valid. Nothing here touches the network.
func ValidateNewUser(n NewUser) FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateField(FieldName, n.Name); msg != "" {
		errs[FieldName] = msg
	}
	if msg := ValidateField(FieldUsername, n.Username); msg != "" {
		errs[FieldUsername] = msg
	}
	if msg := ValidateField(FieldEmail, n.Email); msg != "" {
		errs[FieldEmail] = msg
	}
	if msg := ValidateField(FieldPhone, n.Phone); msg != "" {
		errs[FieldPhone] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateField returns the message for a single field value, or "".
func ValidateField(field, value string) string {
	switch field {
	case FieldName:
		if strings.TrimSpace(value) == "" {
			return "name is required"
		}
	case FieldUsername:
		if strings.TrimSpace(value) == "" {
			return "username is required"
		}
	case FieldEmail:
		if strings.TrimSpace(value) == "" {
			return "email is required"
		}
		if !emailRe.MatchString(value) {
			return "invalid email format"
		}
	case FieldPhone:
		if strings.TrimSpace(value) == "" {
			return "phone is required"
		}
		if !phoneRe.MatchString(value) {
			return "format: +7 999 999-99-99"
		}
	}
	return ""
}
