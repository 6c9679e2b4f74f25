package models

import (
	"fmt"
	"strings"
)

// FilterField names one of the independent substring constraints.
type FilterField string

const (
	FilterByName  FilterField = "name"
	FilterByEmail FilterField = "email"
	FilterByPhone FilterField = "phone"
)

var FilterFields = []FilterField{FilterByName, FilterByEmail, FilterByPhone}

func ParseFilterField(s string) (FilterField, error) {
	f := FilterField(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FilterFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilterField, s)
}

// Filter holds the three constraints. An empty value means no constraint;
// the store ANDs the non-empty ones.
type Filter struct {
	Name  string
	Email string
	Phone string
}

// With returns a copy of f with one field replaced.
func (f Filter) With(field FilterField, value string) Filter {
	switch field {
	case FilterByName:
		f.Name = value
	case FilterByEmail:
		f.Email = value
	case FilterByPhone:
		f.Phone = value
	}
	return f
}

func (f Filter) Get(field FilterField) string {
	switch field {
	case FilterByName:
		return f.Name
	case FilterByEmail:
		return f.Email
	case FilterByPhone:
		return f.Phone
	}
	return ""
}

func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

func (f Filter) String() string {
	parts := make([]string, 0, len(FilterFields))
	for _, field := range FilterFields {
		if v := f.Get(field); v != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", field, v))
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
