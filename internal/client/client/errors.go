package client

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrNetwork    = errors.New("network error")
	ErrInvalidURL = errors.New("invalid base url")
)

// StatusError is returned for a response outside the 2xx range.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return ErrNetwork
}

// DeleteError reports which ids of a DeleteMany call were not deleted. It
// always matches ErrNetwork.
type DeleteError struct {
	Failed    map[int64]error
	Requested int
}

func newDeleteError(failed map[int64]error, requested int) *DeleteError {
	return &DeleteError{Failed: failed, Requested: requested}
}

// IDs returns the failed ids in ascending order.
func (e *DeleteError) IDs() []int64 {
	ids := make([]int64, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// causes combines the per-id errors in id order. A missing cause reads as
// ErrNetwork.
func (e *DeleteError) causes() error {
	var errs error
	for _, id := range e.IDs() {
		cause := e.Failed[id]
		if cause == nil {
			cause = ErrNetwork
		}
		errs = multierr.Append(errs, fmt.Errorf("user %d: %w", id, cause))
	}
	return errs
}

func (e *DeleteError) Error() string {
	ids := e.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	msg := fmt.Sprintf("failed to delete %d of %d users", len(ids), e.Requested)
	if len(ids) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (ids %s): %v", msg, strings.Join(parts, ", "), e.causes())
}

func (e *DeleteError) Unwrap() []error {
	return append([]error{ErrNetwork}, multierr.Errors(e.causes())...)
}
