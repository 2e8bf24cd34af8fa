package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLine is returned for a catalog line slug that is not configured
	ErrUnknownLine = errors.New("unknown catalog line")
	// ErrProductNotFound is returned when a code is absent from a catalog snapshot
	ErrProductNotFound = errors.New("product not found")
	// ErrEmptyCart is returned when checking out a cart with no lines
	ErrEmptyCart = errors.New("cart is empty")
)

// FetchError reports a failed download of a catalog source.
// The core never retries; callers may retry the whole fetch.
type FetchError struct {
	SourceID string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch catalog source %s: %v", e.SourceID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a document that is not a readable spreadsheet
type ParseError struct {
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse catalog document %s: %v", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
