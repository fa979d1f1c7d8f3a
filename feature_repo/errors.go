package feature_repo

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrMalformedData = errors.New("malformed feature collection")

	// ErrEmptyResult is a warning: the fetch worked but nothing survived
	// filtering, so there is nothing to draw.
	ErrEmptyResult = errors.New("no features matched")
)

type NotFoundError struct {
	ResourceId string
	StatusCode int
	Err        error
}

func (e *NotFoundError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("resource '%s' not found: http status %d", e.ResourceId, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("resource '%s' not found: %v", e.ResourceId, e.Err)
	}
	return fmt.Sprintf("resource '%s' not found", e.ResourceId)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

type MalformedDataError struct {
	ResourceId string
	Err        error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("resource '%s' is not a feature collection: %v", e.ResourceId, e.Err)
}

func (e *MalformedDataError) Is(target error) bool {
	return target == ErrMalformedData
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}

type EmptyResultWarning struct {
	ResourceId string
	Total      int
}

func (e *EmptyResultWarning) Error() string {
	return fmt.Sprintf("none of the %d feature(s) in '%s' matched the allowed names", e.Total, e.ResourceId)
}

func (e *EmptyResultWarning) Is(target error) bool {
	return target == ErrEmptyResult
}

// ErrorKind names the class of a fetch error for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedData):
		return "malformed"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
