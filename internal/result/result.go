// Package result provides the return type for read operations that must
// distinguish "nothing found" from "the query failed".
//
// # Usage
//
//	res := repo.GetGenreByID(ctx, id)
//	switch {
//	case res.Failed():
//		log.Printf("lookup failed: %v", res.Err())
//	case res.IsEmpty():
//		// no such genre
//	default:
//		genre := res.Value()
//	}
package result

import "errors"

// Status is the outcome of a read.
type Status int

const (
	StatusFound Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ErrNoReason is used when Failed is called with a nil error.
var ErrNoReason = errors.New("read failed without a reason")

// Result carries a value, an empty marker, or a failure reason. The zero
// value is a found zero T.
type Result[T any] struct {
	value  T
	status Status
	err    error
}

// Found wraps a successfully read value.
func Found[T any](v T) Result[T] {
	return Result[T]{value: v, status: StatusFound}
}

// Empty reports a successful read that matched nothing.
func Empty[T any]() Result[T] {
	return Result[T]{status: StatusEmpty}
}

// Failed reports a read that could not be completed.
func Failed[T any](err error) Result[T] {
	if err == nil {
		err = ErrNoReason
	}
	return Result[T]{status: StatusFailed, err: err}
}

func (r Result[T]) Status() Status { return r.status }

// OK is true only when a value was found.
func (r Result[T]) OK() bool { return r.status == StatusFound }

func (r Result[T]) IsEmpty() bool { return r.status == StatusEmpty }

func (r Result[T]) Failed() bool { return r.status == StatusFailed }

// Err is nil unless the read failed.
func (r Result[T]) Err() error { return r.err }

// Value returns the found value, or the zero T for empty and failed results.
func (r Result[T]) Value() T { return r.value }

// ValueOr returns the found value or fallback.
func (r Result[T]) ValueOr(fallback T) T {
	if r.status != StatusFound {
		return fallback
	}
	return r.value
}
