package store

import "errors"

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicatePick means the participant already holds a pick in
	// the contest. The unique index on (contest_id, user_id) is the
	// enforcement; a duplicate is never silently overwritten.
	ErrDuplicatePick = errors.New("participant already joined this contest")
)
