// Package store persists users and notes in a SQL database. Note rows are only
// reachable through an owner scope, so every note query filters on user_id.
package store

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
