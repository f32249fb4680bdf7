package repository

import (
	"database/sql"
	"errors"
)

// HandleNotFound maps sql.ErrNoRows onto a nil record so Find* lookups
// report a missing row without an error. Absent users, sessions, clients
// and messages are ordinary outcomes the services branch on.
func HandleNotFound[T any](record *T, err error) (*T, error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return record, nil
}
