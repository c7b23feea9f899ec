// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/okanele/peoplebook/internal/models"
)

const (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound Error = "not found"
	// ErrUsernameTaken is returned when creating a user with a username
	// that already exists.
	ErrUsernameTaken Error = "username already taken"
)

// Error is a sentinel error type returned by storage implementations.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// PersonFilter narrows ListPeople results. A nil field means "no filter".
type PersonFilter struct {
	// Age filters by exact age equality.
	Age *int
}

// Users defines the operations over login accounts.
type Users interface {
	// GetUserByName returns the user with the given username, or
	// [ErrNotFound] if no such account exists.
	GetUserByName(ctx context.Context, username string) (*models.User, error)

	// CreateUser persists a new user. The user.ID field is populated by the
	// store. Returns [ErrUsernameTaken] if the username is already in use.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdatePassword overwrites the password hash for the given user ID.
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	// CountUsers returns the number of accounts. Used to decide whether the
	// default admin account needs seeding.
	CountUsers(ctx context.Context) (int64, error)
}

// People defines the operations over person entries.
type People interface {
	// ListPeople returns entries in insertion order, optionally filtered.
	ListPeople(ctx context.Context, filter PersonFilter) ([]models.Person, error)

	// GetPerson returns the entry with the given ID, or [ErrNotFound].
	GetPerson(ctx context.Context, id int64) (*models.Person, error)

	// CreatePerson persists a new entry. The person.ID and person.UpdatedAt
	// fields are populated by the store.
	CreatePerson(ctx context.Context, person *models.Person) error

	// UpdatePerson overwrites name, age, place, photo and updated_by for
	// the entry with person.ID, refreshing updated_at. Returns
	// [ErrNotFound] if the entry does not exist.
	UpdatePerson(ctx context.Context, person *models.Person) error

	// DeletePerson removes the entry unconditionally. Deleting a missing
	// entry is not an error.
	DeletePerson(ctx context.Context, id int64) error
}

// Logs defines the operations over the append-only audit log.
type Logs interface {
	// AppendLog inserts an audit record. The entry.ID and entry.Timestamp
	// fields are populated by the store.
	AppendLog(ctx context.Context, entry *models.LogEntry) error

	// ListLogs returns all audit records, newest first.
	ListLogs(ctx context.Context) ([]models.LogEntry, error)
}

// Store is the combined interface implemented by each storage backend.
// This abstraction lets the embedded (SQLite) and networked (PostgreSQL)
// backends share a single set of handlers; the backend is selected by
// configuration.
type Store interface {
	Users
	People
	Logs

	// Close releases any resources held by the store.
	Close() error
}
