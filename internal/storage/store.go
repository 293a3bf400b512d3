// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/nvasko/gatherly/internal/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for event, expense and user persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// a hosted document store, etc.) without changing the service layer, and
// lets tests substitute an in-memory or temp-file store.
type Store interface {
	// CreateEvent persists a new event. The event.ID field is populated
	// by the store when empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID.
	// Returns ErrNotFound if the event does not exist.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// UpdateEvent applies mutate to the event inside a single storage
	// transaction: the current document is re-read, mutated, and written
	// back atomically with respect to other concurrent updates of the
	// same event. Returning an error from mutate aborts the transaction
	// and surfaces that error unchanged. Returns ErrNotFound if the
	// event does not exist at transaction time.
	UpdateEvent(ctx context.Context, eventID string, mutate func(*models.Event) error) error

	// DeleteEvent removes an event and, transitively, its expense sheet.
	// Returns ErrNotFound if the event does not exist.
	DeleteEvent(ctx context.Context, eventID string) error

	// ListEventsByMember returns events where the user is an accepted member.
	ListEventsByMember(ctx context.Context, userID string) ([]models.Event, error)

	// ListEventsByInvitee returns events where the user has a pending invite.
	ListEventsByInvitee(ctx context.Context, userID string) ([]models.Event, error)

	// ListEventsByCreator returns events the user created.
	ListEventsByCreator(ctx context.Context, userID string) ([]models.Event, error)

	// WatchInvitedEvents delivers the full current pending-invitation
	// list for the user on every underlying event change, starting with
	// the current state. Delivery stops and the channel closes when the
	// returned cancel function is called or ctx is done.
	WatchInvitedEvents(ctx context.Context, userID string) (<-chan []models.Event, func(), error)

	// UpsertExpense persists the expense sheet for its event, creating
	// or overwriting the single document keyed by EventID.
	UpsertExpense(ctx context.Context, expense *models.Expense) error

	// GetExpenseByEvent retrieves the expense sheet for an event.
	// Returns ErrNotFound when no sheet has been saved yet.
	GetExpenseByEvent(ctx context.Context, eventID string) (*models.Expense, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns nil, nil when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns nil, nil when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users, keyed by ID. IDs that do
	// not resolve are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// ListUsers returns all registered users, for the invite picker.
	ListUsers(ctx context.Context) ([]models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
