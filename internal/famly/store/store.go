package store

import (
	"context"
	"errors"

	"github.com/famlyapp/famly/internal/famly/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep the surface tidy; multi-step
// membership transitions must go through Tx/WithTx so the precondition check
// and the mutation are never separable by an interleaved operation.
type Store interface {
	Users() Users
	Families() Families

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. This is the recommended way to run
	// membership transitions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by the case-folded email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// SetMembership updates family_id and role together and bumps
	// updated_at. familyID == nil clears the membership.
	SetMembership(ctx context.Context, userID string, familyID *string, role domain.Role) error

	// ListFamilyMembers returns all users whose family_id matches, ordered
	// by creation date.
	ListFamilyMembers(ctx context.Context, familyID string) ([]domain.User, error)

	// CountFamilyMembers returns the number of users in the family.
	CountFamilyMembers(ctx context.Context, familyID string) (int, error)
}

type Families interface {
	// GetFamilyByID returns a family by id.
	GetFamilyByID(ctx context.Context, id string) (domain.Family, error)

	// GetFamilyByCode matches the code case-insensitively.
	GetFamilyByCode(ctx context.Context, code string) (domain.Family, error)

	// CodeExists reports whether any family already holds the code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// CreateFamily inserts a new family. Returns ErrAlreadyExists when the
	// code collides with a concurrent insert (UNIQUE index backstop).
	CreateFamily(ctx context.Context, f domain.Family) error
}
