package store

import (
	"context"
	"errors"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/pkg/idx"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is returned when an insert violates a uniqueness
	// constraint, typically two writers racing to register the same user.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the persistence root. Each repository owns one aggregate; there
// are no cross-repository transactions, callers resolve write races through
// ErrAlreadyExists instead.
type Store interface {
	Users() Users
	Sessions() Sessions

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations() error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Users persists registered and pending system users.
type Users interface {
	GetByID(ctx context.Context, id idx.ID) (domain.User, error)
	GetByMetaID(ctx context.Context, metaID string) (domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID string) (domain.User, error)
	GetByViberID(ctx context.Context, viberID string) (domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (domain.User, error)

	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error

	// TouchLastAccess stamps the user's last access time without rewriting
	// the rest of the row.
	TouchLastAccess(ctx context.Context, id idx.ID, at time.Time) error
}

// Sessions persists login sessions, one per username.
type Sessions interface {
	GetByUsername(ctx context.Context, username string) (domain.Session, error)

	Create(ctx context.Context, s domain.Session) error

	// Upsert replaces the session for s.Username, creating it when absent.
	Upsert(ctx context.Context, s domain.Session) error
}
