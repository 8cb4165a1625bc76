package domain

import (
	"time"

	"github.com/vincejv/fpi-login-api/pkg/idx"
)

// UserStatus is the registration/verification state of a system user.
// PENDING users have registered through a trusted channel but have not been
// verified by support yet; only VERIFIED users may hold sessions.
type UserStatus string

const (
	StatusPending     UserStatus = "PENDING"
	StatusVerified    UserStatus = "VERIFIED"
	StatusBlocked     UserStatus = "BLOCKED"
	StatusDeactivated UserStatus = "DEACTIVATED"
)

// ServiceStatus records whether the user has opted in to the messaging
// service. New registrations start opted out.
type ServiceStatus string

const (
	SvcOptIn  ServiceStatus = "OPT_IN"
	SvcOptOut ServiceStatus = "OPT_OUT"
)

// User is an authorized system user, reachable through one or more external
// identities. Identity attributes are set once at registration; afterwards
// only status and the access/update timestamps change.
type User struct {
	ID idx.ID

	// External identity attributes. At least one is set.
	MetaID     string
	TelegramID string
	ViberID    string
	Mobile     string

	Status    UserStatus
	SvcStatus ServiceStatus

	RegistrationDate time.Time
	VerifiedDate     *time.Time
	LastAccess       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
