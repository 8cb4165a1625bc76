package domain

import (
	"time"

	"github.com/vincejv/fpi-login-api/pkg/idx"
)

// Session is an established login session. Usernames are unique: the trusted
// flow keys sessions by the owning user's ID, the password flow by the
// caller-supplied username.
type Session struct {
	ID       idx.ID
	Username string

	// PasswordHash is the bcrypt hash of the credential that established the
	// session. The plaintext is never stored.
	PasswordHash []byte

	AccessToken  string
	RefreshToken string

	// TokenExpiry is when the tokens should be considered expired, already
	// reduced by the configured grace period.
	TokenExpiry time.Time

	// Roles are the realm roles the authorization server embedded in the
	// access token.
	Roles []string

	// Client metadata, recorded for password-form logins only.
	IPAddress string
	UserAgent string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStatus tags the outcome of a trusted-identity login.
type SessionStatus string

const (
	SessionCreatedUser         SessionStatus = "CREATED_USER"
	SessionEstablished         SessionStatus = "ESTABLISHED"
	SessionPendingVerification SessionStatus = "PENDING_VERIFICATION"
	SessionRejected            SessionStatus = "REJECTED"
)

// SessionResult is the transient outcome handed back to the webhook caller.
// It is never persisted; AccessToken and TokenExpiry are only populated when
// Status is SessionEstablished.
type SessionResult struct {
	Status      SessionStatus
	Message     string
	AccessToken string
	TokenExpiry time.Time
}
