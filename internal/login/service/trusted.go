package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/internal/login/store"
	"github.com/vincejv/fpi-login-api/pkg/authz"
	"github.com/vincejv/fpi-login-api/pkg/cryptox"
	"github.com/vincejv/fpi-login-api/pkg/idx"
	"github.com/vincejv/fpi-login-api/pkg/retryx"
	"github.com/vincejv/fpi-login-api/pkg/slogx"
	"github.com/sethvargo/go-retry"
)

const (
	// maxIssuerAttempts caps transport-level retries against the
	// authorization server before reporting it unavailable.
	maxIssuerAttempts = 5

	msgAccountCreated = "Hi %s! Your FPI account has been created, please wait while we verify your membership"
	msgEstablished    = "Hi %s, we are ready to serve your request"
	msgPending        = "Hi %s, your account is currently being verified by our support team. We will notify you once we have verified your membership"
	msgCustomerCare   = "We cannot process your request right now, please contact customer care for assistance"
)

// TokenIssuer mints access/refresh tokens from the authorization server.
type TokenIssuer interface {
	ObtainToken(ctx context.Context, username, password string) (authz.Grant, error)
}

// TrustedLoginService reconciles identity claims vouched for by a
// pre-authorized webhook relay: it registers unknown users, gates session
// creation on verification status, and establishes sessions against the
// authorization server using the shared trusted key.
type TrustedLoginService struct {
	Store  store.Store
	Issuer TokenIssuer
	Hasher cryptox.Hasher

	// TrustedKey is the shared service credential presented to the
	// authorization server on behalf of verified users.
	TrustedKey string

	// GracePeriod is subtracted from the issuer-reported token lifetime so
	// a stored token is never used right at its expiry boundary.
	GracePeriod time.Duration

	// RetryBase overrides the backoff base delay; zero means the default.
	RetryBase time.Duration

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Authorize runs the full reconciliation for a claim. Duplicate-key races
// with concurrent reconciliations for the same identity are resolved by
// re-running the whole workflow from the lookup, so the loser of an insert
// race converges on the winner's record.
func (s *TrustedLoginService) Authorize(ctx context.Context, claim domain.IdentityClaim) (domain.SessionResult, error) {
	claim = normalizeClaim(claim)
	if lookupKey(claim) == "" {
		return domain.SessionResult{}, fmt.Errorf("%w: no usable identity key for source %s", ErrInvalidClaim, claim.Source)
	}

	var result domain.SessionResult
	err := retry.Do(ctx, retryx.Backoff(s.RetryBase), func(ctx context.Context) error {
		var err error
		result, err = s.reconcile(ctx, claim)
		if errors.Is(err, store.ErrAlreadyExists) {
			slogx.FromContext(ctx).Info("duplicate key during reconciliation, retrying",
				slog.String("source", string(claim.Source)))
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return domain.SessionResult{}, err
	}
	return result, nil
}

func (s *TrustedLoginService) reconcile(ctx context.Context, claim domain.IdentityClaim) (domain.SessionResult, error) {
	now := s.now()

	user, err := s.lookupUser(ctx, claim)
	switch {
	case errors.Is(err, store.ErrNotFound):
		result, err := s.register(ctx, claim, now)
		if errors.Is(err, store.ErrAlreadyExists) {
			// The insert can also collide on the mobile number when another
			// channel already registered it. A retry keyed by the platform id
			// would miss that record forever, so adopt it here instead.
			if existing, merr := s.userByMobile(ctx, claim); merr == nil {
				return s.resolve(ctx, existing, claim, now)
			}
		}
		return result, err
	case err != nil:
		return domain.SessionResult{}, err
	}

	return s.resolve(ctx, user, claim, now)
}

// resolve handles a claim whose user record already exists: refresh the
// last-access stamp and gate on verification status.
func (s *TrustedLoginService) resolve(ctx context.Context, user domain.User, claim domain.IdentityClaim, now time.Time) (domain.SessionResult, error) {
	if err := s.Store.Users().TouchLastAccess(ctx, user.ID, now); err != nil {
		return domain.SessionResult{}, err
	}

	switch user.Status {
	case domain.StatusVerified:
		return s.establish(ctx, user, claim, now)
	case domain.StatusBlocked, domain.StatusDeactivated:
		return domain.SessionResult{
			Status:  domain.SessionRejected,
			Message: msgCustomerCare,
		}, nil
	default:
		return domain.SessionResult{
			Status:  domain.SessionPendingVerification,
			Message: fmt.Sprintf(msgPending, claim.DisplayName()),
		}, nil
	}
}

// register persists a new pending, opted-out user record for a first-seen
// identity. A concurrent registration for the same identity surfaces as
// store.ErrAlreadyExists and is retried by the caller.
func (s *TrustedLoginService) register(ctx context.Context, claim domain.IdentityClaim, now time.Time) (domain.SessionResult, error) {
	user := domain.User{
		ID:               idx.New(),
		Status:           domain.StatusPending,
		SvcStatus:        domain.SvcOptOut,
		RegistrationDate: now,
		LastAccess:       now,
		CreatedAt:        now,
		UpdatedAt:        now,
		Mobile:           claim.Mobile,
	}
	switch claim.Source {
	case domain.SourceTelegram:
		user.TelegramID = claim.Username
	case domain.SourceViber:
		user.ViberID = claim.Username
	case domain.SourceSMS:
		// mobile is both the lookup key and the username for SMS
	default:
		user.MetaID = claim.Username
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		return domain.SessionResult{}, err
	}

	slogx.FromContext(ctx).Info("registered new user",
		slog.String("user_id", user.ID.String()),
		slog.String("source", string(claim.Source)))

	return domain.SessionResult{
		Status:  domain.SessionCreatedUser,
		Message: fmt.Sprintf(msgAccountCreated, claim.DisplayName()),
	}, nil
}

// establish returns an ESTABLISHED result for a verified user, reusing the
// stored session when its trusted-key hash still verifies, otherwise minting
// one through the authorization server.
func (s *TrustedLoginService) establish(ctx context.Context, user domain.User, claim domain.IdentityClaim, now time.Time) (domain.SessionResult, error) {
	username := user.ID.String()

	sess, err := s.Store.Sessions().GetByUsername(ctx, username)
	switch {
	case err == nil:
		if !s.Hasher.Verify([]byte(s.TrustedKey), sess.PasswordHash) {
			return domain.SessionResult{}, fmt.Errorf("%w: incorrect login", ErrNotAuthorized)
		}
	case errors.Is(err, store.ErrNotFound):
		sess, err = s.createSession(ctx, username, now)
		if err != nil {
			return domain.SessionResult{}, err
		}
	default:
		return domain.SessionResult{}, err
	}

	return domain.SessionResult{
		Status:      domain.SessionEstablished,
		Message:     fmt.Sprintf(msgEstablished, claim.DisplayName()),
		AccessToken: sess.AccessToken,
		TokenExpiry: sess.TokenExpiry,
	}, nil
}

func (s *TrustedLoginService) createSession(ctx context.Context, username string, now time.Time) (domain.Session, error) {
	grant, err := obtainGrant(ctx, s.Issuer, username, s.TrustedKey, s.RetryBase)
	if err != nil {
		return domain.Session{}, err
	}

	hash, err := s.Hasher.Hash([]byte(s.TrustedKey))
	if err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenExpiry:  now.Add(grant.ExpiresIn - s.GracePeriod),
		Roles:        grant.Roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Sessions().Create(ctx, sess); err != nil {
		return domain.Session{}, err
	}

	slogx.FromContext(ctx).Info("session established",
		slog.String("username", username),
		slog.Time("token_expiry", sess.TokenExpiry))

	return sess, nil
}

// lookupUser selects the identity column by claim source.
func (s *TrustedLoginService) lookupUser(ctx context.Context, claim domain.IdentityClaim) (domain.User, error) {
	users := s.Store.Users()
	switch claim.Source {
	case domain.SourceTelegram:
		return users.GetByTelegramID(ctx, claim.Username)
	case domain.SourceViber:
		return users.GetByViberID(ctx, claim.Username)
	case domain.SourceSMS:
		return users.GetByMobile(ctx, claim.Mobile)
	default:
		return users.GetByMetaID(ctx, claim.Username)
	}
}

func (s *TrustedLoginService) userByMobile(ctx context.Context, claim domain.IdentityClaim) (domain.User, error) {
	if claim.Mobile == "" {
		return domain.User{}, store.ErrNotFound
	}
	return s.Store.Users().GetByMobile(ctx, claim.Mobile)
}

func (s *TrustedLoginService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// normalizeClaim fills the SMS branch's username/mobile interchangeably: an
// SMS claim identifies the user by mobile number.
func normalizeClaim(claim domain.IdentityClaim) domain.IdentityClaim {
	if claim.Source == domain.SourceSMS {
		if claim.Mobile == "" {
			claim.Mobile = claim.Username
		}
		if claim.Username == "" {
			claim.Username = claim.Mobile
		}
	}
	return claim
}

func lookupKey(claim domain.IdentityClaim) string {
	if claim.Source == domain.SourceSMS {
		return claim.Mobile
	}
	return claim.Username
}

// obtainGrant calls the issuer, retrying transport failures a bounded number
// of times. Rejections are terminal.
func obtainGrant(ctx context.Context, issuer TokenIssuer, username, password string, retryBase time.Duration) (authz.Grant, error) {
	var grant authz.Grant
	err := retry.Do(ctx, retryx.BackoffMax(retryBase, maxIssuerAttempts), func(ctx context.Context) error {
		var err error
		grant, err = issuer.ObtainToken(ctx, username, password)
		if err != nil {
			if errors.Is(err, authz.ErrRejected) {
				return fmt.Errorf("%w: invalid user credentials", ErrNotAuthorized)
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			return authz.Grant{}, err
		}
		return authz.Grant{}, fmt.Errorf("%w: %v", ErrIssuerUnavailable, err)
	}
	return grant, nil
}
