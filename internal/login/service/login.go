package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/internal/login/store"
	"github.com/vincejv/fpi-login-api/pkg/cryptox"
	"github.com/vincejv/fpi-login-api/pkg/idx"
	"github.com/vincejv/fpi-login-api/pkg/retryx"
	"github.com/vincejv/fpi-login-api/pkg/slogx"
	"github.com/sethvargo/go-retry"
)

// LoginService handles the password-form flow: direct username/password
// login and forced token refresh.
type LoginService struct {
	Store  store.Store
	Issuer TokenIssuer
	Hasher cryptox.Hasher

	// GracePeriod is subtracted from the issuer-reported token lifetime.
	GracePeriod time.Duration

	// RetryBase overrides the backoff base delay; zero means the default.
	RetryBase time.Duration

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Login returns the existing session for the username when the supplied
// password verifies against its stored hash, otherwise authenticates against
// the authorization server and persists a fresh session.
func (s *LoginService) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	var sess domain.Session
	err := retry.Do(ctx, retryx.Backoff(s.RetryBase), func(ctx context.Context) error {
		var err error
		sess, err = s.login(ctx, creds)
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost an insert race with a concurrent login for the same
			// username; the re-read picks up the winner's session.
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

func (s *LoginService) login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	sess, err := s.Store.Sessions().GetByUsername(ctx, creds.Username)
	switch {
	case err == nil:
		if !s.Hasher.Verify([]byte(creds.Password), sess.PasswordHash) {
			return domain.Session{}, fmt.Errorf("%w: invalid user credentials", ErrNotAuthorized)
		}
		return sess, nil
	case errors.Is(err, store.ErrNotFound):
		// fall through to issue a new session
	default:
		return domain.Session{}, err
	}

	now := s.now()
	sess, err = s.buildSession(ctx, creds, now)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.Store.Sessions().Create(ctx, sess); err != nil {
		return domain.Session{}, err
	}

	slogx.FromContext(ctx).Info("password login succeeded",
		slog.String("username", creds.Username),
		slog.String("ip", creds.RemoteAddr))

	return sess, nil
}

// Refresh always re-authenticates against the authorization server and
// overwrites the stored session for the username, whether or not the old
// tokens had expired.
func (s *LoginService) Refresh(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	now := s.now()

	sess, err := s.buildSession(ctx, creds, now)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.Store.Sessions().Upsert(ctx, sess); err != nil {
		return domain.Session{}, err
	}

	// The upsert preserves the original row's id and creation time, so
	// re-read to return what is actually stored.
	stored, err := s.Store.Sessions().GetByUsername(ctx, creds.Username)
	if err != nil {
		return domain.Session{}, err
	}

	slogx.FromContext(ctx).Info("session refreshed",
		slog.String("username", creds.Username),
		slog.Time("token_expiry", stored.TokenExpiry))

	return stored, nil
}

func (s *LoginService) buildSession(ctx context.Context, creds domain.Credentials, now time.Time) (domain.Session, error) {
	grant, err := obtainGrant(ctx, s.Issuer, creds.Username, creds.Password, s.RetryBase)
	if err != nil {
		return domain.Session{}, err
	}

	hash, err := s.Hasher.Hash([]byte(creds.Password))
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		ID:           idx.New(),
		Username:     creds.Username,
		PasswordHash: hash,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenExpiry:  now.Add(grant.ExpiresIn - s.GracePeriod),
		Roles:        grant.Roles,
		IPAddress:    creds.RemoteAddr,
		UserAgent:    creds.UserAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *LoginService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
