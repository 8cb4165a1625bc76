package service

import (
	"context"
	"testing"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/pkg/authz"
	"github.com/vincejv/fpi-login-api/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newLoginSvc(t *testing.T, issuer TokenIssuer) *LoginService {
	t.Helper()
	return &LoginService{
		Store:       newMemStore(t),
		Issuer:      issuer,
		Hasher:      cryptox.NewHasher(bcryptTestCost),
		GracePeriod: 30 * time.Second,
		RetryBase:   time.Millisecond,
		Now:         testClock,
	}
}

func TestLoginIssuesNewSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer := &fakeIssuer{grant: authz.Grant{
		AccessToken:  "at-login",
		RefreshToken: "rt-login",
		ExpiresIn:    10 * time.Minute,
		Roles:        []string{"customer"},
	}}
	svc := newLoginSvc(t, issuer)

	creds := domain.Credentials{
		Username:   "jdoe",
		Password:   "s3cret",
		RemoteAddr: "198.51.100.4",
		UserAgent:  "curl/8.0",
	}

	sess, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, "at-login", sess.AccessToken)
	require.Equal(t, "rt-login", sess.RefreshToken)
	require.Equal(t, 1, issuer.callCount())

	wantExpiry := testClock().Add(10*time.Minute - 30*time.Second)
	require.True(t, sess.TokenExpiry.Equal(wantExpiry))

	stored, err := svc.Store.Sessions().GetByUsername(ctx, "jdoe")
	require.NoError(t, err)
	require.NotEqual(t, []byte("s3cret"), stored.PasswordHash)
	require.Equal(t, "198.51.100.4", stored.IPAddress)
	require.Equal(t, "curl/8.0", stored.UserAgent)
}

func TestLoginReusesSessionOnMatchingPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer := &fakeIssuer{grant: authz.Grant{AccessToken: "at", ExpiresIn: time.Minute}}
	svc := newLoginSvc(t, issuer)

	creds := domain.Credentials{Username: "jdoe", Password: "s3cret"}

	first, err := svc.Login(ctx, creds)
	require.NoError(t, err)

	second, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.AccessToken, second.AccessToken)
	require.Equal(t, 1, issuer.callCount())
}

func TestLoginWrongPasswordAgainstExistingSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer := &fakeIssuer{grant: authz.Grant{AccessToken: "at", ExpiresIn: time.Minute}}
	svc := newLoginSvc(t, issuer)

	_, err := svc.Login(ctx, domain.Credentials{Username: "jdoe", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.Credentials{Username: "jdoe", Password: "wrong"})
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.Equal(t, 1, issuer.callCount())

	// the rejected attempt wrote nothing
	stored, err := svc.Store.Sessions().GetByUsername(ctx, "jdoe")
	require.NoError(t, err)
	require.Equal(t, "at", stored.AccessToken)
}

func TestLoginIssuerRejection(t *testing.T) {
	t.Parallel()

	svc := newLoginSvc(t, &fakeIssuer{rejected: true})

	_, err := svc.Login(context.Background(), domain.Credentials{Username: "jdoe", Password: "bad"})
	require.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.Store.Sessions().GetByUsername(context.Background(), "jdoe")
	require.Error(t, err)
}

func TestRefreshAlwaysReissues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer := &fakeIssuer{grant: authz.Grant{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresIn:    10 * time.Minute,
	}}
	svc := newLoginSvc(t, issuer)

	creds := domain.Credentials{Username: "jdoe", Password: "s3cret"}

	first, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, "at-1", first.AccessToken)

	issuer.mu.Lock()
	issuer.grant.AccessToken = "at-2"
	issuer.grant.RefreshToken = "rt-2"
	issuer.mu.Unlock()

	refreshed, err := svc.Refresh(ctx, creds)
	require.NoError(t, err)
	require.Equal(t, "at-2", refreshed.AccessToken)
	require.Equal(t, "rt-2", refreshed.RefreshToken)
	require.Equal(t, 2, issuer.callCount())

	// the session row is overwritten in place, not duplicated
	require.Equal(t, first.ID, refreshed.ID)
}

func TestRefreshWithoutPriorSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer := &fakeIssuer{grant: authz.Grant{AccessToken: "at", ExpiresIn: time.Minute}}
	svc := newLoginSvc(t, issuer)

	sess, err := svc.Refresh(ctx, domain.Credentials{Username: "fresh", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "at", sess.AccessToken)

	_, err = svc.Store.Sessions().GetByUsername(ctx, "fresh")
	require.NoError(t, err)
}

func TestRefreshRejection(t *testing.T) {
	t.Parallel()

	svc := newLoginSvc(t, &fakeIssuer{rejected: true})

	_, err := svc.Refresh(context.Background(), domain.Credentials{Username: "jdoe", Password: "bad"})
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestUserServiceLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newMemStore(t)
	trusted := newTrustedService(s, &fakeIssuer{})

	_, err := trusted.Authorize(ctx, domain.IdentityClaim{
		Source:   domain.SourceMeta,
		Username: "meta-lookup",
		Mobile:   "639170001111",
	})
	require.NoError(t, err)

	users := &UserService{Store: s}

	u, err := users.GetByMetaID(ctx, "meta-lookup")
	require.NoError(t, err)
	require.Equal(t, "639170001111", u.Mobile)

	byMobile, err := users.GetByMobile(ctx, "639170001111")
	require.NoError(t, err)
	require.Equal(t, u.ID, byMobile.ID)

	_, err = users.GetByMetaID(ctx, "absent")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = users.GetByMobile(ctx, "000")
	require.ErrorIs(t, err, ErrUserNotFound)
}
