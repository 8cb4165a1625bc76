package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/internal/login/store/drivers/sqlite"
	"github.com/vincejv/fpi-login-api/pkg/authz"
	"github.com/vincejv/fpi-login-api/pkg/cryptox"
	"github.com/vincejv/fpi-login-api/pkg/httpx"
	"github.com/stretchr/testify/require"
)

const testTrustedKey = "relay-shared-key"

type stubIssuer struct {
	calls atomic.Int64
}

func (s *stubIssuer) ObtainToken(ctx context.Context, username, password string) (authz.Grant, error) {
	s.calls.Add(1)
	if password == "wrong-upstream" {
		return authz.Grant{}, authz.ErrRejected
	}
	return authz.Grant{
		AccessToken:  "stub-access",
		RefreshToken: "stub-refresh",
		ExpiresIn:    5 * time.Minute,
		Roles:        []string{"customer"},
	}, nil
}

func newTestRouter(t *testing.T) (*Router, *sqlite.Store, *stubIssuer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	issuer := &stubIssuer{}
	hasher := cryptox.NewHasher(4)

	r := NewRouter(testTrustedKey, "test", st, slog.New(slog.DiscardHandler))
	r.TrustedService = &service.TrustedLoginService{
		Store:       st,
		Issuer:      issuer,
		Hasher:      hasher,
		TrustedKey:  testTrustedKey,
		GracePeriod: 30 * time.Second,
		RetryBase:   time.Millisecond,
	}
	r.LoginService = &service.LoginService{
		Store:       st,
		Issuer:      issuer,
		Hasher:      hasher,
		GracePeriod: 30 * time.Second,
		RetryBase:   time.Millisecond,
	}
	r.UserService = &service.UserService{Store: st}
	r.ApplyRoutes()
	return r, st, issuer
}

var nextIP atomic.Int64

// uniqueIP keeps each request on its own rate-limit bucket.
func uniqueIP() string {
	n := nextIP.Add(1)
	return fmt.Sprintf("10.1.%d.%d", n/250, n%250)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", uniqueIP())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func trustedHeaders() map[string]string {
	return map[string]string{TrustedKeyHeader: testTrustedKey}
}

func TestTrustedLoginRequiresKey(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)
	body := TrustedLoginRequest{BotSource: "TELEGRAM", Username: "tg-1"}

	rec := doJSON(t, r, http.MethodPost, "/fpi/login/trusted", body, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/fpi/login/trusted", body,
		map[string]string{TrustedKeyHeader: "guess"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrustedLoginRegistersNewUser(t *testing.T) {
	t.Parallel()

	r, st, issuer := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/fpi/login/trusted", TrustedLoginRequest{
		BotSource:    "FB_MSGR",
		Username:     "meta-007",
		FriendlyName: "Maria",
	}, trustedHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var env struct {
		Status string          `json:"status"`
		Resp   SessionResponse `json:"resp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "ok", env.Status)
	require.Equal(t, "CREATED_USER", env.Resp.Status)
	require.Contains(t, env.Resp.Message, "Maria")
	require.Empty(t, env.Resp.AccessToken)
	require.Zero(t, issuer.calls.Load())

	_, err := st.Users().GetByMetaID(context.Background(), "meta-007")
	require.NoError(t, err)
}

func TestTrustedLoginEstablishedForVerifiedUser(t *testing.T) {
	t.Parallel()

	r, st, issuer := newTestRouter(t)
	ctx := context.Background()

	body := TrustedLoginRequest{BotSource: "VIBER", Username: "vb-55"}
	rec := doJSON(t, r, http.MethodPost, "/fpi/login/trusted", body, trustedHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := st.Users().GetByViberID(ctx, "vb-55")
	require.NoError(t, err)
	u.Status = domain.StatusVerified
	u.UpdatedAt = time.Now().UTC()
	require.NoError(t, st.Users().Update(ctx, u))

	rec = doJSON(t, r, http.MethodPost, "/fpi/login/trusted", body, trustedHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Resp SessionResponse `json:"resp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "ESTABLISHED", env.Resp.Status)
	require.Equal(t, "stub-access", env.Resp.AccessToken)
	require.NotNil(t, env.Resp.TokenExpiry)
	require.Equal(t, int64(1), issuer.calls.Load())
}

func TestTrustedLoginMalformedBody(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/fpi/login/trusted", bytes.NewBufferString("{not json"))
	req.Header.Set(TrustedKeyHeader, testTrustedKey)
	req.Header.Set("X-Forwarded-For", uniqueIP())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrustedLoginEmptyClaim(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/fpi/login/trusted",
		TrustedLoginRequest{BotSource: "FB_MSGR"}, trustedHeaders())
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordLoginAndRefresh(t *testing.T) {
	t.Parallel()

	r, _, issuer := newTestRouter(t)
	creds := LoginRequest{Username: "jdoe", Password: "pw-1"}

	rec := doJSON(t, r, http.MethodPost, "/fpi/login", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Resp SessionDTO `json:"resp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "jdoe", env.Resp.Username)
	require.Equal(t, "stub-access", env.Resp.AccessToken)
	require.Equal(t, "stub-refresh", env.Resp.RefreshToken)

	// wrong password against the stored session hash
	rec = doJSON(t, r, http.MethodPost, "/fpi/login",
		LoginRequest{Username: "jdoe", Password: "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// refresh always re-issues
	before := issuer.calls.Load()
	rec = doJSON(t, r, http.MethodPost, "/fpi/login/refresh", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, before+1, issuer.calls.Load())
}

func TestPasswordLoginUpstreamRejection(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/fpi/login",
		LoginRequest{Username: "eve", Password: "wrong-upstream"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "not_authorized", body.Error)
}

func TestPasswordLoginValidation(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/fpi/login", LoginRequest{Username: "jdoe"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordLoginRateLimitedPerIPAndUsername(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	send := func(username string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(LoginRequest{Username: username, Password: "pw-1"}))
		req := httptest.NewRequest(http.MethodPost, "/fpi/login", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "10.99.0.1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < httpx.StrictLimit.Burst; i++ {
		require.Equal(t, http.StatusOK, send("throttled").Code, "request %d", i)
	}
	rec := send("throttled")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Same address, different attempted username: separate bucket.
	require.Equal(t, http.StatusOK, send("someone-else").Code)
}

func TestUserLookupEndpoints(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/fpi/login/trusted", TrustedLoginRequest{
		BotSource: "FB_MSGR",
		Username:  "meta-look",
		Mobile:    "639175554444",
	}, trustedHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/fpi/users/meta/meta-look", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Resp UserDTO `json:"resp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "meta-look", env.Resp.MetaID)
	require.Equal(t, "PENDING", env.Resp.Status)

	rec = doJSON(t, r, http.MethodGet, "/fpi/users/mobile/639175554444", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/fpi/users/meta/absent", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errBody ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Equal(t, "User with metaId absent was not found", errBody.ErrorDescription)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Database)
}
