package http

import (
	"encoding/json"
	"net/http"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/pkg/httpx"
)

// LoginHandler serves POST /fpi/login.
type LoginHandler struct {
	LoginService *service.LoginService
}

// ServeHTTP godoc
//
//	@Summary		Password login
//	@Description	Authenticates a username/password pair against the authorization server and returns the persisted session. A matching existing session is returned without re-issuing tokens.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	Envelope		"status, timestamp, resp"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Failure		503		{object}	ErrorResponse	"error, error_description"
//	@Router			/fpi/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	sess, err := h.LoginService.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, envelope(sessionDTO(sess)))
}

// RefreshHandler serves POST /fpi/login/refresh.
type RefreshHandler struct {
	LoginService *service.LoginService
}

// ServeHTTP godoc
//
//	@Summary		Forced token refresh
//	@Description	Re-authenticates against the authorization server and overwrites the stored session with fresh tokens, whether or not the old tokens had expired.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	Envelope		"status, timestamp, resp"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Failure		503		{object}	ErrorResponse	"error, error_description"
//	@Router			/fpi/login/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	sess, err := h.LoginService.Refresh(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, envelope(sessionDTO(sess)))
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.Credentials, bool) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return domain.Credentials{}, false
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return domain.Credentials{}, false
	}
	return domain.Credentials{
		Username:   req.Username,
		Password:   req.Password,
		RemoteAddr: httpx.ClientIP(r),
		UserAgent:  r.UserAgent(),
	}, true
}
