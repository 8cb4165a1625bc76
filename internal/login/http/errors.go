package http

import (
	"errors"
	"net/http"

	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/pkg/httpx"
	"github.com/vincejv/fpi-login-api/pkg/slogx"
)

// writeServiceError maps a service-layer failure onto a transport status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		httpx.WriteError(w, http.StatusUnauthorized, "not_authorized", "Invalid user credentials")
	case errors.Is(err, service.ErrInvalidClaim):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Request carries no usable identity")
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "User was not found")
	case errors.Is(err, service.ErrIssuerUnavailable):
		httpx.WriteError(w, http.StatusServiceUnavailable, "issuer_unavailable", "Authorization server is unreachable, try again later")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Unexpected server error")
	}
}
