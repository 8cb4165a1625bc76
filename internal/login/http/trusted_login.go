package http

import (
	"encoding/json"
	"net/http"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/pkg/httpx"
)

// TrustedLoginHandler serves POST /fpi/login/trusted.
type TrustedLoginHandler struct {
	TrustedService *service.TrustedLoginService
}

// ServeHTTP godoc
//
//	@Summary		Trusted-identity login
//	@Description	Reconciles an identity claim vouched for by a pre-authorized webhook relay: registers unknown identities, gates on verification status, and establishes a session for verified users.
//	@Description	CREATED_USER and PENDING_VERIFICATION are success-shaped outcomes carrying an explanatory message, not errors.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			X-Trusted-Key	header		string				true	"Shared trusted-service key"
//	@Param			request			body		TrustedLoginRequest	true	"Identity claim"
//	@Success		200				{object}	Envelope			"status, timestamp, resp"
//	@Failure		400				{object}	ErrorResponse		"error, error_description"
//	@Failure		401				{object}	ErrorResponse		"error, error_description"
//	@Failure		503				{object}	ErrorResponse		"error, error_description"
//	@Router			/fpi/login/trusted [post].
func (h *TrustedLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TrustedLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	result, err := h.TrustedService.Authorize(r.Context(), domain.IdentityClaim{
		Source:       domain.ParseSource(req.BotSource),
		Username:     req.Username,
		Mobile:       req.Mobile,
		FriendlyName: req.FriendlyName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, envelope(sessionResultDTO(result)))
}
