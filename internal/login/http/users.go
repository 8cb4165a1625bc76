package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/pkg/httpx"
)

// UserHandler serves the user lookup endpoints.
type UserHandler struct {
	UserService *service.UserService
}

// GetByMetaID godoc
//
//	@Summary		Fetch user by Meta platform id
//	@Tags			Users
//	@Produce		json
//	@Param			metaId	path		string			true	"Meta platform id"
//	@Success		200		{object}	Envelope		"status, timestamp, resp"
//	@Failure		404		{object}	ErrorResponse	"error, error_description"
//	@Router			/fpi/users/meta/{metaId} [get].
func (h *UserHandler) GetByMetaID(w http.ResponseWriter, r *http.Request) {
	metaID := r.PathValue("metaId")

	u, err := h.UserService.GetByMetaID(r.Context(), metaID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found",
				fmt.Sprintf("User with metaId %s was not found", metaID))
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, envelope(userDTO(u)))
}

// GetByMobile godoc
//
//	@Summary		Fetch user by mobile number
//	@Tags			Users
//	@Produce		json
//	@Param			mobileNo	path		string			true	"Mobile number"
//	@Success		200			{object}	Envelope		"status, timestamp, resp"
//	@Failure		404			{object}	ErrorResponse	"error, error_description"
//	@Router			/fpi/users/mobile/{mobileNo} [get].
func (h *UserHandler) GetByMobile(w http.ResponseWriter, r *http.Request) {
	mobile := r.PathValue("mobileNo")

	u, err := h.UserService.GetByMobile(r.Context(), mobile)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found",
				fmt.Sprintf("User with mobile number %s was not found", mobile))
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, envelope(userDTO(u)))
}
