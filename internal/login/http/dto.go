package http

import (
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
)

// TrustedLoginRequest is the webhook relay's identity assertion.
type TrustedLoginRequest struct {
	BotSource    string `json:"botSource" example:"TELEGRAM"`
	Username     string `json:"username" example:"512345678"`
	Mobile       string `json:"mobile,omitempty" example:"639171234567"`
	FriendlyName string `json:"friendlyName,omitempty" example:"Juan"`
}

// LoginRequest is a password-form login or refresh request.
type LoginRequest struct {
	Username string `json:"username" example:"jdoe"`
	Password string `json:"password" example:"s3cret"`
}

// SessionResponse echoes the reconciliation outcome. AccessToken and
// TokenExpiry are only present when the session was established.
type SessionResponse struct {
	Status      string     `json:"status" example:"ESTABLISHED"`
	Message     string     `json:"message"`
	AccessToken string     `json:"accessToken,omitempty"`
	TokenExpiry *time.Time `json:"tokenExpiry,omitempty"`
}

// Envelope wraps every successful response body, shaped after the upstream
// FPI API convention.
type Envelope struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp"`
	Resp      any       `json:"resp"`
}

// SessionDTO describes a persisted password-flow session.
type SessionDTO struct {
	Username     string    `json:"username"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenExpiry  time.Time `json:"tokenExpiry"`
	Roles        []string  `json:"roles,omitempty"`
}

// UserDTO describes a registered user.
type UserDTO struct {
	ID               string     `json:"id"`
	MetaID           string     `json:"metaId,omitempty"`
	TelegramID       string     `json:"telegramId,omitempty"`
	ViberID          string     `json:"viberId,omitempty"`
	Mobile           string     `json:"mobile,omitempty"`
	Status           string     `json:"status"`
	SvcStatus        string     `json:"svcStatus"`
	RegistrationDate time.Time  `json:"registrationDate"`
	VerifiedDate     *time.Time `json:"verifiedDate,omitempty"`
	LastAccess       time.Time  `json:"lastAccess"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Uptime   string `json:"uptime,omitempty"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database,omitempty"`
}

// ErrorResponse is the error body shape.
type ErrorResponse struct {
	Error            string `json:"error" example:"not_authorized"`
	ErrorDescription string `json:"error_description"`
}

func sessionDTO(s domain.Session) SessionDTO {
	return SessionDTO{
		Username:     s.Username,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenExpiry:  s.TokenExpiry,
		Roles:        s.Roles,
	}
}

func userDTO(u domain.User) UserDTO {
	return UserDTO{
		ID:               u.ID.String(),
		MetaID:           u.MetaID,
		TelegramID:       u.TelegramID,
		ViberID:          u.ViberID,
		Mobile:           u.Mobile,
		Status:           string(u.Status),
		SvcStatus:        string(u.SvcStatus),
		RegistrationDate: u.RegistrationDate,
		VerifiedDate:     u.VerifiedDate,
		LastAccess:       u.LastAccess,
	}
}

func sessionResultDTO(r domain.SessionResult) SessionResponse {
	resp := SessionResponse{
		Status:  string(r.Status),
		Message: r.Message,
	}
	if r.Status == domain.SessionEstablished {
		resp.AccessToken = r.AccessToken
		expiry := r.TokenExpiry
		resp.TokenExpiry = &expiry
	}
	return resp
}

func envelope(resp any) Envelope {
	return Envelope{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Resp:      resp,
	}
}
