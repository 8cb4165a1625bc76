package sqlite

import (
	"context"
	"database/sql"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/pkg/idx"
)

type sessionsRepo struct {
	db *sql.DB
}

func (r *sessionsRepo) GetByUsername(ctx context.Context, username string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, access_token, refresh_token,
			token_expiry, roles, ip_address, user_agent, created_at, updated_at
		FROM login_sessions WHERE username = ?`, username)
	return scanSession(row)
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_sessions (
			id, username, password_hash, access_token, refresh_token,
			token_expiry, roles, ip_address, user_agent, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(),
		s.Username,
		s.PasswordHash,
		s.AccessToken,
		s.RefreshToken,
		s.TokenExpiry,
		joinRoles(s.Roles),
		s.IPAddress,
		s.UserAgent,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) Upsert(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_sessions (
			id, username, password_hash, access_token, refresh_token,
			token_expiry, roles, ip_address, user_agent, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expiry = excluded.token_expiry,
			roles = excluded.roles,
			ip_address = excluded.ip_address,
			user_agent = excluded.user_agent,
			updated_at = excluded.updated_at`,
		s.ID.String(),
		s.Username,
		s.PasswordHash,
		s.AccessToken,
		s.RefreshToken,
		s.TokenExpiry,
		joinRoles(s.Roles),
		s.IPAddress,
		s.UserAgent,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		s     domain.Session
		rawID string
		roles string
	)
	err := row.Scan(
		&rawID, &s.Username, &s.PasswordHash, &s.AccessToken, &s.RefreshToken,
		&s.TokenExpiry, &roles, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.ID, err = idx.Parse(rawID)
	if err != nil {
		return domain.Session{}, err
	}
	s.Roles = splitRoles(roles)
	return s, nil
}
