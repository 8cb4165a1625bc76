package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vincejv/fpi-login-api/internal/login/domain"
	"github.com/vincejv/fpi-login-api/pkg/idx"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, meta_id, telegram_id, viber_id, mobile, status, svc_status,
	registration_date, verified_date, last_access, created_at, updated_at`

func (r *usersRepo) GetByID(ctx context.Context, id idx.ID) (domain.User, error) {
	return r.getBy(ctx, `id = ?`, id.String())
}

func (r *usersRepo) GetByMetaID(ctx context.Context, metaID string) (domain.User, error) {
	return r.getBy(ctx, `meta_id = ?`, metaID)
}

func (r *usersRepo) GetByTelegramID(ctx context.Context, telegramID string) (domain.User, error) {
	return r.getBy(ctx, `telegram_id = ?`, telegramID)
}

func (r *usersRepo) GetByViberID(ctx context.Context, viberID string) (domain.User, error) {
	return r.getBy(ctx, `viber_id = ?`, viberID)
}

func (r *usersRepo) GetByMobile(ctx context.Context, mobile string) (domain.User, error) {
	return r.getBy(ctx, `mobile = ?`, mobile)
}

func (r *usersRepo) getBy(ctx context.Context, where string, arg any) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM system_users WHERE `+where, arg)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_users (
			id, meta_id, telegram_id, viber_id, mobile, status, svc_status,
			registration_date, verified_date, last_access, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		mapStringNull(u.MetaID),
		mapStringNull(u.TelegramID),
		mapStringNull(u.ViberID),
		mapStringNull(u.Mobile),
		string(u.Status),
		string(u.SvcStatus),
		u.RegistrationDate,
		mapOptionalTime(u.VerifiedDate),
		u.LastAccess,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) Update(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE system_users SET
			meta_id = ?, telegram_id = ?, viber_id = ?, mobile = ?,
			status = ?, svc_status = ?, verified_date = ?, last_access = ?,
			updated_at = ?
		WHERE id = ?`,
		mapStringNull(u.MetaID),
		mapStringNull(u.TelegramID),
		mapStringNull(u.ViberID),
		mapStringNull(u.Mobile),
		string(u.Status),
		string(u.SvcStatus),
		mapOptionalTime(u.VerifiedDate),
		u.LastAccess,
		u.UpdatedAt,
		u.ID.String(),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *usersRepo) TouchLastAccess(ctx context.Context, id idx.ID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE system_users SET last_access = ?, updated_at = ? WHERE id = ?`,
		at, at, id.String())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		rawID        string
		metaID       sql.NullString
		telegramID   sql.NullString
		viberID      sql.NullString
		mobile       sql.NullString
		status       string
		svcStatus    string
		verifiedDate sql.NullTime
	)
	err := row.Scan(
		&rawID, &metaID, &telegramID, &viberID, &mobile, &status, &svcStatus,
		&u.RegistrationDate, &verifiedDate, &u.LastAccess, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.ID, err = idx.Parse(rawID)
	if err != nil {
		return domain.User{}, err
	}
	u.MetaID = mapNullString(metaID)
	u.TelegramID = mapNullString(telegramID)
	u.ViberID = mapNullString(viberID)
	u.Mobile = mapNullString(mobile)
	u.Status = domain.UserStatus(status)
	u.SvcStatus = domain.ServiceStatus(svcStatus)
	u.VerifiedDate = mapNullTimePtr(verifiedDate)
	return u, nil
}
