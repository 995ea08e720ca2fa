package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusconnect/internal/domain"
)

const registrationColumns = `id, event_id, user_uid, user_name, user_email, registered_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) (bool, error) {
	query := `
		INSERT INTO registrations (event_id, user_uid, user_name, user_email, registered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_uid) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.EventID, reg.UserUID, reg.UserName, reg.UserEmail, reg.RegisteredAt).
		Scan(&reg.ID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		// Already registered: report the stored row.
		existing, err := r.get(ctx, reg.EventID, reg.UserUID)
		if err != nil {
			return false, err
		}
		*reg = *existing
		return false, nil
	case pqCode(err) == codeForeignKeyViolation || pqCode(err) == codeInvalidText:
		return false, domain.ErrNotFound
	default:
		return false, err
	}
}

func (r *registrationRepository) get(ctx context.Context, eventID, userUID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND user_uid = $2`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userUID).
		Scan(&reg.ID, &reg.EventID, &reg.UserUID, &reg.UserName, &reg.UserEmail, &reg.RegisteredAt)
	if err != nil {
		return nil, notFound(err)
	}
	return reg, nil
}

func (r *registrationRepository) Exists(ctx context.Context, eventID, userUID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND user_uid = $2)`,
		eventID, userUID,
	).Scan(&exists)
	if err != nil {
		if pqCode(err) == codeInvalidText {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *registrationRepository) ListByUserUID(ctx context.Context, userUID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_uid = $1 ORDER BY registered_at DESC`
	return r.list(ctx, query, userUID)
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 ORDER BY registered_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *registrationRepository) list(ctx context.Context, query string, arg string) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserUID, &reg.UserName, &reg.UserEmail, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}
