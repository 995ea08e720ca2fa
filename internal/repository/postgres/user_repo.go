package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusconnect/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (uid, email, password_hash, salt, name, department, year, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		u.UID, u.Email, u.PasswordHash, u.Salt, u.Name, u.Department, u.Year, u.IsAdmin, u.JoinedAt,
	)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE uid = $1`, uid)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg string) (*domain.User, error) {
	query := `
		SELECT uid, email, password_hash, salt, name, department, year, is_admin, created_at
		FROM users
	` + where
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.UID, &u.Email, &u.PasswordHash, &u.Salt, &u.Name, &u.Department, &u.Year, &u.IsAdmin, &u.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
