package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// RoleAdmin is the role claim carried by administrator tokens.
const RoleAdmin = "admin"

// User represents a registered user
// swagger:model User
type User struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	Year         int       `json:"year"`
	IsAdmin      bool      `json:"isAdmin"`
	JoinedAt     time.Time `json:"joinedAt"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
}

// NewUser returns a new User with the given profile fields.
func NewUser(uid, email, name, department string, year int, isAdmin bool, joinedAt time.Time) *User {
	return &User{
		UID:        uid,
		Email:      email,
		Name:       name,
		Department: department,
		Year:       year,
		IsAdmin:    isAdmin,
		JoinedAt:   joinedAt,
	}
}

// Roles returns the role codes embedded in the user's tokens.
func (u *User) Roles() []string {
	if u.IsAdmin {
		return []string{RoleAdmin}
	}
	return []string{}
}

// SignUpInput is the profile submitted at sign-up.
type SignUpInput struct {
	Email      string
	Password   string
	Name       string
	Department string
	Year       int
}

// AuthResult is returned by sign-up and login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
}

// UserService defines sign-up, login and identity resolution.
type UserService interface {
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
}
