package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"campusconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testUserConfig = UserServiceConfig{
	TokenExpiry: time.Hour,
	Timeout:     time.Second,
	AdminEmails: []string{" Admin@Campus.edu "},
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	salt string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err   error
	roles []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.roles = roles
	return "token-" + userID, nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	mu        sync.Mutex
	byUID     map[string]*domain.User
	byEmail   map[string]*domain.User
	getErr    error
	createErr error
	// noDeadline counts calls made with a context that has no deadline.
	noDeadline int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUID:   make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) checkDeadline(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		f.mu.Lock()
		f.noDeadline++
		f.mu.Unlock()
	}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.byUID[u.UID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.checkDeadline(ctx)
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.checkDeadline(ctx)
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	f.checkDeadline(ctx)
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byUID[uid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	welcome      []*domain.WelcomeMessageEmailData
	confirmation []*domain.RegistrationEmailData
	err          error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.confirmation = append(f.confirmation, data)
	return f.err
}

func TestUserService_SignUp(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   domain.SignUpInput
		setup   func(*fakeUserRepo, *fakeEmailService)
		wantErr error
	}{
		{
			name:  "success lowercases email",
			input: domain.SignUpInput{Email: "  Ana@Campus.EDU ", Password: "secret123", Name: " Ana ", Department: "CS", Year: 2},
		},
		{
			name:  "welcome email failure does not fail sign-up",
			input: domain.SignUpInput{Email: "ana@campus.edu", Password: "secret123"},
			setup: func(_ *fakeUserRepo, e *fakeEmailService) { e.err = errors.New("ses down") },
		},
		{
			name:    "invalid email",
			input:   domain.SignUpInput{Email: "not-an-email", Password: "secret123"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "short password",
			input:   domain.SignUpInput{Email: "ana@campus.edu", Password: "short"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "duplicate email",
			input: domain.SignUpInput{Email: "ana@campus.edu", Password: "secret123"},
			setup: func(f *fakeUserRepo, _ *fakeEmailService) {
				f.add(&domain.User{UID: "existing", Email: "ana@campus.edu"})
			},
			wantErr: domain.ErrDuplicateEmail,
		},
		{
			name:  "repo error",
			input: domain.SignUpInput{Email: "ana@campus.edu", Password: "secret123"},
			setup: func(f *fakeUserRepo, _ *fakeEmailService) {
				f.createErr = sql.ErrConnDone
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			emails := &fakeEmailService{}
			if tt.setup != nil {
				tt.setup(repo, emails)
			}
			svc := NewUserService(repo, &fakePasswordHasher{salt: "s"}, &fakeTokenIssuer{}, emails, testLogger, testUserConfig)

			res, err := svc.SignUp(ctx, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.input.Email)), res.User.Email)
			assert.NotEmpty(t, res.User.UID)
			assert.Equal(t, "token-"+res.User.UID, res.Token)
			assert.Equal(t, "hash-s"+tt.input.Password, res.User.PasswordHash)
			require.Len(t, emails.welcome, 1)
			assert.Equal(t, res.User.Email, emails.welcome[0].Email)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	emails := &fakeEmailService{}
	issuer := &fakeTokenIssuer{}
	svc := NewUserService(repo, &fakePasswordHasher{salt: "s"}, issuer, emails, testLogger, testUserConfig)

	_, err := svc.SignUp(ctx, domain.SignUpInput{Email: "admin@campus.edu", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ADMIN@campus.edu", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "admin@campus.edu", res.User.Email)
	assert.Equal(t, []string{domain.RoleAdmin}, issuer.roles)

	_, err = svc.Login(ctx, "admin@campus.edu", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@campus.edu", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	repo.getErr = sql.ErrConnDone
	_, err = svc.Login(ctx, "admin@campus.edu", "secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_GetByUID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		uid     string
		setup   func(*fakeUserRepo)
		wantErr error
	}{
		{
			name:  "success",
			uid:   "user-1",
			setup: func(f *fakeUserRepo) { f.add(&domain.User{UID: "user-1", Email: "a@b.com", Name: "Alice"}) },
		},
		{
			name:    "not found",
			uid:     "missing",
			setup:   func(f *fakeUserRepo) {},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:    "repo error",
			uid:     "user-1",
			setup:   func(f *fakeUserRepo) { f.getErr = sql.ErrConnDone },
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeUserRepo()
			tt.setup(fake)
			svc := NewUserService(fake, &fakePasswordHasher{}, &fakeTokenIssuer{}, nil, testLogger, testUserConfig)

			user, err := svc.GetByUID(ctx, tt.uid)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Alice", user.Name)
		})
	}
}

func TestUserService_SignUp_AdminRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	issuer := &fakeTokenIssuer{}
	svc := NewUserService(repo, &fakePasswordHasher{salt: "s"}, issuer, nil, testLogger, testUserConfig)

	res, err := svc.SignUp(ctx, domain.SignUpInput{Email: "ADMIN@campus.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
	assert.Equal(t, []string{domain.RoleAdmin}, issuer.roles)

	res, err = svc.SignUp(ctx, domain.SignUpInput{Email: "student@campus.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.False(t, res.User.IsAdmin)
	assert.Empty(t, issuer.roles)
}

func TestUserService_AppliesTimeout(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakePasswordHasher{salt: "s"}, &fakeTokenIssuer{}, nil, testLogger, testUserConfig)

	res, err := svc.SignUp(ctx, domain.SignUpInput{Email: "ana@campus.edu", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "ana@campus.edu", "secret123")
	require.NoError(t, err)
	_, err = svc.GetByUID(ctx, res.User.UID)
	require.NoError(t, err)

	assert.Zero(t, repo.noDeadline)
}
