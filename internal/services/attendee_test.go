package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusconnect/internal/domain"
)

func newTestAttendeeService(t *testing.T) (domain.AttendeeService, *fakeEventRepo, *fakeRegistrationRepo, *fakeEmailService) {
	t.Helper()
	events := newFakeEventRepo(
		&domain.Event{ID: evAI, Title: "AI Workshop", Date: march1, Department: "CS"},
		&domain.Event{ID: evHack, Title: "Hackathon", Date: march1.Add(24 * time.Hour)},
	)
	regs := &fakeRegistrationRepo{events: events}
	users := newFakeUserRepo()
	users.add(&domain.User{UID: "user-1", Email: "ana@campus.edu", Name: "Ana"})
	emails := &fakeEmailService{}
	svc := NewAttendeeService(events, regs, users, emails, testLogger, time.Second)
	return svc, events, regs, emails
}

func TestAttendeeService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("first registration uses profile and sends confirmation", func(t *testing.T) {
		svc, _, _, emails := newTestAttendeeService(t)

		reg, created, err := svc.Register(ctx, domain.RegistrationInput{EventID: evAI, CallerUID: "user-1"})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "Ana", reg.UserName)
		assert.Equal(t, "ana@campus.edu", reg.UserEmail)
		require.Len(t, emails.confirmation, 1)
		assert.Equal(t, "AI Workshop", emails.confirmation[0].EventTitle)
		assert.Equal(t, "Mar 1, 2025 10:00 UTC", emails.confirmation[0].EventDate)
	})

	t.Run("second registration is idempotent", func(t *testing.T) {
		svc, _, regs, emails := newTestAttendeeService(t)

		first, created, err := svc.Register(ctx, domain.RegistrationInput{EventID: evAI, CallerUID: "user-1", UserName: "Ana B"})
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := svc.Register(ctx, domain.RegistrationInput{EventID: evAI, CallerUID: "user-1", UserUID: "user-1"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Ana B", second.UserName)
		assert.Len(t, regs.regs, 1)
		assert.Len(t, emails.confirmation, 1)
	})

	t.Run("email failure is not surfaced", func(t *testing.T) {
		svc, _, _, emails := newTestAttendeeService(t)
		emails.err = errors.New("ses down")

		_, created, err := svc.Register(ctx, domain.RegistrationInput{EventID: evAI, CallerUID: "user-1"})
		require.NoError(t, err)
		assert.True(t, created)
	})

	tests := []struct {
		name    string
		input   domain.RegistrationInput
		wantErr error
	}{
		{name: "missing event id", input: domain.RegistrationInput{CallerUID: "user-1"}, wantErr: domain.ErrInvalidInput},
		{name: "unknown event", input: domain.RegistrationInput{EventID: evML, CallerUID: "user-1"}, wantErr: domain.ErrNotFound},
		{name: "registering someone else", input: domain.RegistrationInput{EventID: evAI, CallerUID: "user-1", UserUID: "user-2"}, wantErr: domain.ErrForbidden},
		{name: "no caller", input: domain.RegistrationInput{EventID: evAI}, wantErr: domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, regs, _ := newTestAttendeeService(t)
			_, _, err := svc.Register(ctx, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, regs.regs)
		})
	}
}

func TestAttendeeService_IsRegistered(t *testing.T) {
	ctx := context.Background()
	svc, _, regs, _ := newTestAttendeeService(t)

	ok, err := svc.IsRegistered(ctx, evAI, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Register(ctx, domain.RegistrationInput{EventID: evAI, CallerUID: "user-1"})
	require.NoError(t, err)

	ok, err = svc.IsRegistered(ctx, evAI, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	regs.err = errors.New("boom")
	_, err = svc.IsRegistered(ctx, evAI, "user-1")
	require.Error(t, err)
}

func TestAttendeeService_ListMyEvents(t *testing.T) {
	ctx := context.Background()
	svc, events, _, _ := newTestAttendeeService(t)

	empty, err := svc.ListMyEvents(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []string{evAI, evHack} {
		_, _, err := svc.Register(ctx, domain.RegistrationInput{EventID: id, CallerUID: "user-1"})
		require.NoError(t, err)
	}

	got, err := svc.ListMyEvents(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, evHack, got[0].Event.ID)
	assert.Equal(t, evHack, got[0].Registration.EventID)

	require.NoError(t, events.Delete(ctx, evHack))
	regs, err := svc.ListRegistrations(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, evAI, regs[0].EventID)
}
