package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"campusconnect/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "description", "date", "department", "tags", "poster_url", "created_by", "created_at", "updated_at"}

var (
	t0      = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	eventAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Title:       "AI Workshop",
				Description: "Intro to AI",
				Date:        eventAt,
				Department:  "CS",
				Tags:        []string{"ai", "workshop"},
				PosterURL:   domain.DefaultPosterURL,
				CreatedBy:   "user-1",
				CreatedAt:   t0,
				UpdatedAt:   t0,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, description, date, department, tags, poster_url, created_by, created_at, updated_at\)`).
					WithArgs("AI Workshop", "Intro to AI", eventAt, "CS", pq.Array([]string{"ai", "workshop"}), domain.DefaultPosterURL, "user-1", t0, t0).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name:  "db error",
			event: &domain.Event{Title: "T", Description: "D", Date: eventAt, CreatedAt: t0, UpdatedAt: t0},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, date, department, tags, poster_url, created_by, created_at, updated_at FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventCols).
						AddRow("ev-1", "AI Workshop", "Intro", eventAt, "CS", "{ai,workshop}", "https://cdn/p.png", "user-1", t0, t0))
			},
			want: &domain.Event{
				ID: "ev-1", Title: "AI Workshop", Description: "Intro", Date: eventAt, Department: "CS",
				Tags: []string{"ai", "workshop"}, PosterURL: "https://cdn/p.png", CreatedBy: "user-1", CreatedAt: t0, UpdatedAt: t0,
			},
		},
		{
			name: "empty tags scan as empty slice",
			id:   "ev-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
					WithArgs("ev-2").
					WillReturnRows(sqlmock.NewRows(eventCols).
						AddRow("ev-2", "Talk", "Desc", eventAt, "", "{}", domain.DefaultPosterURL, "", t0, t0))
			},
			want: &domain.Event{
				ID: "ev-2", Title: "Talk", Description: "Desc", Date: eventAt,
				Tags: []string{}, PosterURL: domain.DefaultPosterURL, CreatedAt: t0, UpdatedAt: t0,
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "malformed id is not found",
			id:   "not-a-uuid",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
					WithArgs("not-a-uuid").
					WillReturnError(&pq.Error{Code: "22P02"})
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered by date", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		later := eventAt.Add(24 * time.Hour)
		mock.ExpectQuery(`SELECT .* FROM events ORDER BY date ASC, created_at ASC`).
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-1", "A", "a", eventAt, "CS", "{}", "p", "u", t0, t0).
				AddRow("ev-2", "B", "b", later, "EE", "{x}", "p", "u", t0, t0))

		got, err := NewEventRepository(db).List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "ev-1", got[0].ID)
		require.Equal(t, []string{"x"}, got[1].Tags)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events`).WillReturnRows(sqlmock.NewRows(eventCols))
		got, err := NewEventRepository(db).List(ctx)
		require.NoError(t, err)
		require.Equal(t, []*domain.Event{}, got)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events`).WillReturnError(sql.ErrConnDone)
		got, err := NewEventRepository(db).List(ctx)
		require.Error(t, err)
		require.Nil(t, got)
	})
}

func TestEventRepository_GetByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty ids skip the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		got, err := NewEventRepository(db).GetByIDs(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns only found rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array([]string{"ev-1", "ev-gone"})).
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow("ev-1", "A", "a", eventAt, "CS", "{}", "p", "u", t0, t0))

		got, err := NewEventRepository(db).GetByIDs(ctx, []string{"ev-1", "ev-gone"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "ev-1", got[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	newTitle := "Renamed"
	newTags := []string{"ml"}

	tests := []struct {
		name    string
		update  domain.EventUpdate
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "partial update",
			update: domain.EventUpdate{Title: &newTitle, Tags: &newTags},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), title = \$1, tags = \$2\s+WHERE id = \$3\s+RETURNING id, title`).
					WithArgs("Renamed", pq.Array([]string{"ml"}), "ev-1").
					WillReturnRows(sqlmock.NewRows(eventCols).
						AddRow("ev-1", "Renamed", "a", eventAt, "CS", "{ml}", "p", "u", t0, t0))
			},
		},
		{
			name:   "no fields falls back to select",
			update: domain.EventUpdate{},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventCols).
						AddRow("ev-1", "A", "a", eventAt, "CS", "{}", "p", "u", t0, t0))
			},
		},
		{
			name:   "not found",
			update: domain.EventUpdate{Title: &newTitle},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET`).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).Update(ctx, "ev-1", tt.update)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "ev-1", got.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success removes registrations first",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM registrations WHERE event_id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "not found rolls back",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM registrations`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`DELETE FROM events`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error rolls back",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM registrations`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(ctx, tt.id)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
