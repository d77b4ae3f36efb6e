package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivacrm/dashboard-api/internal/database"
	"github.com/vivacrm/dashboard-api/internal/queue"
	"github.com/vivacrm/dashboard-api/internal/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err, "Error mocking DB")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func serve(t *testing.T, h echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET(path, h)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

type fakePublisher struct {
	events chan queue.DashboardViewedEvent
	err    error
}

func (f *fakePublisher) PublishDashboardViewed(_ context.Context, ev queue.DashboardViewedEvent) error {
	f.events <- ev
	return f.err
}

func TestHealth(t *testing.T) {
	rec := serve(t, Health, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetDashboard(t *testing.T) {
	testCases := []struct {
		name       string
		mockSetup  func(sqlmock.Sqlmock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "Healthy database returns one row",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectPing()
				m.ExpectQuery("SELECT 1").WillReturnRows(m.NewRows([]string{"1"}).AddRow(int64(1)))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"data":[{"1":1}]}`,
		},
		{
			name: "Empty result is an empty array",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectPing()
				m.ExpectQuery("SELECT 1").WillReturnRows(m.NewRows([]string{"1"}))
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"data":[]}`,
		},
		{
			name: "Connection error",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectPing().WillReturnError(errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal Server Error"}`,
		},
		{
			name: "Query error",
			mockSetup: func(m sqlmock.Sqlmock) {
				m.ExpectPing()
				m.ExpectQuery("SELECT 1").WillReturnError(errors.New("syntax error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal Server Error"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tc.mockSetup(mock)
			h := NewDashboardHandler(database.NewProvider(db), repository.NewDashboardRepo(), nil)

			rec := serve(t, h.GetDashboard, "/dashboard")

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
			assert.Equal(t, 0, db.Stats().InUse, "handle must be released")
		})
	}
}

func TestGetDashboardPoolClosed(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectClose()
	require.NoError(t, db.Close())
	h := NewDashboardHandler(database.NewProvider(db), repository.NewDashboardRepo(), nil)

	rec := serve(t, h.GetDashboard, "/dashboard")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetDashboardPublishesEvent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(mock.NewRows([]string{"1"}).AddRow(int64(1)))
	pub := &fakePublisher{events: make(chan queue.DashboardViewedEvent, 1), err: errors.New("broker down")}
	h := NewDashboardHandler(database.NewProvider(db), repository.NewDashboardRepo(), pub)

	rec := serve(t, h.GetDashboard, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code, "publish failures never reach the client")

	select {
	case ev := <-pub.events:
		assert.Equal(t, 1, ev.RowCount)
		assert.NotEmpty(t, ev.ViewedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("no access event published")
	}
}

func TestGetDashboardNoEventOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("down"))
	pub := &fakePublisher{events: make(chan queue.DashboardViewedEvent, 1)}
	h := NewDashboardHandler(database.NewProvider(db), repository.NewDashboardRepo(), pub)

	rec := serve(t, h.GetDashboard, "/dashboard")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, pub.events)
}

func TestNewDashboardHandlerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewDashboardHandler(nil, repository.NewDashboardRepo(), nil) })
}

func TestReady(t *testing.T) {
	deadRedis := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = deadRedis.Close() })

	testCases := []struct {
		name       string
		pingErr    error
		redis      *redis.Client
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Database up, Redis not configured",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","checks":{"database":"ok","redis":"disabled"}}`,
		},
		{
			name:       "Database down",
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","checks":{"database":"error","redis":"disabled"}}`,
		},
		{
			name:       "Redis unreachable",
			redis:      deadRedis,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","checks":{"database":"ok","redis":"error"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectPing().WillReturnError(tc.pingErr)
			h := &ReadyHandler{DB: database.NewProvider(db), Redis: tc.redis}

			rec := serve(t, h.Ready, "/readyz")

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}
