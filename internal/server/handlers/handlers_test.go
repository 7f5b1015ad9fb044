package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharecal/internal/models"
	"sharecal/internal/repository"
	"sharecal/internal/storage/sqlite"
	"sharecal/pkg/api"
)

func setupTestRepo(t *testing.T) (*repository.Repository, func()) {
	ctx := context.Background()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = store.Close()
	}

	return repository.New(store, store, store), cleanup
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func strPtr(s string) *string {
	return &s
}

// seedUser creates a user with a calendar and the given events, returning
// the user id and calendar id.
func seedUser(t *testing.T, repo *repository.Repository, username string, events ...*models.Event) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: username, PasswordHash: "hash", Email: strPtr(username + "@example.com")}
	calendar, err := repo.NewAccount(ctx, user)
	require.NoError(t, err)

	for _, e := range events {
		e.CalendarID = calendar.ID
		_, err := repo.Events.InsertEvent(ctx, e)
		require.NoError(t, err)
	}

	return user.ID, calendar.ID
}

func TestUserHandler_Get(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	userID, _ := seedUser(t, repo, "alice")
	h := NewUserHandler(testLogger(), repo)

	tests := []struct {
		name       string
		pathValue  string
		wantStatus int
	}{
		{name: "existing user", pathValue: "ok", wantStatus: http.StatusOK},
		{name: "unknown user", pathValue: "99999", wantStatus: http.StatusNotFound},
		{name: "malformed id", pathValue: "abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.pathValue
			if id == "ok" {
				id = formatID(userID)
			}

			r := httptest.NewRequest(http.MethodGet, "/api/v1/user/"+id, nil)
			r.SetPathValue("id", id)
			w := httptest.NewRecorder()

			h.Get(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp api.UserResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, userID, resp.ID)
				assert.Equal(t, "alice", resp.Username)
				require.NotNil(t, resp.Email)
				assert.Equal(t, "alice@example.com", *resp.Email)
			}
		})
	}
}

func TestUserHandler_Events(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	userID, _ := seedUser(t, repo, "alice",
		&models.Event{Title: "Public", Month: 1, Day: 1},
		&models.Event{Title: "Private", Month: 2, Day: 2, Private: true},
	)
	h := NewUserHandler(testLogger(), repo)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user/"+formatID(userID)+"/events", nil)
	r.SetPathValue("id", formatID(userID))
	w := httptest.NewRecorder()

	h.Events(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []api.EventResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	// The owner surface includes private events; only the share link filters
	require.Len(t, resp, 2)
	assert.Equal(t, "Public", resp[0].Title)
	assert.Equal(t, "Private", resp[1].Title)
	assert.True(t, resp[1].Private)
}

func TestUserHandler_Events_UnknownUser(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	h := NewUserHandler(testLogger(), repo)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user/99999/events", nil)
	r.SetPathValue("id", "99999")
	w := httptest.NewRecorder()

	h.Events(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandler_Get(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	year := 1990
	event := &models.Event{Title: "Birthday", Month: 6, Day: 15, Year: &year, Notes: strPtr("cake")}
	seedUser(t, repo, "alice", event)

	h := NewEventHandler(testLogger(), repo)

	t.Run("existing event", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/event/"+formatID(event.ID), nil)
		r.SetPathValue("id", formatID(event.ID))
		w := httptest.NewRecorder()

		h.Get(w, r)

		require.Equal(t, http.StatusOK, w.Code)

		var resp api.EventResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Birthday", resp.Title)
		assert.Equal(t, 6, resp.Month)
		assert.Equal(t, 15, resp.Day)
		require.NotNil(t, resp.Year)
		assert.Equal(t, 1990, *resp.Year)
	})

	t.Run("unknown event", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/event/99999", nil)
		r.SetPathValue("id", "99999")
		w := httptest.NewRecorder()

		h.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp api.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "event not found", resp.Error)
	})
}

func TestShareHandler_Events(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	_, calendarID := seedUser(t, repo, "alice",
		&models.Event{Title: "June public", Month: 6, Day: 15},
		&models.Event{Title: "June private", Month: 6, Day: 16, Private: true},
		&models.Event{Title: "July public", Month: 7, Day: 1},
	)

	token := "shareTk1"
	require.NoError(t, repo.Calendars.UpdateShareURL(context.Background(), calendarID, &token))

	h := NewShareHandler(testLogger(), repo)

	get := func(t *testing.T, tok, query string) *httptest.ResponseRecorder {
		t.Helper()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/share/"+tok+"/events"+query, nil)
		r.SetPathValue("token", tok)
		w := httptest.NewRecorder()
		h.Events(w, r)
		return w
	}

	t.Run("all public events", func(t *testing.T) {
		w := get(t, token, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp []api.EventResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp, 2)
		for _, e := range resp {
			assert.False(t, e.Private)
		}
	})

	t.Run("month filter", func(t *testing.T) {
		w := get(t, token, "?month=6")
		require.Equal(t, http.StatusOK, w.Code)

		var resp []api.EventResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "June public", resp[0].Title)
	})

	t.Run("invalid month", func(t *testing.T) {
		w := get(t, token, "?month=13")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := get(t, "nosuchtk", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(testLogger(), "test-version")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test-version", resp.Version)
}

func formatID(n int64) string {
	return strconv.FormatInt(n, 10)
}
