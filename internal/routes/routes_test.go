package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyvibe/dailyvibe/internal/app"
	"github.com/dailyvibe/dailyvibe/internal/cache"
	"github.com/dailyvibe/dailyvibe/internal/config"
	"github.com/dailyvibe/dailyvibe/internal/content"
	"github.com/dailyvibe/dailyvibe/internal/dateutil"
	"github.com/dailyvibe/dailyvibe/internal/db"
	"github.com/dailyvibe/dailyvibe/internal/feed"
	"github.com/dailyvibe/dailyvibe/internal/model"
	"github.com/dailyvibe/dailyvibe/internal/repository"
	"github.com/dailyvibe/dailyvibe/internal/service"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

const testSecret = "test-secret"

func testApp(t *testing.T) *app.App {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "habits.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	hub := feed.NewHub()
	t.Cleanup(hub.Close)

	habitStore := store.New(
		repository.NewHabitRepository(database),
		repository.NewMigrationMarkerRepository(database),
		cache.New(t.TempDir()),
		hub,
		dateutil.System,
	)

	return &app.App{
		Cfg: &config.Config{
			AppEnv:    "development",
			JWTSecret: testSecret,
			StatsDays: 30,
		},
		DB:            database,
		Hub:           hub,
		HabitStore:    habitStore,
		ExportService: service.NewExportService(habitStore, nil, dateutil.System),
		GuideService:  content.NewGuideService(t.TempDir()),
	}
}

func signToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIRequiresAuth(t *testing.T) {
	h := SetupRoutes(testApp(t))

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/habits"},
		{"POST", "/api/habits"},
		{"GET", "/api/stats"},
		{"POST", "/api/sync"},
		{"DELETE", "/api/account/habits"},
	} {
		rec := doRequest(t, h, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	h := SetupRoutes(testApp(t))

	req := httptest.NewRequest("GET", "/api/habits", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHabitLifecycleOverAPI(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	// Create
	rec := doRequest(t, h, "POST", "/api/habits", token, map[string]string{
		"name":  "Read",
		"color": "#3B82F6",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Habit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Read", created.Name)
	assert.Zero(t, created.CurrentStreak)

	// List includes the new habit (plus seeded placeholders)
	rec = doRequest(t, h, "GET", "/api/habits", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var habits []*model.Habit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &habits))
	ids := make([]string, 0, len(habits))
	for _, habit := range habits {
		ids = append(ids, habit.ID)
	}
	assert.Contains(t, ids, created.ID)

	// Toggle today's completion
	rec = doRequest(t, h, "POST", "/api/habits/"+created.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled model.Habit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.Equal(t, 1, toggled.CurrentStreak)

	// Update the name
	rec = doRequest(t, h, "PATCH", "/api/habits/"+created.ID, token, map[string]string{
		"name": "Read books",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete
	rec = doRequest(t, h, "DELETE", "/api/habits/"+created.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateHabitValidation(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	rec := doRequest(t, h, "POST", "/api/habits", token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUnknownHabit(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	rec := doRequest(t, h, "PATCH", "/api/habits/nope", token, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncEndpoint(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	rec := doRequest(t, h, "POST", "/api/sync", token, map[string]any{
		"habits": []map[string]any{
			{
				"id": "a", "name": "Habit A", "color": "#10B981",
				"createdAt": "2024-12-01", "completedDates": []string{},
			},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, h, "GET", "/api/habits", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var habits []*model.Habit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &habits))
	ids := make([]string, 0, len(habits))
	for _, habit := range habits {
		ids = append(ids, habit.ID)
	}
	assert.Contains(t, ids, "a")
}

func TestDeleteAllHabits(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	rec := doRequest(t, h, "DELETE", "/api/account/habits", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportDisabledWithoutStorage(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	rec := doRequest(t, h, "POST", "/api/export", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	h := SetupRoutes(testApp(t))
	token := signToken(t, "u1")

	rec := doRequest(t, h, "GET", "/api/stats?days=7", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []store.HabitStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.NotEmpty(t, stats, "placeholder habits show up in stats")
	assert.Len(t, stats[0].Days, 7)

	rec = doRequest(t, h, "GET", "/api/stats?days=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := SetupRoutes(testApp(t))
	rec := doRequest(t, h, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
