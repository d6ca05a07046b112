package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnycalora/Reliabot/internal/clock"
	"github.com/Vinnycalora/Reliabot/internal/config"
	"github.com/Vinnycalora/Reliabot/internal/model"
	"github.com/Vinnycalora/Reliabot/internal/repository"
	"github.com/Vinnycalora/Reliabot/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *clock.Fake) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	fake := clock.NewFake(time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC))
	logger := zerolog.Nop()

	streaks := service.NewStreakService(userRepo, logger)
	analytics := service.NewAnalyticsService(taskRepo, streaks, logger)
	tasks := service.NewTaskService(taskRepo, userRepo, streaks, fake, config.CompletionPolicy{UpdateStreak: true}, logger)

	router := gin.New()
	New(tasks, streaks, analytics, clock.NewService(fake), logger).Register(router)
	return router, fake
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_AddAndListTasks(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/task", gin.H{"user_id": "u1", "task": "write the report"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.False(t, created.Completed)

	rec = doJSON(t, router, http.MethodGet, "/tasks/u1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "write the report", tasks[0].Name)
}

func TestHandler_DoneUnknownTaskIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/done", gin.H{"user_id": "u1", "id": 42}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DoneCompletesAndChecksIn(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/task", gin.H{"user_id": "u1", "task": "task"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/done", gin.H{"user_id": "u1", "id": created.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Completion with the streak policy enabled counts as a check-in.
	rec = doJSON(t, router, http.MethodGet, "/streak/u1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"streak": 1}`, rec.Body.String())

	// A second /done on the same task is already in the desired state.
	rec = doJSON(t, router, http.MethodPost, "/done", gin.H{"user_id": "u1", "id": created.ID}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_OwnershipMismatchIs403(t *testing.T) {
	router, _ := newTestRouter(t)

	headers := map[string]string{"X-User-ID": "bob"}
	rec := doJSON(t, router, http.MethodPost, "/task", gin.H{"user_id": "alice", "task": "sneaky"}, headers)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/tasks/alice", nil, headers)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandler_ValidationIs400(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/task", gin.H{"user_id": "u1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	hour := 24
	rec = doJSON(t, router, http.MethodPost, "/reminder", gin.H{"user_id": "u1", "hour": hour}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Summary(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/task", gin.H{"user_id": "u1", "task": "task"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/done", gin.H{"user_id": "u1", "id": created.ID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/summary/u1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"completed_this_week": 1, "total_completed": 1, "streak": 1}`, rec.Body.String())
}

func TestHandler_Status(t *testing.T) {
	router, fake := newTestRouter(t)
	fake.Advance(42 * time.Second)

	rec := doJSON(t, router, http.MethodGet, "/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Status    string  `json:"status"`
		Uptime    float64 `json:"uptime"`
		Timestamp string  `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "Bot is online", status.Status)
	assert.Equal(t, float64(42), status.Uptime)
	assert.NotEmpty(t, status.Timestamp)
}
