package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/infrastructure/scheduler"
	"github.com/careerhub/placement-hub/internal/interface/http/handlers"
)

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub job" }
func (j *stubJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, checks map[string]error, jobs ...scheduler.Job) *Server {
	t.Helper()

	health := handlers.NewCompositeHealthChecker("test")
	for name, err := range checks {
		err := err
		health.AddCheck(name, handlers.NewPingCheck(pingFunc(func(context.Context) error { return err })))
	}

	deps := Dependencies{HealthChecker: health}
	if len(jobs) > 0 {
		sched := scheduler.NewScheduler(scheduler.SchedulerConfig{})
		for _, j := range jobs {
			require.NoError(t, sched.Register(j, scheduler.NewIntervalSchedule(time.Hour)))
		}
		deps.Jobs = sched
	}
	return NewServer(DefaultConfig(), deps)
}

func do(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealth(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		s := newTestServer(t, map[string]error{"postgres": nil, "redis": nil})

		rec, body := do(t, s, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, body.Success)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("failing check", func(t *testing.T) {
		s := newTestServer(t, map[string]error{"postgres": nil, "redis": errors.New("connection refused")})

		rec, _ := do(t, s, http.MethodGet, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Some checks failed: redis")

		rec, body := do(t, s, http.MethodGet, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "not_ready", body.Error.Code)
	})

	t.Run("liveness ignores checks", func(t *testing.T) {
		s := newTestServer(t, map[string]error{"postgres": errors.New("down")})

		rec, body := do(t, s, http.MethodGet, "/live")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, body.Success)
	})
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestJobs(t *testing.T) {
	sweep := &stubJob{name: "close_expired_postings"}
	broken := &stubJob{name: "broken", err: errors.New("boom")}
	s := newTestServer(t, nil, sweep, broken)

	rec, body := do(t, s, http.MethodGet, "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var jobs jobsResponse
	require.NoError(t, json.Unmarshal(raw, &jobs))
	require.Len(t, jobs.Jobs, 2)
	assert.Equal(t, "broken", jobs.Jobs[0].Name)
	assert.Equal(t, "@every 1h0m0s", jobs.Jobs[1].Schedule)

	rec, _ = do(t, s, http.MethodPost, "/jobs/close_expired_postings/run")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sweep.runs)

	rec, _ = do(t, s, http.MethodPost, "/jobs/broken/run")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")

	rec, body = do(t, s, http.MethodPost, "/jobs/missing/run")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "job_not_found", body.Error.Code)

	rec, body = do(t, s, http.MethodGet, "/jobs/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	history, ok := body.Data.([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "broken", history[0].(map[string]any)["job_name"])

	rec, _ = do(t, s, http.MethodGet, "/jobs/history?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobs_SchedulerDisabled(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := do(t, s, http.MethodGet, "/jobs")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "scheduler_disabled", body.Error.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(t, nil)
	s.router.HandleFunc("GET /panic", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec, body := do(t, s, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "internal_server_error", body.Error.Code)
}

func TestConfigAddress(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8081", DefaultConfig().Address())
}
