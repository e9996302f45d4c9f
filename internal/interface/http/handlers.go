package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/careerhub/placement-hub/internal/infrastructure/scheduler"
	"github.com/careerhub/placement-hub/pkg/logger"
)

const defaultHistoryLimit = 20

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth returns the full status with every check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handleReady is the readiness probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ready": true})
}

// handleLive is the liveness probe. It never touches dependencies.
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": s.Uptime().Round(time.Second).String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// JOB HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type jobInfoResponse struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Schedule    string     `json:"schedule"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	RunCount    int64      `json:"run_count"`
	FailCount   int64      `json:"fail_count"`
}

type jobResultResponse struct {
	JobName     string    `json:"job_name"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Manual      bool      `json:"manual"`
}

type jobsResponse struct {
	Jobs    []jobInfoResponse `json:"jobs"`
	Metrics metricsResponse   `json:"metrics"`
}

type metricsResponse struct {
	TotalExecutions int64   `json:"total_executions"`
	TotalFailures   int64   `json:"total_failures"`
	SuccessRate     float64 `json:"success_rate"`
	AverageDuration string  `json:"average_duration"`
}

func toJobResult(r scheduler.JobResult) jobResultResponse {
	resp := jobResultResponse{
		JobName:     r.JobName,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Duration:    r.Duration.String(),
		Success:     r.Success,
		Manual:      r.Manual,
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}
	return resp
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (s *Server) requireJobs(w http.ResponseWriter) bool {
	if s.deps.Jobs == nil {
		writeJSONError(w, http.StatusNotFound, "scheduler_disabled", "Scheduler is not running in this process")
		return false
	}
	return true
}

// handleListJobs lists registered jobs with aggregate metrics.
func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	if !s.requireJobs(w) {
		return
	}

	infos := s.deps.Jobs.ListJobs()
	resp := jobsResponse{Jobs: make([]jobInfoResponse, 0, len(infos))}
	for _, info := range infos {
		resp.Jobs = append(resp.Jobs, jobInfoResponse{
			Name:        info.Name,
			Description: info.Description,
			Schedule:    info.Schedule,
			LastRun:     optionalTime(info.LastRun),
			NextRun:     optionalTime(info.NextRun),
			RunCount:    info.RunCount,
			FailCount:   info.FailCount,
		})
	}

	snap := s.deps.Jobs.Metrics().Snapshot()
	resp.Metrics = metricsResponse{
		TotalExecutions: snap.TotalExecutions,
		TotalFailures:   snap.TotalFailures,
		SuccessRate:     snap.SuccessRate,
		AverageDuration: snap.AverageDuration.String(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleJobHistory returns recent executions, oldest first.
func (s *Server) handleJobHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireJobs(w) {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	history := s.deps.Jobs.History(limit)
	out := make([]jobResultResponse, 0, len(history))
	for _, res := range history {
		out = append(out, toJobResult(res))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRunJob runs a job immediately and reports its result.
func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	if !s.requireJobs(w) {
		return
	}

	name := r.PathValue("name")
	res, err := s.deps.Jobs.RunNow(r.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		writeJSONError(w, http.StatusNotFound, "job_not_found", err.Error())
		return
	case errors.Is(err, scheduler.ErrJobRunning):
		writeJSONError(w, http.StatusConflict, "job_running", err.Error())
		return
	}

	s.logger.Info("manual job run",
		logger.String("job", name),
		logger.Bool("success", res.Success),
		logger.Latency(res.Duration),
	)

	code := http.StatusOK
	if !res.Success {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, toJobResult(res))
}
