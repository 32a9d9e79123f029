package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tubecast/internal/logging"
	"tubecast/internal/services"
	"tubecast/internal/store"
)

const defaultRecentLimit = 20

// Server is the JSON-over-HTTP surface in front of Service.
type Server struct {
	service *Service
	logger  *slog.Logger
	httpSrv *http.Server
}

func NewServer(service *Service, bind string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{service: service, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/api/jobs/trigger/{channelID:[0-9]+}", s.handleTrigger).Methods(http.MethodPost)
	r.HandleFunc("/api/jobs/{id:[0-9]+}/approve", s.handleApprove).Methods(http.MethodPost)
	r.HandleFunc("/api/jobs/{id:[0-9]+}", s.handleJob).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs", s.handleRecentJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/channels", s.handleChannels).Methods(http.MethodGet)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	s.httpSrv = &http.Server{
		Addr:              bind,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("api listening", logging.String("bind", s.httpSrv.Addr))
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve accepts connections on an existing listener, for tests.
func (s *Server) Serve(ln net.Listener) error {
	err := s.httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

type approveRequest struct {
	Script string `json:"script"`
}

type jobPayload struct {
	ID           int64  `json:"id"`
	ChannelID    int64  `json:"channel_id"`
	Status       string `json:"status"`
	CurrentStage string `json:"current_stage"`
	Progress     int    `json:"progress"`
	Script       string `json:"script,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	LogOutput    string `json:"log_output,omitempty"`
	CreatedAt    string `json:"created_at"`
	StartedAt    string `json:"started_at,omitempty"`
	CompletedAt  string `json:"completed_at,omitempty"`
}

func toJobPayload(job *store.Job) jobPayload {
	p := jobPayload{
		ID:           job.ID,
		ChannelID:    job.ChannelID,
		Status:       string(job.Status),
		CurrentStage: job.CurrentStage,
		Progress:     job.Progress,
		Script:       job.Script,
		VideoURL:     job.VideoURL,
		LogOutput:    job.LogOutput,
		CreatedAt:    job.CreatedAt.UTC().Format(time.RFC3339),
	}
	if job.StartedAt != nil {
		p.StartedAt = job.StartedAt.UTC().Format(time.RFC3339)
	}
	if job.CompletedAt != nil {
		p.CompletedAt = job.CompletedAt.UTC().Format(time.RFC3339)
	}
	return p
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	channelID, err := strconv.ParseInt(mux.Vars(r)["channelID"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid channel id")
		return
	}
	jobID, err := s.service.Submit(r.Context(), channelID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]int64{"job_id": jobID})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	var req approveRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := s.service.Resume(r.Context(), jobID, req.Script); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "resumed"})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}
	job, err := s.service.Job(r.Context(), jobID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toJobPayload(job))
}

func (s *Server) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []*store.Job
	var err error
	if raw := r.URL.Query().Get("channel"); raw != "" {
		channelID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			s.writeError(w, http.StatusBadRequest, "invalid channel id")
			return
		}
		jobs, err = s.service.ChannelJobs(r.Context(), channelID)
	} else {
		limit := defaultRecentLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, parseErr := strconv.Atoi(raw)
			if parseErr != nil || parsed <= 0 {
				s.writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}
		jobs, err = s.service.RecentJobs(r.Context(), limit)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	payloads := make([]jobPayload, 0, len(jobs))
	for _, job := range jobs {
		payloads = append(payloads, toJobPayload(job))
	}
	s.writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.service.Channels(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	type channelPayload struct {
		ID              int64  `json:"id"`
		Name            string `json:"name"`
		Platform        string `json:"platform"`
		Niche           string `json:"niche"`
		RequireApproval bool   `json:"require_approval"`
	}
	payloads := make([]channelPayload, 0, len(channels))
	for _, ch := range channels {
		payloads = append(payloads, channelPayload{
			ID:              ch.ID,
			Name:            ch.Name,
			Platform:        ch.Platform,
			Niche:           ch.NicheName(),
			RequireApproval: ch.RequireApproval,
		})
	}
	s.writeJSON(w, http.StatusOK, payloads)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.service.QueueHealth(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}
