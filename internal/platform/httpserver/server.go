package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	deliverablereview "deliverables/contexts/campaign-editorial/deliverable-review-service"
	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"
	deliverablehttp "deliverables/contexts/campaign-editorial/deliverable-review-service/transport/http"

	_ "deliverables/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	deliverables deliverablereview.Module
	auth         *Authenticator
	httpServer   *http.Server
}

func New(
	deliverables deliverablereview.Module,
	auth *Authenticator,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		deliverables: deliverables,
		auth:         auth,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /v1/submissions", s.handleCreateSubmission)
	s.mux.HandleFunc("GET /v1/submissions", s.handleListSubmissions)
	s.mux.HandleFunc("GET /v1/submissions/{submission_id}", s.handleGetSubmission)
	s.mux.HandleFunc("GET /v1/submissions/{submission_id}/status", s.handleGetStatus)
	s.mux.HandleFunc("POST /v1/submissions/{submission_id}/media", s.handleUploadMedia)
	s.mux.HandleFunc("POST /v1/submissions/{submission_id}/submit", s.handleSubmit)
	s.mux.HandleFunc("POST /v1/submissions/{submission_id}/approve", s.handleApprove)
	s.mux.HandleFunc("POST /v1/submissions/{submission_id}/request-changes", s.handleRequestChanges)
	s.mux.HandleFunc("POST /v1/submissions/{submission_id}/forward-feedback", s.handleForwardFeedback)
	s.mux.HandleFunc("POST /v1/submissions/{submission_id}/unlock", s.handleRetryUnlock)

	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/creators/{creator_id}/status", s.handleCreatorStatus)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/creators/{creator_id}/stage", s.handleActionableStage)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/creator-statuses", s.handleCreatorStatuses)
}

func writeDeliverableDomainError(w http.ResponseWriter, err error) {
	retryable := domainerrors.Retryable(err)
	switch domainerrors.KindOf(err) {
	case domainerrors.KindNotFound:
		writeDeliverableError(w, http.StatusNotFound, "not_found", err.Error(), retryable)
	case domainerrors.KindForbidden:
		writeDeliverableError(w, http.StatusForbidden, "forbidden", err.Error(), retryable)
	case domainerrors.KindValidation:
		writeDeliverableError(w, http.StatusBadRequest, "validation_failed", err.Error(), retryable)
	case domainerrors.KindInvalidTransition:
		writeDeliverableError(w, http.StatusConflict, "invalid_status_transition", err.Error(), retryable)
	case domainerrors.KindConflict:
		writeDeliverableError(w, http.StatusConflict, "conflict", err.Error(), retryable)
	case domainerrors.KindDependencyFailure:
		writeDeliverableError(w, http.StatusFailedDependency, "dependency_failure", err.Error(), retryable)
	default:
		writeDeliverableError(w, http.StatusInternalServerError, "internal_error", "internal server error", false)
	}
}

// writeReviewError keeps the committed submission in the body when only the
// follow-up stage unlock failed.
func writeReviewError(w http.ResponseWriter, resp deliverablehttp.ReviewResponse, err error) {
	if !errors.Is(err, domainerrors.ErrDependencyFailure) || resp.Submission.SubmissionID == "" {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusFailedDependency, deliverablehttp.DependencyFailureResponse{
		Code:       "dependency_failure",
		Message:    err.Error(),
		Retryable:  true,
		Submission: resp.Submission,
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	code := "invalid_token"
	if errors.Is(err, ErrMissingToken) {
		code = "missing_token"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="deliverables"`)
	writeDeliverableError(w, http.StatusUnauthorized, code, err.Error(), false)
}

func writeDeliverableError(w http.ResponseWriter, status int, code string, message string, retryable bool) {
	writeJSON(w, status, deliverablehttp.ErrorResponse{
		Code:      code,
		Message:   message,
		Retryable: retryable,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
