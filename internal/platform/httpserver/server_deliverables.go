package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	deliverablehttp "deliverables/contexts/campaign-editorial/deliverable-review-service/transport/http"
)

const maxBodyBytes = 1 << 20

func (s *Server) actor(w http.ResponseWriter, r *http.Request) (entities.Actor, bool) {
	if s.auth == nil {
		writeAuthError(w, ErrInvalidToken)
		return entities.Actor{}, false
	}
	actor, err := s.auth.Authenticate(r)
	if err != nil {
		s.logger.Debug("request rejected",
			"event", "http_auth_rejected",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeAuthError(w, err)
		return entities.Actor{}, false
	}
	return actor, true
}

// decodeBody accepts an empty body for requests whose fields are all optional.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		writeDeliverableError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", false)
		return false
	}
	return true
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.CreateSubmissionRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	resp, err := s.deliverables.Handler.CreateSubmissionHandler(r.Context(), actor, req)
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.deliverables.Handler.ListSubmissionsHandler(
		r.Context(),
		actor,
		query.Get("campaign_id"),
		query.Get("creator_id"),
		query.Get("submission_type"),
		query.Get("status"),
	)
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	resp, err := s.deliverables.Handler.GetSubmissionHandler(r.Context(), actor, r.PathValue("submission_id"))
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	resp, err := s.deliverables.Handler.GetStatusHandler(r.Context(), actor, r.PathValue("submission_id"))
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.UploadMediaRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	resp, err := s.deliverables.Handler.UploadMediaHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.SubmitRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	resp, err := s.deliverables.Handler.SubmitHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.ApproveRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	resp, err := s.deliverables.Handler.ApproveHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeReviewError(w, resp, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRequestChanges(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.RequestChangesRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	resp, err := s.deliverables.Handler.RequestChangesHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeReviewError(w, resp, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleForwardFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.ForwardFeedbackRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	resp, err := s.deliverables.Handler.ForwardFeedbackHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeReviewError(w, resp, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetryUnlock(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var req deliverablehttp.UnlockRequest
	if !decodeBody(w, r, &req, true) {
		return
	}
	resp, err := s.deliverables.Handler.RetryUnlockHandler(r.Context(), actor, r.PathValue("submission_id"), req)
	if err != nil {
		writeReviewError(w, resp, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatorStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	resp, err := s.deliverables.Handler.CreatorStatusHandler(
		r.Context(),
		actor,
		r.PathValue("campaign_id"),
		r.PathValue("creator_id"),
	)
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActionableStage(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	resp, err := s.deliverables.Handler.ActionableStageHandler(
		r.Context(),
		actor,
		r.PathValue("campaign_id"),
		r.PathValue("creator_id"),
	)
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatorStatuses(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	resp, err := s.deliverables.Handler.CreatorStatusesHandler(r.Context(), actor, r.PathValue("campaign_id"))
	if err != nil {
		writeDeliverableDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
