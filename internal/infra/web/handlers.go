package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) generateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := pathID(r, "workspaceID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
			return
		}

		job, err := s.courseUC.Generate(r.Context(), workspaceID, userIDFrom(r.Context()))
		if err != nil {
			writeDomainError(w, err, "Failed to queue course generation")
			return
		}
		writeJSON(w, http.StatusAccepted, job)
	}
}

func (s *Server) jobStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := pathID(r, "workspaceID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
			return
		}

		job, err := s.courseUC.JobStatus(r.Context(), workspaceID)
		if err != nil {
			writeDomainError(w, err, "Failed to read job status")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func (s *Server) courseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := pathID(r, "workspaceID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
			return
		}

		// A build still in flight answers with the job snapshot instead.
		if job, err := s.courseUC.JobStatus(r.Context(), workspaceID); err == nil && !job.Terminal() {
			writeJSON(w, http.StatusAccepted, job)
			return
		}

		course, err := s.courseUC.GetCourse(r.Context(), workspaceID)
		if err != nil {
			writeDomainError(w, err, "Failed to read course")
			return
		}
		writeJSON(w, http.StatusOK, course)
	}
}

func (s *Server) lessonHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, ok := pathID(r, "lessonID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid lesson id")
			return
		}

		lesson, enrichment, err := s.courseUC.GetLesson(r.Context(), lessonID)
		if err != nil {
			writeDomainError(w, err, "Failed to read lesson")
			return
		}

		response := struct {
			Lesson     any `json:"lesson"`
			Enrichment any `json:"enrichment,omitempty"`
		}{Lesson: lesson}
		if enrichment != nil {
			response.Enrichment = enrichment
		}
		writeJSON(w, http.StatusOK, response)
	}
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) messageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := pathID(r, "workspaceID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
			return
		}

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		msg, err := s.workspaceUC.AppendMessage(r.Context(), workspaceID, req.Role, req.Content)
		if err != nil {
			writeDomainError(w, err, "Failed to save message")
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

type memoryRequest struct {
	Value string `json:"value"`
}

func (s *Server) memoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := pathID(r, "workspaceID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
			return
		}
		key := chi.URLParam(r, "key")

		var req memoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		mem, err := s.workspaceUC.UpsertMemory(r.Context(), workspaceID, key, req.Value)
		if err != nil {
			writeDomainError(w, err, "Failed to save memory")
			return
		}
		writeJSON(w, http.StatusOK, mem)
	}
}

type videoTranscriptRequest struct {
	VideoRef string `json:"video_ref"`
}

func (s *Server) videoTranscriptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := pathID(r, "workspaceID")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
			return
		}

		var req videoTranscriptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		transcript, err := s.workspaceUC.AttachVideoTranscript(r.Context(), workspaceID, req.VideoRef)
		if err != nil {
			if errors.Is(err, domain.ErrTranscriptUnavailable) {
				writeError(w, http.StatusUnprocessableEntity, "Transcript unavailable for video")
				return
			}
			writeDomainError(w, err, "Failed to attach transcript")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"characters": len(transcript.Text),
			"path":       transcript.Path,
		})
	}
}
