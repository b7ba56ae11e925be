package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts chat endpoints on the given router.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Post("/api/chat", handleChat(engine))
	r.Get("/api/chat/sessions/{id}/messages", handleMessages(engine))
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func handleChat(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		reply, err := engine.Ask(r.Context(), req.SessionID, "dashboard", req.Message)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

func handleMessages(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if _, err := engine.Store().GetSession(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}

		messages, err := engine.Store().ListMessages(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if messages == nil {
			messages = []ChatMessage{}
		}
		writeJSON(w, http.StatusOK, messages)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
