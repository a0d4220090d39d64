package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shohruz/portfolio-backend-go/internal/service/chat"
)

type messageRequest struct {
	Message string `json:"message"`
}

func handleOpenSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transcript := deps.Chat.OpenSession(r.Context())
		writeJSON(w, http.StatusCreated, transcript)
	}
}

func handleGetTranscript(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transcript, err := deps.Chat.Transcript(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusNotFound, "not_found", "unknown chat session")
			return
		}
		writeJSON(w, http.StatusOK, transcript)
	}
}

func handleSubmitMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request", "message is required")
			return
		}

		turn, err := deps.Chat.Submit(r.Context(), chi.URLParam(r, "id"), req.Message)
		switch {
		case errors.Is(err, chat.ErrSessionNotFound):
			httpError(w, http.StatusNotFound, "not_found", "unknown chat session")
			return
		case errors.Is(err, chat.ErrTurnInFlight):
			httpError(w, http.StatusConflict, "turn_in_flight", "previous message is still being answered")
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "internal_error", "chat turn failed")
			return
		}

		writeJSON(w, http.StatusOK, turn)
	}
}
