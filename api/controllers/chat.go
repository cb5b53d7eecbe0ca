package controllers

import (
	"net/http"

	"github.com/atacadolink/atacadolink-backend/api/responses"
	"github.com/atacadolink/atacadolink-backend/api/validators"
	"github.com/atacadolink/atacadolink-backend/internal/chat"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
)

type chatMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type chatTranscriptResponse struct {
	State      enums.ChatState `json:"state"`
	Transcript []chat.Turn     `json:"transcript"`
}

// ChatSend appends a user turn and returns the transcript including the
// assistant reply (or the fallback turn when inference is unavailable).
func ChatSend(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body chatMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transcript, err := ctrl.Chat().Send(r.Context(), body.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, chatTranscriptResponse{
			State:      ctrl.Chat().State(),
			Transcript: transcript,
		})
	}
}

// ChatTranscript returns the conversation so far.
func ChatTranscript(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, chatTranscriptResponse{
			State:      ctrl.Chat().State(),
			Transcript: ctrl.Chat().Transcript(),
		})
	}
}
