package http_handlers

import (
	"net/http"

	"github.com/universitas/manuales-backend/internal/application/assistant"
	"github.com/universitas/manuales-backend/internal/transport/http/dto"
	"github.com/universitas/manuales-backend/internal/transport/http/middleware"
	"github.com/universitas/manuales-backend/internal/transport/http/response"
)

type AssistantHandler struct {
	svc *assistant.Service
}

func NewAssistantHandler(svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

func (h *AssistantHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req dto.AssistantMessageRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	// The transcript names the speaker after the session when available;
	// anonymous visitors can still pass a display name.
	userName := req.UserName
	if email, ok := middleware.EmailFromContext(r.Context()); ok && email != "" {
		userName = email
	}

	reply, err := h.svc.Message(r.Context(), userName, req.Message, req.SessionID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.AssistantMessageResponse{
		Reply:     reply.Text,
		SessionID: reply.SessionID,
	})
}
