package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/universitas/manuales-backend/internal/application/forms"
	"github.com/universitas/manuales-backend/internal/domain"
	"github.com/universitas/manuales-backend/internal/logger"
	"github.com/universitas/manuales-backend/internal/transport/http/dto"
	"github.com/universitas/manuales-backend/internal/transport/http/response"
)

type FormsHandler struct {
	svc *forms.Service
}

func NewFormsHandler(svc *forms.Service) *FormsHandler {
	return &FormsHandler{svc: svc}
}

// identifierFor resolves the row key: authenticated forms trust only the
// session email, public forms take it from the request.
func (h *FormsHandler) identifierFor(r *http.Request, def forms.Definition, bodyEmail string) (string, error) {
	if def.Authenticated {
		return sessionEmail(r)
	}
	if bodyEmail == "" {
		return "", domain.ErrMissingField("email")
	}
	return bodyEmail, nil
}

func (h *FormsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	def, err := h.svc.Definition(formID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	var req dto.FormSubmitRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	identifier, err := h.identifierFor(r, def, req.Email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Submit(r.Context(), formID, identifier, req.Values)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	log := logger.WithCtx(r.Context())
	log.Info().
		Str("form_id", formID).
		Bool("created", res.Created).
		Msg("form_submitted")

	response.OK(w, dto.FormSubmitResponse{Status: "ok", Created: res.Created})
}

func (h *FormsHandler) Status(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	def, err := h.svc.Definition(formID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	identifier, err := h.identifierFor(r, def, r.URL.Query().Get("email"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	st, err := h.svc.Status(r.Context(), formID, identifier)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.FormStatusResponse{Exists: st.Exists, Filled: st.Filled})
}
