package httpx

import (
	"net/http"

	"github.com/m007/school-ui-api/internal/domain/model"
	"github.com/m007/school-ui-api/internal/service"
)

// ReceiptHandlers provides HTTP handlers for payment receipts.
type ReceiptHandlers struct {
	Svc *service.ReceiptService
}

// Issue handles POST /api/receipts. The issuing account is recorded on the
// receipt; a body-supplied issued_by is ignored when a user is present.
func (h *ReceiptHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	var req model.IssueReceiptRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if user, ok := UserFromContext(r.Context()); ok {
		req.IssuedBy = user.Email
	}

	rcpt, err := h.Svc.Issue(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, rcpt)
}

// Get handles GET /api/receipts/{id}.
func (h *ReceiptHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rcpt, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rcpt)
}

// Print handles GET /receipts/{id}/print, the printable HTML view.
func (h *ReceiptHandlers) Print(w http.ResponseWriter, r *http.Request) {
	rcpt, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	html, err := h.Svc.RenderHTML(rcpt)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		// Client gone; nothing to recover.
		return
	}
}
