package httpx

import (
	"net/http"

	"github.com/m007/school-ui-api/internal/domain/model"
	"github.com/m007/school-ui-api/internal/service"
)

// TeacherHandlers provides HTTP handlers for teaching staff records.
type TeacherHandlers struct {
	Svc *service.TeacherService
}

// Create handles POST /api/teachers.
func (h *TeacherHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTeacherRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	teacher, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, teacher)
}

// List handles GET /api/teachers.
func (h *TeacherHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)
	teachers, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, teachers)
}

// Get handles GET /api/teachers/{id}.
func (h *TeacherHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	teacher, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, teacher)
}

// Delete handles DELETE /api/teachers/{id}.
func (h *TeacherHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
