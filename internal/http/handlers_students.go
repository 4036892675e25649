package httpx

import (
	"net/http"

	"github.com/m007/school-ui-api/internal/domain/model"
	"github.com/m007/school-ui-api/internal/service"
)

// StudentHandlers provides HTTP handlers for student enrollment.
type StudentHandlers struct {
	Svc *service.StudentService
}

// Enroll handles POST /api/students.
func (h *StudentHandlers) Enroll(w http.ResponseWriter, r *http.Request) {
	var req model.CreateStudentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	student, err := h.Svc.Enroll(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, student)
}

// List handles GET /api/students.
func (h *StudentHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)
	students, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, students)
}

// Get handles GET /api/students/{id}.
func (h *StudentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	student, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, student)
}

// Delete handles DELETE /api/students/{id}.
func (h *StudentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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
