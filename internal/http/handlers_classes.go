package httpx

import (
	"net/http"

	"github.com/m007/school-ui-api/internal/domain/model"
	"github.com/m007/school-ui-api/internal/service"
)

// ClassHandlers provides HTTP handlers for class groups and assignments.
type ClassHandlers struct {
	Svc *service.ClassService
}

// Create handles POST /api/classes.
func (h *ClassHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateClassRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	class, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, class)
}

// List handles GET /api/classes.
func (h *ClassHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)
	classes, err := h.Svc.List(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, classes)
}

// Get handles GET /api/classes/{id}.
func (h *ClassHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	class, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, class)
}

// Delete handles DELETE /api/classes/{id}. Assignments go with the class.
func (h *ClassHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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

// AddAssignment handles POST /api/classes/{id}/assignments.
func (h *ClassHandlers) AddAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	var req model.CreateAssignmentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	// The path wins over whatever the body says.
	req.ClassID = id

	assignment, err := h.Svc.AddAssignment(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, assignment)
}

// ListAssignments handles GET /api/classes/{id}/assignments.
func (h *ClassHandlers) ListAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	assignments, err := h.Svc.ListAssignments(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, assignments)
}
