package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m007/school-ui-api/internal/data"
	domainauth "github.com/m007/school-ui-api/internal/domain/auth"
	"github.com/m007/school-ui-api/internal/domain/model"
	apperrors "github.com/m007/school-ui-api/internal/errors"
	"github.com/m007/school-ui-api/internal/service"
)

// PaymentHandlers provides HTTP handlers for tuition installments.
type PaymentHandlers struct {
	Svc      *service.PaymentService
	Students *service.StudentService
}

// Create handles POST /api/payments.
func (h *PaymentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, payment)
}

// List handles GET /api/payments. Students only ever see their own
// installments: the filter is forced to the student record behind the
// authenticated account, regardless of query parameters.
func (h *PaymentHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.PaymentsListOptions{}
	opts.Limit, opts.Offset = listParams(r)

	if raw := r.URL.Query().Get("student_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_filter",
				Err:     apperrors.Validation("student_id must be a positive integer"),
			})
			return
		}
		opts.StudentID = &id
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.PaymentStatus(raw)
		if !status.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_filter",
				Err:     apperrors.Validationf("unknown payment status: %s", raw),
			})
			return
		}
		opts.Status = &status
	}

	if user, ok := UserFromContext(r.Context()); ok && user.Role == domainauth.RoleStudent {
		student, err := h.Students.GetByEmail(r.Context(), user.Email)
		if err != nil {
			if apperrors.IsNotFound(err) {
				// Account not linked to a student record yet.
				WriteJSON(w, http.StatusOK, []*model.Payment{})
				return
			}
			WriteServiceError(w, err)
			return
		}
		opts.StudentID = &student.ID
	}

	payments, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, payments)
}

// Get handles GET /api/payments/{id}.
func (h *PaymentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, payment)
}

// MarkPaid handles POST /api/payments/{id}/paid.
func (h *PaymentHandlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Svc.MarkPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrPaymentAlreadyPaid) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
			return
		}
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, payment)
}
