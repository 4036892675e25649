package httpx

import (
	"net/http"
	"strconv"

	apperrors "github.com/m007/school-ui-api/internal/errors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// pathInt parses the named path value as a positive integer. On failure it
// writes a 400 response and returns false.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil || v <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_id",
			Err:     apperrors.Validationf("%s must be a positive integer", name),
		})
		return 0, false
	}
	return v, true
}

// listParams reads limit/offset query parameters with sane bounds.
func listParams(r *http.Request) (limit, offset int) {
	limit = defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= maxListLimit {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
