package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Error codes carried in the failure envelope.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK wraps data in the success envelope.
func OK[T any](w http.ResponseWriter, status int, data T, message string) {
	JSON(w, status, models.Response[T]{Data: data, Success: true, Message: message})
}

// Page writes a paginated list envelope.
func Page[T any](w http.ResponseWriter, items []T, total, page, pageSize int) {
	JSON(w, http.StatusOK, models.NewPaginated(items, total, page, pageSize))
}

// JSONError writes the failure envelope.
func JSONError(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, models.ErrorResponse{Error: msg, Code: code})
}

// ValidationError writes a 400 listing every issue.
func ValidationError(w http.ResponseWriter, verr *validation.Error) {
	JSON(w, http.StatusBadRequest, models.ErrorResponse{
		Error:   verr.Error(),
		Code:    CodeValidation,
		Details: map[string]any{"issues": verr.Issues},
	})
}

// DecodeJSON reads the body into the schema and validates it. On failure the
// response has already been written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, schema any) error {
	if r.Body == nil {
		JSONError(w, http.StatusBadRequest, CodeBadRequest, "empty request body")
		return http.ErrBodyNotAllowed
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return err
		}
		JSONError(w, http.StatusBadRequest, CodeBadRequest, "could not read body")
		return err
	}

	return reportValidation(w, validation.Decode(body, schema))
}

// DecodeQuery fills the schema from the query string and validates it.
func DecodeQuery(w http.ResponseWriter, r *http.Request, schema any) error {
	return reportValidation(w, validation.DecodeQuery(r.URL.Query(), schema))
}

func reportValidation(w http.ResponseWriter, err error) error {
	if err == nil {
		return nil
	}
	if verr, ok := validation.AsError(err); ok {
		ValidationError(w, verr)
		return err
	}
	JSONError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	return err
}
