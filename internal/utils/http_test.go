package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/alramy/internal/models"
	"github.com/vaughan-dsouza/alramy/internal/validation"
)

func TestOKEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, http.StatusCreated, map[string]string{"id": "1"}, "created")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"1"},"success":true,"message":"created"}`, w.Body.String())
}

func TestJSONErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusNotFound, CodeNotFound, "post not found")
	assert.JSONEq(t, `{"success":false,"error":"post not found","code":"NOT_FOUND"}`, w.Body.String())
}

func TestPageEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Page(w, []string{"a"}, 21, 1, 20)
	assert.JSONEq(t, `{"data":["a"],"pagination":{"total":21,"page":1,"pageSize":20,"totalPages":2}}`, w.Body.String())
}

func TestDecodeJSONValidation(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"","content":"x"}`))
	w := httptest.NewRecorder()

	var in validation.CreatePost
	require.Error(t, DecodeJSON(w, r, &in))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		models.ErrorResponse
		Details struct {
			Issues []validation.Issue `json:"issues"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, CodeValidation, resp.Code)
	require.Len(t, resp.Details.Issues, 1)
	assert.Equal(t, "title", resp.Details.Issues[0].Path)
	assert.Equal(t, "min", resp.Details.Issues[0].Rule)
}

func TestDecodeJSONTooLarge(t *testing.T) {
	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	var in validation.CreatePost
	require.Error(t, DecodeJSON(w, r, &in))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDecodeQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?pageSize=500", nil)
	w := httptest.NewRecorder()

	var p validation.Pagination
	require.Error(t, DecodeQuery(w, r, &p))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/?page=2", nil)
	w = httptest.NewRecorder()
	require.NoError(t, DecodeQuery(w, r, &p))
	assert.Equal(t, 2, p.Page.Value)
	assert.Equal(t, 20, p.PageSize.Value)
}
