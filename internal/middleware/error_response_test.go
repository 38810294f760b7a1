package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/botcatalog/internal/model"
)

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) ErrorResponseBody {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorResponse(w, http.StatusNotFound, model.NewProductNotFoundError("p-1"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	body := decodeErrorBody(t, w)
	if body.Code != model.ErrCodeProductNotFound {
		t.Errorf("code = %q", body.Code)
	}
	if body.Category != "catalog" || body.Action == "" || body.Message == "" {
		t.Errorf("body = %+v", body)
	}
	if body.Fields != nil {
		t.Errorf("fields = %v, want omitted", body.Fields)
	}
}

func TestWriteErrorResponse_IncludesValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(map[string]string{
		"name": "name is required",
	}))

	body := decodeErrorBody(t, w)
	if body.Fields["name"] != "name is required" {
		t.Errorf("fields = %v", body.Fields)
	}
}

func TestWriteInternalServerError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Code != model.ErrCodeInternal || body.Category != "system" {
		t.Errorf("body = %+v", body)
	}
}
