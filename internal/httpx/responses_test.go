package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"key": "value"}
	meta := map[string]int{"total": 10}

	JSONSuccess(w, data, meta)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type application/json")
	}

	var response SuccessResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !response.Success {
		t.Error("Expected success to be true")
	}

	if response.Data == nil {
		t.Error("Expected data to be present")
	}
}

func TestJSONCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONCreated(w, "/api/books/7", map[string]int{"id": 7})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/api/books/7" {
		t.Errorf("Expected Location /api/books/7, got %q", got)
	}
}

func TestJSONNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	JSONNoContent(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestJSONRaw(t *testing.T) {
	payload, err := MarshalSuccess([]int{1, 2}, map[string]int{"page": 1})
	if err != nil {
		t.Fatalf("MarshalSuccess: %v", err)
	}

	w := httptest.NewRecorder()
	JSONRaw(w, http.StatusOK, payload)

	if w.Body.String() != `{"success":true,"data":[1,2],"meta":{"page":1}}` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))
	details := []ErrorDetail{
		{Field: "title", Message: "title is required"},
	}

	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Success {
		t.Error("Expected success to be false")
	}
	if response.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", response.Error.Code)
	}
	if len(response.Error.Details) != 1 {
		t.Errorf("Expected 1 detail, got %d", len(response.Error.Details))
	}
	meta, _ := response.Meta.(map[string]any)
	if meta["request_id"] != "req-1" {
		t.Errorf("Expected request_id req-1 in meta, got %v", response.Meta)
	}
}
