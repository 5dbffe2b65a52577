package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteErrorFormat(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{name: "validation", write: func(w http.ResponseWriter) { ValidationError(w, "bad form") }, status: http.StatusBadRequest, code: CodeValidationError},
		{name: "not found", write: func(w http.ResponseWriter) { NotFound(w, "nope") }, status: http.StatusNotFound, code: CodeNotFound},
		{name: "unavailable", write: func(w http.ResponseWriter) { ServiceUnavailable(w, "db down") }, status: http.StatusServiceUnavailable, code: CodeServiceUnavailable},
		{name: "internal", write: func(w http.ResponseWriter) { InternalError(w, "oops") }, status: http.StatusInternalServerError, code: CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.status {
				t.Errorf("status = %d, ожидается %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("некорректный JSON: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, ожидается %q", body.Error.Code, tt.code)
			}
			if body.Error.Message == "" {
				t.Error("пустое сообщение")
			}
		})
	}
}
