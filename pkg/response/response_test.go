package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "demo"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", resp.Message)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Message != "created" {
		t.Errorf("expected message 'created', got %q", resp.Message)
	}
}

func TestErrorWithAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantCode   int
	}{
		{"bad request", NewBadRequest("bad input"), http.StatusBadRequest, 400},
		{"unauthorized", NewUnauthorized("no token"), http.StatusUnauthorized, 401},
		{"not found", NewNotFound("missing"), http.StatusNotFound, 404},
		{"conflict", NewConflict("already locked"), http.StatusConflict, 409},
		{"server error", NewServerError("boom"), http.StatusInternalServerError, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				Error(c, tt.err)
			})

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, expected %d", w.Code, tt.wantStatus)
			}
			resp := parseResponse(t, w)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %d, expected %d", resp.Code, tt.wantCode)
			}
			if resp.Message != tt.err.Message {
				t.Errorf("message = %q, expected %q", resp.Message, tt.err.Message)
			}
		})
	}
}

func TestErrorWithPlainError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("something broke"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusInternalServerError)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("code = %d, expected 500", resp.Code)
	}
	if resp.Message != "something broke" {
		t.Errorf("message = %q, expected %q", resp.Message, "something broke")
	}
}

func TestErrorWithWrappedAppError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewNotFound("account not found"))

	w := performRequest(func(c *gin.Context) {
		Error(c, wrapped)
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusNotFound)
	}
}

func TestAppErrorImplementsError(t *testing.T) {
	var err error = NewBadRequest("invalid")
	if err.Error() != "invalid" {
		t.Errorf("Error() = %q, expected %q", err.Error(), "invalid")
	}
}
