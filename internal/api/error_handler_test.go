package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/usuarios/users-service/internal/core/domain"
)

func invokeErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body did not decode: %v", err)
	}
	return rec, body
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"user not found", fmt.Errorf("get user: %w", domain.ErrUserNotFound), http.StatusNotFound, "user not found"},
		{"role not found", fmt.Errorf("get role: %w", domain.ErrRoleNotFound), http.StatusNotFound, "role not found"},
		{"duplicate email", fmt.Errorf("create user: %w", domain.ErrDuplicateEmail), http.StatusConflict, "email already registered"},
		{"version conflict", fmt.Errorf("save: %w", domain.ErrVersionConflict), http.StatusConflict, "concurrent update, reload and retry"},
		{"unexpected error", errors.New("write store down"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := invokeErrorHandler(t, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if body.Error != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}

func TestErrorHandlerInvalidInputKeepsMessage(t *testing.T) {
	err := fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)

	rec, body := invokeErrorHandler(t, err)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if body.Error != err.Error() {
		t.Errorf("expected message %q, got %q", err.Error(), body.Error)
	}
}

func TestErrorHandlerPassesThroughEchoErrors(t *testing.T) {
	rec, body := invokeErrorHandler(t, echo.NewHTTPError(http.StatusBadRequest, "malformed request body"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if body.Error != "malformed request body" {
		t.Errorf("unexpected message %q", body.Error)
	}
}
