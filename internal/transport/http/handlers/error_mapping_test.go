package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/identra/identity-service/internal/core/domain"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithDomainError(c, err)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error response: %v", err)
	}
	return body
}

func TestRespondWithDomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.NewValidationError("email", "must not be empty"), http.StatusBadRequest},
		{"unauthorized", domain.NewUnauthorizedError("password mismatch"), http.StatusUnauthorized},
		{"forbidden", domain.NewForbiddenError("delete", "Role", "system roles are immutable"), http.StatusForbidden},
		{"not found", domain.NewNotFoundError("User", "user-1"), http.StatusNotFound},
		{"conflict", domain.NewConflictError("User", "email", "alice@example.com"), http.StatusConflict},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := respond(t, tc.err)
			if rec.Code != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRespondWithDomainErrorWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("get user: %w", domain.NewNotFoundError("User", "user-1"))

	rec := respond(t, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected wrapped error to unwrap to 404, got %d", rec.Code)
	}
}

func TestRespondWithDomainErrorValidationField(t *testing.T) {
	rec := respond(t, domain.NewValidationError("email", "must contain an @ sign"))

	body := decodeError(t, rec)
	if body.Field != "email" {
		t.Errorf("expected field email, got %q", body.Field)
	}
	if body.Error != "must contain an @ sign" {
		t.Errorf("expected reason in error message, got %q", body.Error)
	}
}

func TestRespondWithDomainErrorHidesUnauthorizedReason(t *testing.T) {
	rec := respond(t, domain.NewUnauthorizedError("user is deactivated"))

	body := decodeError(t, rec)
	if body.Error != "invalid credentials" {
		t.Errorf("expected uniform credentials message, got %q", body.Error)
	}
}

func TestRespondWithDomainErrorHidesInternalDetail(t *testing.T) {
	rec := respond(t, errors.New("pq: relation identity.users does not exist"))

	body := decodeError(t, rec)
	if body.Error != "internal server error" {
		t.Errorf("expected generic internal message, got %q", body.Error)
	}
}
