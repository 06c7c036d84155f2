package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func record(t *testing.T, fn func(c echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	if err := fn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("write response: %v", err)
	}
	return rec
}

func TestAppErrorResponse(t *testing.T) {
	cause := errors.New("connection refused")
	rec := record(t, func(c echo.Context) error {
		return AppErrorResponse(c, InternalError("lookup failed").WithError(cause))
	})

	body := rec.Body.String()
	if !strings.Contains(body, `"status":500`) {
		t.Fatalf("want status 500 in envelope, got %s", body)
	}
	if !strings.Contains(body, "ERR_INTERNAL") || !strings.Contains(body, "lookup failed") {
		t.Fatalf("want error code and message, got %s", body)
	}
	if strings.Contains(body, "connection refused") {
		t.Fatalf("underlying error must not leak to the client: %s", body)
	}
}

func TestAppErrorResponsePlainError(t *testing.T) {
	rec := record(t, func(c echo.Context) error {
		return AppErrorResponse(c, errors.New("boom"))
	})

	body := rec.Body.String()
	if !strings.Contains(body, `"status":500`) {
		t.Fatalf("want fallback 500, got %s", body)
	}
	if strings.Contains(body, "boom") {
		t.Fatalf("raw error must not leak to the client: %s", body)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := InternalError("lookup failed").WithError(cause)
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error must survive errors.Is")
	}
	if got := err.Error(); !strings.Contains(got, "timeout") {
		t.Fatalf("Error() should include the cause, got %q", got)
	}
}
