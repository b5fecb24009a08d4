package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"vidcat/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "issues", "create", "github rejected request", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"issues", "create", "github rejected request"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrValidation, "portal", "parse", "bad limit", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrNotFound, "store", "get", "missing", nil), http.StatusNotFound},
		{services.Wrap(services.ErrTimeout, "source", "fetch", "deadline", nil), http.StatusGatewayTimeout},
		{services.Wrap(services.ErrTransient, "source", "fetch", "503", nil), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !services.Retryable(services.Wrap(services.ErrTimeout, "source", "fetch", "", nil)) {
		t.Fatal("expected timeout to be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrValidation, "source", "fetch", "empty body", nil)) {
		t.Fatal("expected validation failure to be final")
	}
}
