package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"talentflow/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "remote", "patch status", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"remote", "patch status", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrNotFound, "store", "get", "", nil), http.StatusNotFound},
		{services.Wrap(services.ErrInvalidStage, "store", "set", "", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrValidation, "api", "bind", "", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrConflict, "store", "set", "", nil), http.StatusConflict},
		{services.Wrap(services.ErrTimeout, "remote", "probe", "", nil), http.StatusGatewayTimeout},
		{services.Wrap(services.ErrTransient, "remote", "load", "", nil), http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestIsProgrammerError(t *testing.T) {
	if !services.IsProgrammerError(services.Wrap(services.ErrNotFound, "", "", "", nil)) {
		t.Fatal("expected not found to be a programmer error")
	}
	if services.IsProgrammerError(services.Wrap(services.ErrTransient, "", "", "", nil)) {
		t.Fatal("did not expect transient failure to be a programmer error")
	}
}
