package platform

import (
	"errors"
	"testing"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

func TestDecodeErrorDuplicateEmail(t *testing.T) {
	body := []byte(`{"statusCode":400,"message":"There is already an existing customer with the provided email.","errors":[{"code":"DuplicateField","field":"email","message":"duplicate value"}]}`)
	err := decodeError(400, body)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email sentinel, got %v", err)
	}
	var pe *domain.PlatformError
	if !errors.As(err, &pe) {
		t.Fatalf("expected wrapped platform error")
	}
	if pe.StatusCode != 400 || !pe.HasCode("DuplicateField") {
		t.Fatalf("unexpected platform error: %+v", pe)
	}
}

func TestDecodeErrorStatusMapping(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{404, domain.ErrNotFound},
		{409, domain.ErrConflict},
		{401, domain.ErrUnauthorized},
		{403, domain.ErrUnauthorized},
	}
	for _, tc := range cases {
		err := decodeError(tc.status, []byte(`{"statusCode":0,"message":"boom"}`))
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.sentinel, err)
		}
	}
}

func TestDecodeErrorUnparsableBody(t *testing.T) {
	err := decodeError(500, []byte(`<html>gateway</html>`))
	var pe *domain.PlatformError
	if !errors.As(err, &pe) {
		t.Fatalf("expected platform error, got %v", err)
	}
	if pe.StatusCode != 500 || pe.Message == "" {
		t.Fatalf("unexpected platform error: %+v", pe)
	}
}
