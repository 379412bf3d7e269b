package storage

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return Open(path, log.New(io.Discard, "", 0))
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.Token(); ok {
		t.Fatalf("expected no token in fresh store")
	}

	tok := domain.Token{
		Token:          "abc",
		ExpirationTime: time.Now().Add(time.Hour).UnixMilli(),
		RefreshToken:   "refresh",
	}
	if err := s.SetToken(tok); err != nil {
		t.Fatalf("set token: %v", err)
	}

	got, ok := s.Token()
	if !ok {
		t.Fatalf("expected token present")
	}
	if got != tok {
		t.Fatalf("unexpected token: %+v", got)
	}
	if !s.TokenValid() {
		t.Fatalf("expected token valid")
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Fatalf("expected token cleared")
	}
}

func TestTokenValidExpiredPurges(t *testing.T) {
	s := newTestStore(t)

	tok := domain.Token{
		Token:          "stale",
		ExpirationTime: time.Now().Add(-time.Minute).UnixMilli(),
	}
	if err := s.SetToken(tok); err != nil {
		t.Fatalf("set token: %v", err)
	}

	if s.TokenValid() {
		t.Fatalf("expected expired token to be invalid")
	}
	// The expired entry must be gone afterwards.
	if _, ok := s.Token(); ok {
		t.Fatalf("expected expired token purged")
	}
}

func TestMalformedTokenTreatedAsAbsent(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(s.path, []byte(`{"accessToken":{"nope":true},"anonymousId":"anon"}`), 0o600); err != nil {
		t.Fatalf("seed state file: %v", err)
	}

	if _, ok := s.Token(); ok {
		t.Fatalf("expected malformed token treated as absent")
	}
	// Other keys survive the purge.
	if got := s.EnsureAnonymousID(); got != "anon" {
		t.Fatalf("expected anonymous id preserved, got %q", got)
	}
}

func TestCorruptStateFileResets(t *testing.T) {
	s := newTestStore(t)

	if err := os.WriteFile(s.path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("seed state file: %v", err)
	}

	if _, ok := s.Token(); ok {
		t.Fatalf("expected no token from corrupt file")
	}
	if _, ok := s.AnonymousCartRef(); ok {
		t.Fatalf("expected no cart ref from corrupt file")
	}
}

func TestEnsureAnonymousIDStable(t *testing.T) {
	s := newTestStore(t)

	first := s.EnsureAnonymousID()
	if first == "" {
		t.Fatalf("expected generated anonymous id")
	}
	if second := s.EnsureAnonymousID(); second != first {
		t.Fatalf("expected stable anonymous id, got %q then %q", first, second)
	}
}

func TestAnonymousCartRefLifecycle(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.AnonymousCartRef(); ok {
		t.Fatalf("expected no ref in fresh store")
	}

	anonID := s.EnsureAnonymousID()
	if err := s.SetAnonymousCartID("cart-1"); err != nil {
		t.Fatalf("set cart id: %v", err)
	}

	ref, ok := s.AnonymousCartRef()
	if !ok {
		t.Fatalf("expected ref present")
	}
	if ref.CartID != "cart-1" || ref.AnonymousID != anonID {
		t.Fatalf("unexpected ref: %+v", ref)
	}

	if err := s.ClearAnonymousCartRef(); err != nil {
		t.Fatalf("clear ref: %v", err)
	}
	if _, ok := s.AnonymousCartRef(); ok {
		t.Fatalf("expected ref cleared")
	}
	// Clearing the ref also retires the anonymous identity.
	if got := s.EnsureAnonymousID(); got == anonID {
		t.Fatalf("expected a fresh anonymous id after clear")
	}
}

func TestCustomerCartID(t *testing.T) {
	s := newTestStore(t)

	if _, ok := s.CustomerCartID(); ok {
		t.Fatalf("expected no customer cart id in fresh store")
	}
	if err := s.SetCustomerCartID("cust-cart"); err != nil {
		t.Fatalf("set customer cart id: %v", err)
	}
	id, ok := s.CustomerCartID()
	if !ok || id != "cust-cart" {
		t.Fatalf("unexpected customer cart id: %q %v", id, ok)
	}
	if err := s.ClearCustomerCartID(); err != nil {
		t.Fatalf("clear customer cart id: %v", err)
	}
	if _, ok := s.CustomerCartID(); ok {
		t.Fatalf("expected customer cart id cleared")
	}
}

func TestStatePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	logger := log.New(io.Discard, "", 0)

	s := Open(path, logger)
	tok := domain.Token{Token: "abc", ExpirationTime: time.Now().Add(time.Hour).UnixMilli()}
	if err := s.SetToken(tok); err != nil {
		t.Fatalf("set token: %v", err)
	}

	reopened := Open(path, logger)
	got, ok := reopened.Token()
	if !ok || got.Token != "abc" {
		t.Fatalf("expected token to survive reopen, got %+v %v", got, ok)
	}
}
