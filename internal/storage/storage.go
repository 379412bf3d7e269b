// Package storage persists the device-scoped session state: the access
// token, the anonymous identity and its cart reference, and the last
// known customer cart id. It is the Go counterpart of the browser's
// localStorage keys accessToken, anonymousId, anonymousCartId and
// customerCartId.
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
)

// Store reads and writes the state file. Every operation is a single
// read-compute-write cycle under one lock, so partial updates cannot be
// observed even with concurrent callers.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

// state mirrors the persisted key layout. AccessToken stays raw so a
// malformed token entry can be detected and purged without discarding
// the other keys.
type state struct {
	AccessToken     json.RawMessage `json:"accessToken,omitempty"`
	AnonymousID     string          `json:"anonymousId,omitempty"`
	AnonymousCartID string          `json:"anonymousCartId,omitempty"`
	CustomerCartID  string          `json:"customerCartId,omitempty"`
}

// Open returns a Store backed by the given file path. The file does not
// need to exist yet.
func Open(path string, logger *log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Token returns the stored token, or false when absent. A stored entry
// that cannot be parsed is purged and reported as absent; a parse
// failure never reaches the caller.
func (s *Store) Token() (domain.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	if len(st.AccessToken) == 0 {
		return domain.Token{}, false
	}
	var tok domain.Token
	if err := json.Unmarshal(st.AccessToken, &tok); err != nil || tok.Token == "" {
		s.logger.Printf("storage: purging malformed access token entry")
		st.AccessToken = nil
		s.save(st)
		return domain.Token{}, false
	}
	return tok, true
}

func (s *Store) SetToken(tok domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	st := s.load()
	st.AccessToken = raw
	return s.save(st)
}

func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.AccessToken = nil
	return s.save(st)
}

// TokenValid reports whether a token is present and not yet expired.
// An expired entry is purged so it can never be trusted later.
func (s *Store) TokenValid() bool {
	tok, ok := s.Token()
	if !ok {
		return false
	}
	if !tok.Valid(time.Now()) {
		s.mu.Lock()
		st := s.load()
		st.AccessToken = nil
		s.save(st)
		s.mu.Unlock()
		return false
	}
	return true
}

// EnsureAnonymousID returns the persisted anonymous identity, creating
// and storing a fresh one when absent.
func (s *Store) EnsureAnonymousID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	if st.AnonymousID != "" {
		return st.AnonymousID
	}
	st.AnonymousID = uuid.NewString()
	if err := s.save(st); err != nil {
		s.logger.Printf("storage: persist anonymous id: %v", err)
	}
	return st.AnonymousID
}

// AnonymousCartRef returns the persisted anonymous cart reference, or
// false when no anonymous cart id is recorded.
func (s *Store) AnonymousCartRef() (domain.AnonymousCartRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	if st.AnonymousCartID == "" {
		return domain.AnonymousCartRef{}, false
	}
	return domain.AnonymousCartRef{
		AnonymousID: st.AnonymousID,
		CartID:      st.AnonymousCartID,
	}, true
}

func (s *Store) SetAnonymousCartID(cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.AnonymousCartID = cartID
	return s.save(st)
}

// ClearAnonymousCartRef removes both the anonymous cart id and the
// anonymous identity, as required after a successful merge.
func (s *Store) ClearAnonymousCartRef() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.AnonymousCartID = ""
	st.AnonymousID = ""
	return s.save(st)
}

func (s *Store) CustomerCartID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	return st.CustomerCartID, st.CustomerCartID != ""
}

func (s *Store) SetCustomerCartID(cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.CustomerCartID = cartID
	return s.save(st)
}

func (s *Store) ClearCustomerCartID() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	st.CustomerCartID = ""
	return s.save(st)
}

// load reads the state file. A missing file means empty state; an
// unreadable or corrupted file is discarded so the application always
// starts from a usable (empty) state.
func (s *Store) load() state {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Printf("storage: read %s: %v", s.path, err)
		}
		return state{}
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Printf("storage: corrupt state file %s, resetting: %v", s.path, err)
		return state{}
	}
	return st
}

func (s *Store) save(st state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
