// Package auth hashes passwords and keeps login sessions for the control
// daemon.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of password.  It panics if hashing
// fails, which only happens for passwords over 72 bytes or a broken
// random source.
func HashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// CheckPassword returns nil if password matches hash.
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Session is an authenticated login.  Sessions live in memory only.
type Session struct {
	Username string
	Expires  time.Time
}

// Sessions stores active sessions by random id.  It is safe for concurrent
// use.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessions returns an empty store.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]Session), now: time.Now}
}

// Create starts a session for username lasting ttl.
func (s *Sessions) Create(username string, ttl time.Duration) (string, Session, error) {
	id, err := randomString(32)
	if err != nil {
		return "", Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{Username: username, Expires: s.now().Add(ttl)}
	s.sessions[id] = sess
	return id, sess, nil
}

// Get returns the session for id unless it is missing or expired.
func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || s.now().After(sess.Expires) {
		return Session{}, false
	}
	return sess, true
}

// Delete removes a session and reports whether it existed.
func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		return true
	}
	return false
}

// Purge drops expired sessions.
func (s *Sessions) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if now.After(sess.Expires) {
			delete(s.sessions, id)
		}
	}
}

// Len returns the number of stored sessions, expired ones included.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// randomString returns n random bytes, URL-safe base64 encoded.
func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
