package auth

import (
	"testing"
	"time"
)

func TestPasswordHash(t *testing.T) {
	h := HashPassword("s3cret")
	if h == "s3cret" {
		t.Fatal("password stored in clear")
	}
	if err := CheckPassword("s3cret", h); err != nil {
		t.Fatalf("matching password rejected: %v", err)
	}
	if err := CheckPassword("wrong", h); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestSessionLifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions()
	s.now = func() time.Time { return now }

	id, sess, err := s.Create("admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Username != "admin" || !sess.Expires.Equal(now.Add(time.Hour)) {
		t.Fatalf("session = %+v", sess)
	}
	if _, ok := s.Get(id); !ok {
		t.Fatal("fresh session missing")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := s.Get(id); ok {
		t.Fatal("expired session returned")
	}
	s.Purge()
	if s.Len() != 0 {
		t.Fatalf("Len after purge = %d", s.Len())
	}

	id2, _, _ := s.Create("bob", time.Hour)
	if !s.Delete(id2) || s.Delete(id2) {
		t.Fatal("Delete should succeed once")
	}
}

func TestSessionIDsUnique(t *testing.T) {
	s := NewSessions()
	a, _, _ := s.Create("x", time.Minute)
	b, _, _ := s.Create("x", time.Minute)
	if a == b || a == "" {
		t.Fatalf("ids %q %q", a, b)
	}
}
