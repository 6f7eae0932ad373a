package users

import (
	"testing"
)

func TestCreateAndAuthenticate(t *testing.T) {
	s := NewStore()

	u, err := s.Create("ashim", "ashim@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.ID == "" {
		t.Error("Expected a generated user id")
	}

	if got := s.Authenticate("ashim@example.com", "secret-pass"); got == nil || got.ID != u.ID {
		t.Error("Expected authentication by email to succeed")
	}
	if got := s.Authenticate("ashim", "secret-pass"); got == nil || got.ID != u.ID {
		t.Error("Expected authentication by username to succeed")
	}
	if got := s.Authenticate("ashim@example.com", "wrong-pass"); got != nil {
		t.Error("Expected wrong password to fail")
	}
	if got := s.Authenticate("nobody@example.com", "secret-pass"); got != nil {
		t.Error("Expected unknown identity to fail")
	}
}

func TestDuplicateIdentity(t *testing.T) {
	s := NewStore()

	if _, err := s.Create("ashim", "ashim@example.com", "secret-pass"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := s.Create("ashim", "other@example.com", "secret-pass"); err != ErrUsernameExists {
		t.Errorf("Expected ErrUsernameExists, got %v", err)
	}
	if _, err := s.Create("other", "ashim@example.com", "secret-pass"); err != ErrEmailExists {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	s := NewStore()

	u, err := s.Create("ashim", "ashim@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got := s.GetByID(u.ID)
	if got == nil || got.Username != "ashim" || got.Email != "ashim@example.com" {
		t.Errorf("Expected stored user, got %+v", got)
	}
	if s.GetByID("missing") != nil {
		t.Error("Expected nil for unknown id")
	}

	// Returned value is a copy.
	got.Username = "mutated"
	if fresh := s.GetByID(u.ID); fresh.Username != "ashim" {
		t.Error("Expected store state isolated from returned copies")
	}
}
