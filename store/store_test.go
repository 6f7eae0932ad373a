package store

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func testPoll(id, createdBy string) *Poll {
	return &Poll{
		ID:        id,
		Question:  "Question " + id,
		Theme:     "strawberry",
		Options: []PollOption{
			{Text: "A", Votes: 0},
			{Text: "B", Votes: 0},
		},
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		Accepting: true,
	}
}

func TestInsertAndOrder(t *testing.T) {
	s := New()

	for i := 0; i < 5; i++ {
		if err := s.Insert(testPoll(fmt.Sprintf("p%d", i), "alice")); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	all := s.GetAll()
	if len(all) != 5 {
		t.Fatalf("Expected 5 polls, got %d", len(all))
	}
	for i, p := range all {
		if want := fmt.Sprintf("p%d", i); p.ID != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, p.ID)
		}
	}
}

func TestInsertDuplicateID(t *testing.T) {
	s := New()

	if err := s.Insert(testPoll("p1", "alice")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.Insert(testPoll("p1", "bob")); err != ErrDuplicateID {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 poll after duplicate insert, got %d", s.Len())
	}
}

func TestGetByID(t *testing.T) {
	s := New()
	s.Insert(testPoll("p1", "alice"))

	if p := s.GetByID("p1"); p == nil || p.ID != "p1" {
		t.Errorf("Expected poll p1, got %+v", p)
	}
	if p := s.GetByID("missing"); p != nil {
		t.Errorf("Expected nil for missing id, got %+v", p)
	}

	// Read idempotence: two reads without an intervening mutation are
	// identical snapshots.
	a := s.GetByID("p1")
	b := s.GetByID("p1")
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical snapshots from repeated reads")
	}
}

func TestGetByCreator(t *testing.T) {
	s := New()
	s.Insert(testPoll("p1", "alice"))
	s.Insert(testPoll("p2", "bob"))
	s.Insert(testPoll("p3", "alice"))

	mine := s.GetByCreator("alice")
	if len(mine) != 2 || mine[0].ID != "p1" || mine[1].ID != "p3" {
		t.Errorf("Expected [p1 p3] for alice, got %+v", mine)
	}

	if got := s.GetByCreator("nobody"); len(got) != 0 {
		t.Errorf("Expected empty result for unknown creator, got %+v", got)
	}
}

func TestIndexOf(t *testing.T) {
	s := New()
	s.Insert(testPoll("p1", "alice"))
	s.Insert(testPoll("p2", "alice"))

	if i := s.IndexOf("p2"); i != 1 {
		t.Errorf("Expected index 1, got %d", i)
	}
	if i := s.IndexOf("missing"); i != -1 {
		t.Errorf("Expected -1 for missing id, got %d", i)
	}
}

func TestReplaceAndRemoveAt(t *testing.T) {
	s := New()
	s.Insert(testPoll("p1", "alice"))
	s.Insert(testPoll("p2", "alice"))

	updated := testPoll("p2", "alice")
	updated.Question = "changed"
	if err := s.Replace(1, updated); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got := s.GetByID("p2"); got.Question != "changed" {
		t.Errorf("Expected replaced poll, got %+v", got)
	}

	if err := s.Replace(7, updated); err != ErrOutOfRange {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}

	removed, err := s.RemoveAt(0)
	if err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	if removed.ID != "p1" {
		t.Errorf("Expected removed snapshot p1, got %s", removed.ID)
	}
	if s.Len() != 1 || s.IndexOf("p2") != 0 {
		t.Error("Expected remaining polls to shift down")
	}

	if _, err := s.RemoveAt(5); err != ErrOutOfRange {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
}

func TestCommitSurvivesPositionShift(t *testing.T) {
	s := New()
	s.Insert(testPoll("p1", "alice"))
	s.Insert(testPoll("p2", "alice"))

	// Removing an earlier poll shifts p2's position; Commit re-resolves
	// the position by id.
	if _, err := s.Remove("p1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	updated := testPoll("p2", "alice")
	updated.Question = "changed"
	if err := s.Commit(updated); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if got := s.GetByID("p2"); got.Question != "changed" {
		t.Errorf("Expected committed poll, got %+v", got)
	}

	if err := s.Commit(testPoll("gone", "alice")); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCopyIsolation(t *testing.T) {
	s := New()
	s.Insert(testPoll("p1", "alice"))

	p := s.GetByID("p1")
	p.Options[0].Votes = 99
	p.Question = "mutated"

	fresh := s.GetByID("p1")
	if fresh.Options[0].Votes != 0 || fresh.Question == "mutated" {
		t.Error("Expected stored state to be isolated from returned copies")
	}
}

func TestSeed(t *testing.T) {
	s := New()
	if err := s.Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	all := s.GetAll()
	if len(all) != 5 {
		t.Fatalf("Expected 5 seed polls, got %d", len(all))
	}

	first := all[0]
	if first.ID != "h347hd839bd73" {
		t.Errorf("Unexpected first seed poll id: %s", first.ID)
	}
	if first.UpdatedAt != nil {
		t.Error("Expected first seed poll to have no updatedAt")
	}
	if all[1].UpdatedAt == nil {
		t.Error("Expected second seed poll to carry an updatedAt")
	}
	for _, p := range all {
		if len(p.Options) < 2 {
			t.Errorf("Seed poll %s has fewer than 2 options", p.ID)
		}
		if !p.Accepting {
			t.Errorf("Seed poll %s should be accepting votes", p.ID)
		}
	}

	// Re-seeding resets state.
	s.Remove("h347hd839bd73")
	if err := s.Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if s.Len() != 5 {
		t.Errorf("Expected reset to 5 polls, got %d", s.Len())
	}
}
