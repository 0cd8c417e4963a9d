package model

import "testing"

func TestSessionReset(t *testing.T) {
	s := &Session{
		UserID:     1,
		State:      StateRating,
		Mode:       ModeRate,
		Query:      "дюна",
		Retries:    2,
		Candidates: []*Book{{TitleEN: "Dune"}},
		Selected:   &Book{TitleEN: "Dune"},
	}
	s.Reset()

	if s.State != StateIdle {
		t.Fatalf("reset must return to idle, got %v", s.State)
	}
	if s.Query != "" || s.Retries != 0 || s.Candidates != nil || s.Selected != nil {
		t.Fatalf("reset must clear dialog fields: %+v", s)
	}
	if s.Excluded == nil || len(s.Excluded) != 0 {
		t.Fatalf("reset must leave an empty exclusion set, got %v", s.Excluded)
	}
	if s.UserID != 1 {
		t.Fatal("reset must keep the session identity")
	}
}

func TestValidRating(t *testing.T) {
	for score, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := ValidRating(score); got != want {
			t.Fatalf("ValidRating(%d) = %v, want %v", score, got, want)
		}
	}
}

func TestDialogStateString(t *testing.T) {
	if StateIdle.String() == "" || StateChoosingBook.String() == "" {
		t.Fatal("states must have readable names")
	}
}
