package recommend

import (
	"testing"
)

func TestResolveSubstring(t *testing.T) {
	titles := []string{
		"The Hobbit",
		"Harry Potter and the Philosopher's Stone",
		"Harry Potter and the Chamber of Secrets",
	}

	res, ok := Resolve("potter", titles, 75)
	if !ok {
		t.Fatalf("expected a resolution for %q", "potter")
	}
	if res.Index != 1 {
		t.Fatalf("expected first containment match in catalog order, got index %d", res.Index)
	}
	if res.Score != 100 {
		t.Fatalf("containment match should score 100, got %d", res.Score)
	}
}

func TestResolveQueryContainsTitle(t *testing.T) {
	titles := []string{"Dune"}
	res, ok := Resolve("the book dune by frank herbert", titles, 75)
	if !ok || res.Title != "Dune" {
		t.Fatalf("expected containment of title inside query to resolve, got %+v ok=%v", res, ok)
	}
}

func TestResolveFuzzyTokenOrder(t *testing.T) {
	titles := []string{"Мастер и Маргарита"}
	res, ok := Resolve("маргарита и мастер", titles, 75)
	if !ok {
		t.Fatal("token reorder should resolve via fuzzy tier")
	}
	if res.Index != 0 {
		t.Fatalf("unexpected index %d", res.Index)
	}
}

func TestResolveMiss(t *testing.T) {
	titles := []string{"The Hobbit", "Dune"}
	if _, ok := Resolve("совершенно другая книга", titles, 75); ok {
		t.Fatal("unrelated query must not resolve")
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	if _, ok := Resolve("   ", []string{"Dune"}, 75); ok {
		t.Fatal("blank query must not resolve")
	}
	if _, ok := Resolve("dune", nil, 75); ok {
		t.Fatal("empty catalog must not resolve")
	}
}

func TestResolveDeterministic(t *testing.T) {
	titles := []string{"War and Peace", "War and Remembrance"}
	first, ok := Resolve("war", titles, 75)
	if !ok {
		t.Fatal("expected a resolution")
	}
	for i := 0; i < 10; i++ {
		res, ok := Resolve("war", titles, 75)
		if !ok || res != first {
			t.Fatalf("resolution must be stable, got %+v then %+v", first, res)
		}
	}
}
