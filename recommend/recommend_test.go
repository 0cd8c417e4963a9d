package recommend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/niktanya/telegram-book-bot/config"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
	"github.com/niktanya/telegram-book-bot/store"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func createTestStore(t *testing.T, name string) *store.Store {
	t.Helper()
	dir := os.TempDir() + "/book-bot-test"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatalf("Failed to create test dir: %v", err)
		}
	}
	filename := fmt.Sprintf("%s/%s.db", dir, name)
	os.Remove(filename)
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
		os.Remove(filename)
	})

	schema, err := os.ReadFile("../store/db/migration/LATEST_SCHEMA.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return store.NewStore(db)
}

func seedCatalog(t *testing.T, s *store.Store) []*model.Book {
	t.Helper()
	books := []*model.Book{
		{TitleEN: "Dune", TitleRU: "Дюна", AuthorsEN: "Frank Herbert", AuthorsRU: "Фрэнк Герберт", Genre: "фантастика"},
		{TitleEN: "Hyperion", TitleRU: "Гиперион", AuthorsEN: "Dan Simmons", AuthorsRU: "Дэн Симмонс", Genre: "фантастика"},
		{TitleEN: "Foundation", TitleRU: "Основание", AuthorsEN: "Isaac Asimov", AuthorsRU: "Айзек Азимов", Genre: "фантастика"},
	}
	for i, b := range books {
		added, err := s.AddBook(b)
		if err != nil {
			t.Fatalf("Failed to seed book: %v", err)
		}
		books[i] = added
	}
	return books
}

func TestOrchestratorPrefersCollaborative(t *testing.T) {
	s := createTestStore(t, "test_for_orchestrator_cf")
	books := seedCatalog(t, s)

	// Two users rate Dune and Hyperion alike, so the columns are
	// perfectly similar and the collaborative path must win.
	for _, r := range [][3]int64{
		{books[0].ID, 1, 5}, {books[1].ID, 1, 5},
		{books[0].ID, 2, 4}, {books[1].ID, 2, 4},
	} {
		if _, err := s.UpsertRating(r[0], r[1], int(r[2])); err != nil {
			t.Fatalf("Failed to seed rating: %v", err)
		}
	}

	provider := &fakeProvider{response: goodPayload}
	o := NewOrchestrator(s, NewGenerative(provider, 75), 75)

	recs, err := o.Recommend(context.Background(), "дюна", 5, 0.3)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected collaborative results")
	}
	if recs[0].Source != model.SourceCollaborative {
		t.Fatalf("expected collaborative source, got %v", recs[0].Source)
	}
	if recs[0].Title != "Гиперион" {
		t.Fatalf("expected Hyperion first, got %+v", recs[0])
	}
	if recs[0].BookID == nil || *recs[0].BookID != books[1].ID {
		t.Fatalf("collaborative result must carry its book ID, got %+v", recs[0].BookID)
	}
	if provider.calls != 0 {
		t.Fatalf("generative path must not run when the filter succeeds, got %d calls", provider.calls)
	}
}

func TestOrchestratorFallsBackWithoutRatings(t *testing.T) {
	s := createTestStore(t, "test_for_orchestrator_empty")
	seedCatalog(t, s)

	provider := &fakeProvider{response: goodPayload}
	o := NewOrchestrator(s, NewGenerative(provider, 75), 75)

	recs, err := o.Recommend(context.Background(), "дюна", 5, 0.3)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("generative path must run exactly once, got %d calls", provider.calls)
	}
	for _, rec := range recs {
		if rec.Source != model.SourceGenerative {
			t.Fatalf("expected generative source, got %+v", rec)
		}
	}
}

func TestOrchestratorFallsBackOnResolutionMiss(t *testing.T) {
	s := createTestStore(t, "test_for_orchestrator_miss")
	books := seedCatalog(t, s)
	if _, err := s.UpsertRating(books[0].ID, 1, 5); err != nil {
		t.Fatalf("Failed to seed rating: %v", err)
	}

	provider := &fakeProvider{response: goodPayload}
	o := NewOrchestrator(s, NewGenerative(provider, 75), 75)

	if _, err := o.Recommend(context.Background(), "совсем неизвестная книга", 5, 0.3); err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("resolution miss must fall back exactly once, got %d calls", provider.calls)
	}
}

func TestOrchestratorPropagatesGenerativeError(t *testing.T) {
	s := createTestStore(t, "test_for_orchestrator_err")

	provider := &fakeProvider{response: "не JSON"}
	o := NewOrchestrator(s, NewGenerative(provider, 75), 75)

	if _, err := o.Recommend(context.Background(), "дюна", 5, 0.3); err == nil {
		t.Fatal("malformed generative payload must surface as an error")
	}
	if provider.calls != 1 {
		t.Fatalf("the generative recommender is never retried, got %d calls", provider.calls)
	}
}
