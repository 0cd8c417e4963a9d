package recommend

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/niktanya/telegram-book-bot/llm"
)

type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Complete(ctx context.Context, instructions, input string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const goodPayload = `{
	"original_book": {"title": "Дюна", "authors": "Фрэнк Герберт"},
	"recommendations": [
		{"title": "Гиперион", "authors": "Дэн Симмонс", "year": "1989", "description": "Паломничество к Шрайку.", "genre": "фантастика", "similarity": "Эпическая космоопера."},
		{"title": "Основание", "authors": "Айзек Азимов", "year": "1951", "description": "Падение галактической империи.", "genre": "фантастика", "similarity": "Судьбы цивилизаций."}
	]
}`

func TestGenerativeRecommend(t *testing.T) {
	provider := &fakeProvider{response: goodPayload}
	g := NewGenerative(provider, 75)

	recs, err := g.Recommend(context.Background(), "Дюна", 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Title != "Гиперион" || recs[0].Reason == "" {
		t.Fatalf("unexpected first record %+v", recs[0])
	}
	if provider.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", provider.calls)
	}
}

func TestGenerativeAttachesBookID(t *testing.T) {
	provider := &fakeProvider{response: goodPayload}
	g := NewGenerative(provider, 75)
	catalog := &CatalogIndex{
		Titles: []string{"Гиперион", "Дюна"},
		IDs:    []int64{11, 22},
	}

	recs, err := g.Recommend(context.Background(), "Дюна", 5, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs[0].BookID == nil || *recs[0].BookID != 11 {
		t.Fatalf("catalog hit must attach the book ID, got %+v", recs[0].BookID)
	}
	if recs[1].BookID != nil {
		t.Fatalf("catalog miss must leave BookID unset, got %v", *recs[1].BookID)
	}
}

func TestGenerativeEmptyListIsNotAnError(t *testing.T) {
	provider := &fakeProvider{response: `{"original_book": {"title": "x", "authors": "y"}, "recommendations": []}`}
	g := NewGenerative(provider, 75)

	recs, err := g.Recommend(context.Background(), "x", 5, nil)
	if err != nil {
		t.Fatalf("well-formed empty list must succeed, got %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}

func TestGenerativeMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"not json":       "блабла",
		"missing title":  `{"recommendations": [{"authors": "a"}]}`,
		"missing author": `{"recommendations": [{"title": "t"}]}`,
	}
	for name, raw := range cases {
		provider := &fakeProvider{response: raw}
		g := NewGenerative(provider, 75)
		_, err := g.Recommend(context.Background(), "x", 5, nil)
		if !errors.Is(err, llm.ErrGenerationFormat) {
			t.Fatalf("%s: expected ErrGenerationFormat, got %v", name, err)
		}
	}
}

func TestGenerativeTruncatesToK(t *testing.T) {
	provider := &fakeProvider{response: goodPayload}
	g := NewGenerative(provider, 75)

	recs, err := g.Recommend(context.Background(), "Дюна", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected truncation to k=1, got %d", len(recs))
	}
}

func TestGenerativePropagatesProviderError(t *testing.T) {
	provider := &fakeProvider{err: llm.ErrGenerationTimeout}
	g := NewGenerative(provider, 75)

	_, err := g.Recommend(context.Background(), "x", 5, nil)
	if !errors.Is(err, llm.ErrGenerationTimeout) {
		t.Fatalf("expected timeout sentinel, got %v", err)
	}
}
