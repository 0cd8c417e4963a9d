package bot

import (
	"strings"
	"testing"

	"github.com/niktanya/telegram-book-bot/model"
)

func TestFormatBook(t *testing.T) {
	out := FormatBook(&model.Book{
		TitleEN:   "Dune",
		TitleRU:   "Дюна",
		AuthorsEN: "Frank Herbert",
		AuthorsRU: "Фрэнк Герберт",
		Year:      "1965",
		Genre:     "фантастика",
	})
	for _, want := range []string{"*Дюна*", "(на англ.: Dune)", "Фрэнк Герберт", "1965", "фантастика"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatRecommendationsBySource(t *testing.T) {
	id := int64(1)
	out := FormatRecommendations("Дюна", []model.Recommendation{
		{Title: "Гиперион", Authors: "Дэн Симмонс", Source: model.SourceCollaborative, Score: 0.87, BookID: &id},
		{Title: "Основание", Authors: "Айзек Азимов", Source: model.SourceGenerative, Reason: "Судьбы цивилизаций."},
	})
	if !strings.Contains(out, "Схожесть: 0.87") {
		t.Fatalf("collaborative entries must show the similarity score:\n%s", out)
	}
	if !strings.Contains(out, "Почему похожа: Судьбы цивилизаций.") {
		t.Fatalf("generative entries must show the textual reason:\n%s", out)
	}
}

func TestFormatCandidatesNumbering(t *testing.T) {
	out := FormatCandidates([]*model.Book{
		{TitleRU: "Дюна", AuthorsRU: "Фрэнк Герберт"},
		{TitleRU: "Гиперион", AuthorsRU: "Дэн Симмонс"},
	})
	if !strings.Contains(out, "1. 📚") || !strings.Contains(out, "2. 📚") {
		t.Fatalf("candidates must be numbered:\n%s", out)
	}
}

func TestFormatUserRatingsEmpty(t *testing.T) {
	out := FormatUserRatings(nil)
	if !strings.Contains(out, "не оценили") {
		t.Fatalf("unexpected empty-list message %q", out)
	}
}
