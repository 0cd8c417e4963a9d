package bot

import (
	"fmt"
	"strings"

	"github.com/niktanya/telegram-book-bot/model"
)

// FormatBook renders one catalog entry for the user.
func FormatBook(b *model.Book) string {
	var sb strings.Builder
	title := b.TitleRU
	if title == "" {
		title = b.TitleEN
	}
	fmt.Fprintf(&sb, "*%s*", title)
	if b.TitleEN != "" && b.TitleEN != title {
		fmt.Fprintf(&sb, " (на англ.: %s)", b.TitleEN)
	}
	sb.WriteString("\n")
	authors := b.AuthorsRU
	if authors == "" {
		authors = b.AuthorsEN
	}
	fmt.Fprintf(&sb, "Авторы: %s\n", authors)
	if b.Year != "" {
		fmt.Fprintf(&sb, "Год: %s\n", b.Year)
	}
	if b.Genre != "" {
		fmt.Fprintf(&sb, "Жанр: %s\n", b.Genre)
	}
	if b.Description != "" {
		fmt.Fprintf(&sb, "Описание: %s\n", b.Description)
	}
	return sb.String()
}

// FormatCandidates renders a numbered candidate list.
func FormatCandidates(books []*model.Book) string {
	var sb strings.Builder
	sb.WriteString("Вот что я нашел по вашему запросу:\n\n")
	for i, b := range books {
		fmt.Fprintf(&sb, "%d. 📚 %s\n", i+1, FormatBook(b))
	}
	sb.WriteString("Выберите номер книги или попробуйте поискать ещё раз.")
	return sb.String()
}

// FormatRecommendations renders a recommendation list. Collaborative
// results carry a numeric similarity, generative ones a textual
// justification; the two are rendered differently.
func FormatRecommendations(query string, recs []model.Recommendation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "На основе книги «%s» рекомендую:\n\n", query)
	for i, rec := range recs {
		fmt.Fprintf(&sb, "%d. 📚 *%s*\n", i+1, rec.Title)
		fmt.Fprintf(&sb, "Авторы: %s\n", rec.Authors)
		if rec.Year != "" {
			fmt.Fprintf(&sb, "Год: %s\n", rec.Year)
		}
		if rec.Genre != "" {
			fmt.Fprintf(&sb, "Жанр: %s\n", rec.Genre)
		}
		if rec.Description != "" {
			fmt.Fprintf(&sb, "Описание: %s\n", rec.Description)
		}
		switch rec.Source {
		case model.SourceCollaborative:
			fmt.Fprintf(&sb, "Схожесть: %.2f\n", rec.Score)
		case model.SourceGenerative:
			if rec.Reason != "" {
				fmt.Fprintf(&sb, "Почему похожа: %s\n", rec.Reason)
			}
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatUserRatings renders the /myratings answer, most recent first.
func FormatUserRatings(list []*model.UserRating) string {
	if len(list) == 0 {
		return "Вы пока не оценили ни одной книги."
	}
	var sb strings.Builder
	sb.WriteString("Ваши оценки:\n\n")
	for i, ur := range list {
		fmt.Fprintf(&sb, "%d. %s — %d⭐\n", i+1, bookTitle(ur.Book), ur.Rating)
	}
	return sb.String()
}

func bookTitle(b *model.Book) string {
	if b.TitleRU != "" {
		return b.TitleRU
	}
	return b.TitleEN
}
