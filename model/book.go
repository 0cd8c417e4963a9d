package model //import "github.com/niktanya/telegram-book-bot/model"

// Book is a catalog entry. Titles and authors are kept in both
// languages, de-duplication is on (TitleEN, AuthorsEN).
type Book struct {
	ID          int64  `json:"id"`
	TitleEN     string `json:"title_en"`
	TitleRU     string `json:"title_ru"`
	AuthorsEN   string `json:"authors_en"`
	AuthorsRU   string `json:"authors_ru"`
	Year        string `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
	Genre       string `json:"genre,omitempty"`
	CreatedTs   int64  `json:"created_ts"`
}

type FindBook struct {
	ID        *int64  `json:"id"`
	TitleEN   *string `json:"title_en"`
	TitleRU   *string `json:"title_ru"`
	AuthorsEN *string `json:"authors_en"`

	// The maximum number of books to return.
	Limit *int `json:"limit"`
}
