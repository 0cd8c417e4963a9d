package model

const (
	RatingMin = 1
	RatingMax = 5
)

// Rating is a (book, user, score) tuple. At most one row exists per
// (BookID, UserID), a later rating replaces the earlier one.
type Rating struct {
	ID        int64 `json:"id"`
	BookID    int64 `json:"book_id"`
	UserID    int64 `json:"user_id"`
	Rating    int   `json:"rating"`
	CreatedTs int64 `json:"created_ts"`
}

// UserRating is a rating joined with its book, used for /myratings.
type UserRating struct {
	Rating int   `json:"rating"`
	Book   *Book `json:"book"`
}

// ValidRating reports whether score is inside the accepted range.
func ValidRating(score int) bool {
	return score >= RatingMin && score <= RatingMax
}
