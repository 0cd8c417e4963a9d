package model

// DialogState is the state of one user's conversation.
type DialogState int

const (
	StateIdle DialogState = iota
	StateSearching
	StateChoosingBook
	StateRating
	StateRecommendDirect
	StateRecommendFromRate
)

func (s DialogState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateChoosingBook:
		return "choosing_book"
	case StateRating:
		return "rating"
	case StateRecommendDirect:
		return "recommend_direct"
	case StateRecommendFromRate:
		return "recommend_from_rate"
	default:
		return "unknown"
	}
}

// DialogMode distinguishes the /search and /rate entry points, both
// walk through Searching and ChoosingBook.
type DialogMode int

const (
	ModeSearch DialogMode = iota
	ModeRate
)

// Session is per-user, in-memory dialog state. It is exclusively owned
// by the state machine handling that user and never shared across users.
type Session struct {
	UserID int64
	ChatID int64
	State  DialogState
	Mode   DialogMode
	// Query is the last free-text query the user entered
	Query string
	// Retries counts failed search attempts in the current dialog
	Retries int
	// Candidates are the books found by the current search
	Candidates []*Book
	// Selected is the candidate the user picked
	Selected *Book
	// Excluded holds titles already shown, so "search again" does not
	// repeat them
	Excluded map[string]struct{}
}

// Reset clears everything except the user identity, called on every
// Searching entry so stale selections never leak into a new search.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Mode = ModeSearch
	s.Query = ""
	s.Retries = 0
	s.Candidates = nil
	s.Selected = nil
	s.Excluded = make(map[string]struct{})
}
