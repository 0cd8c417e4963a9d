package model

// RecommendationSource tags how a recommendation was produced.
// Collaborative results carry a numeric Score in [0,1], generative
// results carry a free-text Reason. Callers must discriminate on
// Source, not assume a fixed numeric contract.
type RecommendationSource string

const (
	SourceCollaborative RecommendationSource = "collaborative"
	SourceGenerative    RecommendationSource = "generative"
)

// Recommendation is ephemeral, it is never persisted.
type Recommendation struct {
	Title       string               `json:"title"`
	Authors     string               `json:"authors"`
	Year        string               `json:"year,omitempty"`
	Description string               `json:"description,omitempty"`
	Genre       string               `json:"genre,omitempty"`
	Source      RecommendationSource `json:"source"`
	// Score is valid only when Source == SourceCollaborative
	Score float64 `json:"score,omitempty"`
	// Reason is valid only when Source == SourceGenerative
	Reason string `json:"reason,omitempty"`
	// BookID is set when the recommended title resolved in the catalog
	BookID *int64 `json:"book_id,omitempty"`
}
