package types

const (
	// MinLimit and MaxLimit bound the per-request result count; the
	// Google Custom Search API rejects num outside [1,10].
	MinLimit = 1
	MaxLimit = 10

	DefaultLimit = 5
)

// SearchRequest represents an image search request.
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1,max=1000"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=10"`
}

// ClampedLimit returns the requested limit clamped to [MinLimit,MaxLimit],
// defaulting when unset.
func (r *SearchRequest) ClampedLimit() int {
	limit := r.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}

func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return ErrEmptyQuery
	}
	return nil
}
