package models

// FirstPage is the first page of every paginated listing.
const FirstPage = 1

// PaginatedResult accumulates items across pages of one listing session.
type PaginatedResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// MoviePage and PersonPage are the two listings the core paginates.
type (
	MoviePage  = PaginatedResult[*Movie]
	PersonPage = PaginatedResult[*Person]
)

// AppendPage extends the listing with one page of results. Page 1 restarts the listing; any
// other page is accepted only when it is the one right after the current page, so a listing
// that was never started (or was reset) only takes page 1. It reports whether the page was
// applied.
func (r *PaginatedResult[T]) AppendPage(page, totalPages int, items []T) bool {
	switch {
	case page == FirstPage:
		r.Items = append([]T(nil), items...)
		r.Page = FirstPage
	case r.Page >= FirstPage && page == r.Page+1:
		r.Items = append(r.Items, items...)
		r.Page = page
	default:
		return false
	}
	if r.Items == nil {
		r.Items = []T{}
	}
	if totalPages > 0 {
		r.TotalPages = totalPages
	}
	return true
}

// CanFetchNextPage reports whether a further page exists. A nil result cannot be continued.
func (r *PaginatedResult[T]) CanFetchNextPage() bool {
	return r != nil && r.Page < r.TotalPages
}

// IsEmpty reports whether nothing has been recorded yet.
func (r *PaginatedResult[T]) IsEmpty() bool {
	return r == nil || len(r.Items) == 0
}

// SearchResult holds the movie and people results of one query. The query is fixed at
// construction; a new query means a new SearchResult.
type SearchResult struct {
	query  string
	Movies *MoviePage  `json:"movies,omitempty"`
	People *PersonPage `json:"people,omitempty"`
}

// NewSearchResult starts an empty result set for query.
func NewSearchResult(query string) *SearchResult {
	return &SearchResult{query: query}
}

// Query returns the query the result set belongs to.
func (s *SearchResult) Query() string {
	return s.query
}
