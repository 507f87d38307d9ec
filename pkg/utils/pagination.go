package utils

// Pagination defaults shared by all list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// PageEnvelope is the pagination envelope returned by every list endpoint.
type PageEnvelope struct {
	Docs        interface{} `json:"docs"`
	TotalDocs   int64       `json:"totalDocs"`
	Limit       int         `json:"limit"`
	Page        int         `json:"page"`
	TotalPages  int64       `json:"totalPages"`
	HasPrevPage bool        `json:"hasPrevPage"`
	HasNextPage bool        `json:"hasNextPage"`
	PrevPage    *int        `json:"prevPage"`
	NextPage    *int        `json:"nextPage"`
}

// ClampPage normalizes page and limit, silently falling back to defaults
// rather than erroring on bad input.
func ClampPage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewPageEnvelope computes the pagination metadata for a page of docs.
func NewPageEnvelope(docs interface{}, totalDocs int64, page, limit int) PageEnvelope {
	totalPages := (totalDocs + int64(limit) - 1) / int64(limit)

	env := PageEnvelope{
		Docs:       docs,
		TotalDocs:  totalDocs,
		Limit:      limit,
		Page:       page,
		TotalPages: totalPages,
	}
	if page > 1 {
		env.HasPrevPage = true
		prev := page - 1
		env.PrevPage = &prev
	}
	if int64(page) < totalPages {
		env.HasNextPage = true
		next := page + 1
		env.NextPage = &next
	}
	return env
}
