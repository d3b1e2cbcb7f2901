package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 25
	// MaxPerPage caps how many rows any listing query can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the configured default and maximum page sizes and a
// 1-based page number.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PerPage
}

// Meta describes one returned page. Repeated calls against an unchanged store
// with identical params must return identical pages, so callers are expected to
// pair it with a deterministic ordering.
type Meta struct {
	Page          int   `json:"page"`
	PerPage       int   `json:"per_page"`
	TotalMatching int64 `json:"total_matching"`
}

// NewMeta builds page metadata from normalized params and a total row count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	return Meta{Page: n.Page, PerPage: n.PerPage, TotalMatching: total}
}
