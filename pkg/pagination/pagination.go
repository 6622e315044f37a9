package pagination

// Pagination carries page/limit query parameters for list endpoints.
type Pagination struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// PageInfo is the pagination block returned by list endpoints.
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

const (
	defaultLimit = 20
	maxLimit     = 250
)

// Normalize clamps page and limit into their valid ranges.
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	normalized := p.Normalize()
	return (normalized.Page - 1) * normalized.Limit
}

// BuildPageInfo computes the pagination block from a total row count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	normalized := p.Normalize()
	pages := int(total) / normalized.Limit
	if int(total)%normalized.Limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return PageInfo{
		Page:  normalized.Page,
		Limit: normalized.Limit,
		Total: total,
		Pages: pages,
	}
}
