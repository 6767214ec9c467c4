package utils

// Pagination is the page block returned by list endpoints.
type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	Count   int64 `json:"count"`
	Limit   int   `json:"limit"`
}

func NewPagination(page, limit int, count int64) Pagination {
	return Pagination{
		Current: page,
		Total:   TotalPages(count, limit),
		Count:   count,
		Limit:   limit,
	}
}

// NormalizePage applies defaults to non-positive values and caps limit at max.
func NormalizePage(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}
