package services

import (
	"strconv"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ParsePage normalizes raw page/limit query values. Page is 1-based;
// out-of-range or unparsable values fall back to defaults.
func ParsePage(rawPage, rawLimit string) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(rawPage); err == nil && p > 0 {
		page = p
	}
	limit = defaultPageSize
	if l, err := strconv.Atoi(rawLimit); err == nil && l > 0 {
		limit = l
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	return page, limit
}

// NewPagination builds the echo block for a paginated response,
// pages = ceil(total/limit).
func NewPagination(page, limit int, total int64) models.Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return models.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
