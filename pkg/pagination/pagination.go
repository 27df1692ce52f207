// Package pagination implements the 1-indexed page/per_page convention used
// by every list endpoint. An out-of-range page yields an empty item list with
// the correct total, never an error.
package pagination

import "gorm.io/gorm"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page is the pagination metadata returned alongside list items.
type Page struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Clamp normalises raw query values: page floors at 1, perPage falls back to
// the default and caps at MaxPerPage.
func Clamp(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Scope returns a GORM scope applying the offset/limit for the given page.
// Callers must Clamp first.
func Scope(page, perPage int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

// New builds the metadata for a page of a result set with total items.
func New(page, perPage int, total int64) Page {
	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}
	return Page{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
