package listing

import "strconv"

// Pager tracks the current page against the last known page count.
type Pager struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

func NewPager(page, totalPages int) Pager {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pager{Page: page, TotalPages: totalPages}
}

func (p Pager) HasPrev() bool {
	return p.Page > 1
}

func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p Pager) Prev() int {
	if !p.HasPrev() {
		return p.Page
	}
	return p.Page - 1
}

func (p Pager) Next() int {
	if !p.HasNext() {
		return p.Page
	}
	return p.Page + 1
}

// TotalPages is ceil(count/size), never less than one.
func TotalPages(count, size int) int {
	if size < 1 || count < 1 {
		return 1
	}
	return (count + size - 1) / size
}

// Slice returns the items of one page for lists paginated locally.
func Slice[T any](items []T, page, size int) []T {
	if size < 1 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
