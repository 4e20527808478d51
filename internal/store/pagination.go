package store

import "gorm.io/gorm"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page selects one window of an ordered listing. Number is 1-based.
type Page struct {
	Number int `form:"page"`
	Size   int `form:"page_size"`
}

// Normalize clamps the page into the supported range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	switch {
	case p.Size < 1:
		p.Size = defaultPageSize
	case p.Size > maxPageSize:
		p.Size = maxPageSize
	}
	return p
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Offset((p.Number - 1) * p.Size).Limit(p.Size)
}

// PageInfo locates a page within the full result set.
type PageInfo struct {
	Total  int64 `json:"total"`
	Pages  int   `json:"pages"`
	Number int   `json:"page"`
	Size   int   `json:"page_size"`
}

func newPageInfo(total int64, p Page) PageInfo {
	p = p.Normalize()
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	return PageInfo{
		Total:  total,
		Pages:  pages,
		Number: min(p.Number, max(pages, 1)),
		Size:   p.Size,
	}
}

func (i PageInfo) HasPrev() bool { return i.Number > 1 }

func (i PageInfo) HasNext() bool { return i.Number < i.Pages }
