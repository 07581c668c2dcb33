package types

const (
	// DefaultPage is the first, zero-based page.
	DefaultPage = 0
	// DefaultPageSize is used when no positive size is requested.
	DefaultPageSize = 20
)

// Pageable echoes the page that was served.
type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Page is the server-paginated envelope wrapping a list of T.
type Page[T any] struct {
	Content       []T      `json:"content"`
	Pageable      Pageable `json:"pageable"`
	TotalElements int64    `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
}

// Pagination is the list-side view of a Page.
type Pagination struct {
	Page          int
	Size          int
	TotalPages    int
	TotalElements int64
}

// DefaultPagination is the pagination of a list that was never fetched.
func DefaultPagination() Pagination {
	return Pagination{Page: DefaultPage, Size: DefaultPageSize}
}

// PaginationOf extracts the paging metadata of p.
func PaginationOf[T any](p Page[T]) Pagination {
	return Pagination{
		Page:          p.Pageable.PageNumber,
		Size:          p.Pageable.PageSize,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
}

// Valid reports whether Page lies within [0, TotalPages) for a non-empty list.
func (p Pagination) Valid() bool {
	if p.Page < 0 {
		return false
	}
	if p.TotalElements > 0 {
		return p.Page < p.TotalPages
	}
	return true
}

// Clamp moves Page into [0, TotalPages) for a non-empty list.
func (p Pagination) Clamp() Pagination {
	if p.TotalElements > 0 && p.Page >= p.TotalPages {
		p.Page = p.TotalPages - 1
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

func (p Pagination) HasNext() bool { return p.Page+1 < p.TotalPages }

func (p Pagination) HasPrev() bool { return p.Page > 0 }

// NormalizePage applies the list defaults to a requested page and size.
func NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}
