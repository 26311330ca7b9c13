package types

// Page describes the slice of a collection returned by list endpoints.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// PagedEnvelope wraps list payloads together with paging metadata.
type PagedEnvelope struct {
	Data any  `json:"data"`
	Page Page `json:"page"`
}

// NewPage computes paging metadata from a request and a total count.
func NewPage(number, size int, total int64) Page {
	if size <= 0 {
		size = 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	return Page{Number: number, Size: size, TotalItems: total, TotalPages: pages}
}
