package types

// BaseEntity — общие поля всех сущностей.
type BaseEntity struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Filter — разобранные параметры листинга из query string.
type Filter struct {
	Limit  int
	Page   int
	Sort   map[string]string
	Filter map[string]interface{}
	Search string
}

func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Pagination — блок пагинации в ответе списков.
type Pagination struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalCount uint64 `json:"total_count"`
}
