package shared

// Page size bounds shared by every list endpoint
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter is the list query every repository accepts. OrderBy is checked
// against a per-table whitelist before it reaches SQL; Filters holds the
// resource specific equality filters (status, customer_id, tag ...).
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is page 1, newest first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
}

// Normalize clamps Page and PageSize and makes Filters writable.
func (f Filter) Normalize() Filter {
	f.Page = max(f.Page, 1)
	switch {
	case f.PageSize < 1:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	if f.Filters == nil {
		f.Filters = map[string]any{}
	}
	return f
}

func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
