package models

// CategoryAll disables the category filter.
const CategoryAll = "all"

// DefaultMaxPrice is the upper price bound used before any product set
// has been loaded.
const DefaultMaxPrice = 1500

// SortKey selects the ordering of a filtered product list.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceAsc  SortKey = "price-low"
	SortByPriceDesc SortKey = "price-high"
)

// ParseSortKey maps s to a known SortKey. Unknown values fall back to
// SortByName.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPriceAsc:
		return SortByPriceAsc
	case SortByPriceDesc:
		return SortByPriceDesc
	default:
		return SortByName
	}
}

// FilterCriteria is the set of filter and sort parameters a user currently
// has active.
//
//   - Category: a category name matched exactly, or CategoryAll.
//   - Search: matched case-insensitively against title and description;
//     blank means no search.
//   - PriceMin, PriceMax: inclusive bounds, always applied.
//   - Sort: ordering of the result; unknown keys sort by name.
type FilterCriteria struct {
	Category string  `json:"category"`
	Search   string  `json:"search"`
	PriceMin float64 `json:"price_min"`
	PriceMax float64 `json:"price_max"`
	Sort     SortKey `json:"sort"`
}

// CriteriaPatch carries a partial update of FilterCriteria. Nil fields are
// left unchanged.
type CriteriaPatch struct {
	Category *string  `json:"category,omitempty"`
	Search   *string  `json:"search,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty" binding:"omitempty,gte=0"`
	PriceMax *float64 `json:"price_max,omitempty" binding:"omitempty,gte=0"`
	Sort     *string  `json:"sort,omitempty"`
}

// Merge returns c with the non-nil fields of p applied.
func (c FilterCriteria) Merge(p CriteriaPatch) FilterCriteria {
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Search != nil {
		c.Search = *p.Search
	}
	if p.PriceMin != nil {
		c.PriceMin = *p.PriceMin
	}
	if p.PriceMax != nil {
		c.PriceMax = *p.PriceMax
	}
	if p.Sort != nil {
		c.Sort = ParseSortKey(*p.Sort)
	}
	return c
}
