// Package catalog implements the product browsing pipeline: category filter,
// free-text search, stable multi-key sort, and the append-only "load more"
// window the storefront presents.
package catalog

import (
	"sort"
	"strings"

	"aipan-bazaar/internal/domain"
)

// SortKey selects the ranking of the filtered product set.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortPopular   SortKey = "popular"
)

// ParseSortKey maps a raw sort parameter onto a SortKey. Unknown or empty
// values fall back to SortNewest, the storefront default.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceLow, SortPriceHigh, SortPopular, SortNewest:
		return SortKey(s)
	}
	return SortNewest
}

// CategoryAll selects every category.
const CategoryAll = "all"

// PageSize is the window growth step: the view starts at 12 visible products
// and grows by 12 per load-more request.
const PageSize = 12

// EmptyReason distinguishes why a view came back empty, for presentation.
type EmptyReason string

const (
	EmptyReasonNone     EmptyReason = ""
	EmptyReasonSearch   EmptyReason = "search"
	EmptyReasonCategory EmptyReason = "category"
	EmptyReasonCatalog  EmptyReason = "catalog"
)

// Query is the full set of filter inputs. Changing any field invalidates an
// existing window.
type Query struct {
	Category string
	Search   string
	Sort     SortKey
}

// View is one rendered window over the filtered, sorted catalog.
type View struct {
	Products    []domain.Product
	Total       int
	HasMore     bool
	EmptyReason EmptyReason
}

// Filter applies the category and text filters, preserving input order.
// Category matching is exact; search is a case-insensitive substring match
// over name, description, and category, and a blank query is a no-op.
func Filter(products []domain.Product, q Query) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))

	byCategory := q.Category != "" && q.Category != CategoryAll
	query := strings.ToLower(strings.TrimSpace(q.Search))

	for _, p := range products {
		if byCategory && string(p.Category) != q.Category {
			continue
		}
		if query != "" && !matchesQuery(&p, query) {
			continue
		}
		filtered = append(filtered, p)
	}

	return filtered
}

func matchesQuery(p *domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(string(p.Category)), query)
}

// Sort orders products by the given key. The sort is stable: equal keys keep
// their filtered-set relative order. The input slice is sorted in place.
func Sort(products []domain.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Price.LessThan(products[i].Price)
		})
	case SortPopular:
		// Missing ratings count as 0.
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Rating < products[i].Rating
		})
	default: // SortNewest
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

// Render runs the full pipeline and cuts the window at visibleCount products.
func Render(products []domain.Product, q Query, visibleCount int) View {
	if visibleCount < PageSize {
		visibleCount = PageSize
	}

	filtered := Filter(products, q)
	Sort(filtered, q.Sort)

	if len(filtered) == 0 {
		return View{Products: filtered, EmptyReason: emptyReason(q)}
	}

	window := filtered
	if len(window) > visibleCount {
		window = window[:visibleCount]
	}

	return View{
		Products: window,
		Total:    len(filtered),
		HasMore:  visibleCount < len(filtered),
	}
}

// emptyReason follows the storefront's precedence: an active search explains
// the empty result first, then an active category, then a truly empty catalog.
func emptyReason(q Query) EmptyReason {
	if strings.TrimSpace(q.Search) != "" {
		return EmptyReasonSearch
	}
	if q.Category != "" && q.Category != CategoryAll {
		return EmptyReasonCategory
	}
	return EmptyReasonCatalog
}

// Window tracks the append-only visible count across load-more requests.
// Any change to the filter inputs resets the count: continuing an old window
// against a new filtered set would produce an incoherent page.
type Window struct {
	query   Query
	visible int
}

// NewWindow starts a window at the initial page size.
func NewWindow(q Query) *Window {
	return &Window{query: q, visible: PageSize}
}

// Visible returns the current visible count.
func (w *Window) Visible() int {
	return w.visible
}

// LoadMore grows the window by one page.
func (w *Window) LoadMore() {
	w.visible += PageSize
}

// Render applies the pipeline for q, resetting the window first if any
// filter input changed since the previous render.
func (w *Window) Render(products []domain.Product, q Query) View {
	if q != w.query {
		w.query = q
		w.visible = PageSize
	}
	return Render(products, q, w.visible)
}
