package engine

import (
	"time"

	"github.com/lumistore/catalog-engine/internal/upstream"
)

// ExcludedBrands must never surface in the open catalog, regardless of what
// upstream returns. Also sent upstream as excludeBrands, but re-checked here.
var ExcludedBrands = []string{"NoName", "Demo", "Витрина"}

var excludedBrandSet = func() map[string]bool {
	m := make(map[string]bool, len(ExcludedBrands))
	for _, b := range ExcludedBrands {
		m[b] = true
	}
	return m
}()

// newItemWindow is how recent createdAt must be for the "new items" filter.
const newItemWindow = 30 * 24 * time.Hour

// Apply runs the client-side filter chain over an aggregation buffer and
// slices the requested page. In buffered mode pagination is recomputed from
// the filtered count; in pass-through mode upstream totals are trusted and
// the single returned page is not re-sliced.
func Apply(buf AggregationBuffer, q Query, pageSize int) (pageProducts []upstream.ProductRecord, totalPages, totalProducts int) {
	if pageSize < 1 {
		pageSize = 1
	}
	filtered := filterProducts(buf.Products, q, time.Now())

	if buf.Mode == PassThrough {
		return filtered, buf.UpstreamTotalPages, buf.UpstreamTotalProducts
	}

	totalProducts = len(filtered)
	totalPages = (totalProducts + pageSize - 1) / pageSize

	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		// A page beyond the recomputed range renders empty, not an error.
		return []upstream.ProductRecord{}, totalPages, totalProducts
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], totalPages, totalProducts
}

func filterProducts(products []upstream.ProductRecord, q Query, now time.Time) []upstream.ProductRecord {
	out := make([]upstream.ProductRecord, 0, len(products))
	for _, p := range products {
		if excludedBrandSet[p.Brand] {
			continue
		}
		if !matchesAvailability(p, q.Availability) {
			continue
		}
		if q.ShowOnlyNew && !isNew(p, now) {
			continue
		}
		if !matchesClientAttributes(p, q.Filters) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesAvailability re-checks stock even for inStock, where the upstream
// request already filtered; upstream stock data is not always consistent.
func matchesAvailability(p upstream.ProductRecord, a Availability) bool {
	switch a {
	case AvailabilityInStock:
		return p.Stock > 0
	case AvailabilityOutOfStock:
		return p.Stock <= 0
	default:
		return true
	}
}

func isNew(p upstream.ProductRecord, now time.Time) bool {
	return p.CreatedAt != nil && now.Sub(*p.CreatedAt) <= newItemWindow
}

// matchesClientAttributes applies the filters the upstream API cannot
// express. These force buffered mode, so re-pagination stays correct.
func matchesClientAttributes(p upstream.ProductRecord, f Filters) bool {
	if f.SocketType != "" && p.Attributes.SocketType != f.SocketType {
		return false
	}
	if f.LampCount > 0 && p.Attributes.LampCount != f.LampCount {
		return false
	}
	if f.ShadeColor != "" && p.Attributes.ShadeColor != f.ShadeColor {
		return false
	}
	if f.FrameColor != "" && p.Attributes.FrameColor != f.FrameColor {
		return false
	}
	return true
}
