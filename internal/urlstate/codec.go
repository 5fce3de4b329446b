// Package urlstate maps resolved catalog state to and from the address bar.
package urlstate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lumistore/catalog-engine/internal/engine"
	"github.com/lumistore/catalog-engine/internal/taxonomy"
)

const basePath = "/catalog"

// Encode renders the canonical address for a query: a pretty path when both
// brand slug and category path are mappable, the query-string form
// otherwise.
func Encode(q engine.Query) *url.URL {
	u := &url.URL{Path: basePath}
	v := url.Values{}

	pretty := false
	if slug, ok := taxonomy.SlugForBrand(q.Brand); ok && q.Brand != "" {
		if q.Category == nil {
			u.Path = basePath + "/" + slug
			pretty = true
		} else if p, ok := taxonomy.PathForCategory(q.Category.SearchKey); ok {
			u.Path = basePath + "/" + slug + "/" + p
			pretty = true
		}
	}
	if !pretty {
		if q.Brand != "" {
			v.Set("source", q.Brand)
		}
		switch {
		case q.Category != nil:
			v.Set("category", q.Category.SearchKey)
		case q.Filters.Search != "":
			// Unresolvable category input rides in the category slot so
			// the free-text fallback round-trips.
			v.Set("category", q.Filters.Search)
		}
	}

	if q.Filters.Color != "" {
		v.Set("color", q.Filters.Color)
	}
	if q.Filters.Material != "" {
		v.Set("material", q.Filters.Material)
	}
	if q.Filters.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(q.Filters.MinPrice, 'f', -1, 64))
	}
	if q.Filters.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.Filters.MaxPrice, 'f', -1, 64))
	}
	if q.Sort != "" && q.Sort != engine.SortNone {
		v.Set("sort", string(q.Sort))
	}
	if q.Availability != "" && q.Availability != engine.AvailabilityAll {
		v.Set("availability", string(q.Availability))
	}
	if q.ShowOnlyNew {
		v.Set("newItems", "1")
	}
	// Page 1 is the canonical default and never appears in the address;
	// this keeps brand-root and category URLs stable for sharing.
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}

	u.RawQuery = v.Encode()
	return u
}

// Decode parses an address into a query. Path segments are resolved against
// the slug and category tables first; an explicit category query parameter
// overrides a same-named pretty-path segment, which supports deep links with
// overrides. redirected reports that resolution canonicalized the input
// (e.g. a parent category descended to its first child), so the caller
// should rewrite the address.
func Decode(u *url.URL, cfg *taxonomy.Config) (q engine.Query, redirected bool) {
	q = engine.Query{Availability: engine.AvailabilityAll, Sort: engine.SortNone, Page: 1}

	segs := pathSegments(u.Path)
	if len(segs) > 0 {
		rest := segs
		if brand, ok := taxonomy.BrandForSlug(segs[0]); ok {
			if brand != taxonomy.AllBrandsName {
				q.Brand = brand
			}
			rest = segs[1:]
		}
		if len(rest) > 0 {
			redirected = resolveCategoryInput(cfg, &q, categoryInput(rest)) || redirected
		}
	}

	v := u.Query()
	if s := v.Get("source"); s != "" {
		q.Brand = s
	}
	if c := v.Get("category"); c != "" {
		redirected = resolveCategoryInput(cfg, &q, c)
	}
	q.Filters.Color = v.Get("color")
	q.Filters.Material = v.Get("material")
	if f, err := strconv.ParseFloat(v.Get("minPrice"), 64); err == nil {
		q.Filters.MinPrice = f
	}
	if f, err := strconv.ParseFloat(v.Get("maxPrice"), 64); err == nil {
		q.Filters.MaxPrice = f
	}
	if s := v.Get("sort"); s != "" {
		q.Sort = engine.Sort(s)
	}
	if a := v.Get("availability"); a != "" {
		q.Availability = engine.Availability(a)
	}
	q.ShowOnlyNew = v.Get("newItems") == "1" || v.Get("newItems") == "true"
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p >= 1 {
		q.Page = p
	}

	return q, redirected
}

// resolveCategoryInput maps one category input (pretty path, search key, or
// free text) onto the query, falling back to free-text search on a miss.
func resolveCategoryInput(cfg *taxonomy.Config, q *engine.Query, input string) (redirected bool) {
	if key, ok := taxonomy.CategoryForPath(input); ok {
		input = key
	}
	res := cfg.Resolve(input, q.Brand)
	if res == nil {
		q.Category = nil
		q.Filters.Search = input
		return false
	}
	q.Category = res.Node
	q.Filters.Search = ""
	return res.Redirected
}

func pathSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	segs := strings.Split(p, "/")
	if segs[0] == strings.Trim(basePath, "/") {
		segs = segs[1:]
	}
	return segs
}

// categoryInput rejoins the path segments after the brand slug. A known
// category path matches as-is; anything else becomes free text.
func categoryInput(segs []string) string {
	joined := strings.Join(segs, "/")
	if _, ok := taxonomy.CategoryForPath(joined); ok {
		return joined
	}
	return strings.Join(segs, " ")
}

// Merge applies a partial navigation intent over the previous query:
// switching brand without a category keeps the category, and vice versa.
func Merge(prev, next engine.Query) engine.Query {
	if next.Brand == "" {
		next.Brand = prev.Brand
	}
	if next.Category == nil && next.Filters.Search == "" {
		next.Category = prev.Category
	}
	return next
}
