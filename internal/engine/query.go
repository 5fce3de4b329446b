// Package engine orchestrates upstream fetches into client-visible catalog
// pages: aggregation, client-side filtering, re-pagination, and the
// last-navigation-wins session state.
package engine

import (
	"github.com/lumistore/catalog-engine/internal/taxonomy"
	"github.com/lumistore/catalog-engine/internal/upstream"
)

type Availability string

const (
	AvailabilityAll        Availability = "all"
	AvailabilityInStock    Availability = "inStock"
	AvailabilityOutOfStock Availability = "outOfStock"
)

type Sort string

const (
	SortNone       Sort = "none"
	SortPriceAsc   Sort = "price-asc"
	SortPriceDesc  Sort = "price-desc"
	SortPopularity Sort = "popularity"
	SortNewest     Sort = "newest"
	SortRandom     Sort = "random"
)

// Filters are the product filters of a resolved query. Color, material,
// price bounds and search text are understood upstream; socket type, lamp
// count and shade/frame color are client-only.
type Filters struct {
	MinPrice   float64
	MaxPrice   float64
	Color      string
	Material   string
	SocketType string
	LampCount  int
	ShadeColor string
	FrameColor string
	Search     string
}

// Query is the canonical state of one navigation intent. Each in-flight
// request captures its own immutable copy; queries are never shared across
// concurrent fetches.
type Query struct {
	Brand        string
	Category     *taxonomy.CategoryNode
	Filters      Filters
	Availability Availability
	ShowOnlyNew  bool
	Sort         Sort
	Page         int
}

// UpstreamBrand is the path segment sent upstream; an empty brand browses
// the synthetic all-brands catalog.
func (q Query) UpstreamBrand() string {
	if q.Brand == "" {
		return taxonomy.AllBrandsName
	}
	return q.Brand
}

// HasClientOnlyFilters reports whether any active filter cannot be expressed
// against the upstream API, which forces buffered aggregation.
func (q Query) HasClientOnlyFilters() bool {
	return q.Availability == AvailabilityOutOfStock ||
		q.ShowOnlyNew ||
		q.Filters.SocketType != "" ||
		q.Filters.LampCount > 0 ||
		q.Filters.ShadeColor != "" ||
		q.Filters.FrameColor != ""
}

// UpstreamParams translates the query into the upstream parameter set.
func (q Query) UpstreamParams() upstream.Params {
	p := upstream.Params{
		Color:         q.Filters.Color,
		Material:      q.Filters.Material,
		MinPrice:      q.Filters.MinPrice,
		MaxPrice:      q.Filters.MaxPrice,
		Search:        q.Filters.Search,
		ExcludeBrands: ExcludedBrands,
	}
	if q.Category != nil {
		p.SearchKey = q.Category.SearchKey
		p.Aliases = q.Category.Aliases
	}
	if q.Availability == AvailabilityInStock {
		inStock := true
		p.InStock = &inStock
	}
	p.SortBy, p.SortOrder = sortParams(q.Sort)
	return p
}

func sortParams(s Sort) (sortBy, sortOrder string) {
	switch s {
	case SortPriceAsc:
		return "price", "asc"
	case SortPriceDesc:
		return "price", "desc"
	case SortPopularity:
		return "popularity", "desc"
	case SortNewest:
		return "createdAt", "desc"
	case SortRandom:
		return "random", ""
	default:
		return "", ""
	}
}
