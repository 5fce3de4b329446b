package engine

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/lumistore/catalog-engine/internal/upstream"
)

const (
	// BufferedPageSize approximates "everything in the category" for
	// client-only filters the upstream cannot apply.
	BufferedPageSize = 2000

	// maxBufferedFetches bounds latency when the enlarged request still
	// does not return the whole category.
	maxBufferedFetches = 3
)

type Mode int

const (
	PassThrough Mode = iota
	Buffered
)

// AggregationBuffer holds products accumulated across one or more upstream
// pages for a single query. UpstreamTotalPages/UpstreamTotalProducts come
// from the first upstream call and denote the unfiltered category size.
// Truncated is true when the fetch cap stopped aggregation before upstream
// was exhausted, meaning filtered totals may understate reality.
type AggregationBuffer struct {
	Products              []upstream.ProductRecord
	UpstreamTotalPages    int
	UpstreamTotalProducts int
	Exhausted             bool
	Truncated             bool
	Mode                  Mode
}

// Fetcher is the upstream surface the engine depends on.
type Fetcher interface {
	FetchPage(ctx context.Context, brand string, page, pageSize int, p upstream.Params) (upstream.PageResult, error)
}

type Aggregator struct {
	fetcher Fetcher
}

func NewAggregator(fetcher Fetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Aggregate builds the product buffer for one query. Fetch failures are
// absorbed into the buffer (empty on first-page failure, partial on a later
// one) and reported through err for the caller to surface; cancellation is
// returned as-is so the caller can discard silently. The returned buffer is
// always renderable.
func (a *Aggregator) Aggregate(ctx context.Context, q Query, pageSize int) (AggregationBuffer, error) {
	if !q.HasClientOnlyFilters() {
		return a.passThrough(ctx, q, pageSize)
	}
	return a.buffered(ctx, q)
}

func (a *Aggregator) passThrough(ctx context.Context, q Query, pageSize int) (AggregationBuffer, error) {
	pr, err := a.fetcher.FetchPage(ctx, q.UpstreamBrand(), q.Page, pageSize, q.UpstreamParams())
	if err != nil {
		if errors.Is(err, upstream.ErrRequestCancelled) {
			return AggregationBuffer{}, err
		}
		log.Error().Err(err).Str("brand", q.UpstreamBrand()).Int("page", q.Page).Msg("page fetch failed")
		return AggregationBuffer{Exhausted: true, Mode: PassThrough}, err
	}
	return AggregationBuffer{
		Products:              pr.Products,
		UpstreamTotalPages:    pr.TotalPages,
		UpstreamTotalProducts: pr.TotalProducts,
		Exhausted:             true,
		Mode:                  PassThrough,
	}, nil
}

func (a *Aggregator) buffered(ctx context.Context, q Query) (AggregationBuffer, error) {
	buf := AggregationBuffer{Mode: Buffered}
	params := q.UpstreamParams()
	brand := q.UpstreamBrand()

	for fetched, page := 0, 1; fetched < maxBufferedFetches; fetched, page = fetched+1, page+1 {
		pr, err := a.fetcher.FetchPage(ctx, brand, page, BufferedPageSize, params)
		if err != nil {
			if errors.Is(err, upstream.ErrRequestCancelled) {
				return AggregationBuffer{}, err
			}
			if fetched == 0 {
				log.Error().Err(err).Str("brand", brand).Msg("buffered aggregation failed on first page")
				return AggregationBuffer{Exhausted: true, Mode: Buffered}, err
			}
			// Keep what was gathered rather than discarding it.
			log.Warn().Err(err).Str("brand", brand).Int("page", page).
				Int("gathered", len(buf.Products)).Msg("buffered aggregation stopped early")
			buf.Exhausted = true
			buf.Truncated = true
			return buf, nil
		}

		if fetched == 0 {
			buf.UpstreamTotalPages = pr.TotalPages
			buf.UpstreamTotalProducts = pr.TotalProducts
		}
		buf.Products = append(buf.Products, pr.Products...)

		if len(pr.Products) == 0 || page >= pr.TotalPages || len(buf.Products) >= BufferedPageSize {
			buf.Exhausted = true
			return buf, nil
		}
	}

	// Page cap reached with upstream pages remaining: filtered totals will
	// reflect only the fetched subset.
	buf.Exhausted = true
	buf.Truncated = true
	return buf, nil
}
