package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumistore/catalog-engine/internal/upstream"
)

type fetchCall struct {
	brand    string
	page     int
	pageSize int
	params   upstream.Params
}

type fakeFetcher struct {
	fn    func(call fetchCall) (upstream.PageResult, error)
	calls []fetchCall
}

func (f *fakeFetcher) FetchPage(ctx context.Context, brand string, page, pageSize int, p upstream.Params) (upstream.PageResult, error) {
	call := fetchCall{brand: brand, page: page, pageSize: pageSize, params: p}
	f.calls = append(f.calls, call)
	return f.fn(call)
}

func makeProducts(n, offset int, stock int) []upstream.ProductRecord {
	out := make([]upstream.ProductRecord, n)
	for i := range out {
		out[i] = upstream.ProductRecord{
			ID:    fmt.Sprintf("p%d", offset+i),
			Brand: "KinkLight",
			Stock: upstream.StockCount(stock),
		}
	}
	return out
}

func TestAggregatePassThroughIssuesOneCall(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		return upstream.PageResult{
			Products:      makeProducts(40, 0, 5),
			TotalPages:    7,
			TotalProducts: 266,
		}, nil
	}}
	agg := NewAggregator(fetcher)

	buf, err := agg.Aggregate(context.Background(), Query{Brand: "KinkLight", Page: 3}, 40)
	require.NoError(t, err)

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, 3, fetcher.calls[0].page)
	assert.Equal(t, 40, fetcher.calls[0].pageSize)
	assert.Equal(t, PassThrough, buf.Mode)
	assert.Len(t, buf.Products, 40)
	assert.Equal(t, 7, buf.UpstreamTotalPages)
	assert.Equal(t, 266, buf.UpstreamTotalProducts)
	assert.True(t, buf.Exhausted)
}

func TestAggregateBufferedRequestsEnlargedFirstPage(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		return upstream.PageResult{
			Products:      makeProducts(300, 0, 0),
			TotalPages:    1,
			TotalProducts: 300,
		}, nil
	}}
	agg := NewAggregator(fetcher)

	buf, err := agg.Aggregate(context.Background(), Query{Brand: "KinkLight", Availability: AvailabilityOutOfStock, Page: 1}, 40)
	require.NoError(t, err)

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, 1, fetcher.calls[0].page)
	assert.Equal(t, BufferedPageSize, fetcher.calls[0].pageSize)
	assert.Equal(t, Buffered, buf.Mode)
	assert.Len(t, buf.Products, 300)
	assert.True(t, buf.Exhausted)
	assert.False(t, buf.Truncated)
}

func TestAggregateBufferedStopsAtFetchCap(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		// Upstream keeps reporting more pages than the cap allows, with
		// drifting totals on later pages.
		return upstream.PageResult{
			Products:      makeProducts(10, (call.page-1)*10, 0),
			TotalPages:    9,
			TotalProducts: 90 + call.page,
		}, nil
	}}
	agg := NewAggregator(fetcher)

	buf, err := agg.Aggregate(context.Background(), Query{ShowOnlyNew: true, Page: 1}, 40)
	require.NoError(t, err)

	assert.Len(t, fetcher.calls, 3)
	assert.Len(t, buf.Products, 30)
	// Totals come from the first call only: they are the unfiltered
	// category baseline.
	assert.Equal(t, 9, buf.UpstreamTotalPages)
	assert.Equal(t, 91, buf.UpstreamTotalProducts)
	assert.True(t, buf.Exhausted)
	assert.True(t, buf.Truncated)
}

func TestAggregateBufferedStopsOnEmptyPage(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		if call.page == 1 {
			return upstream.PageResult{Products: makeProducts(10, 0, 0), TotalPages: 4, TotalProducts: 40}, nil
		}
		return upstream.PageResult{TotalPages: 4, TotalProducts: 40}, nil
	}}
	agg := NewAggregator(fetcher)

	buf, err := agg.Aggregate(context.Background(), Query{Availability: AvailabilityOutOfStock}, 40)
	require.NoError(t, err)

	assert.Len(t, fetcher.calls, 2)
	assert.Len(t, buf.Products, 10)
	assert.True(t, buf.Exhausted)
}

func TestAggregateFirstPageFailureYieldsEmptyBuffer(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		return upstream.PageResult{}, fmt.Errorf("%w: boom", upstream.ErrUpstreamServer)
	}}
	agg := NewAggregator(fetcher)

	buf, err := agg.Aggregate(context.Background(), Query{Availability: AvailabilityOutOfStock}, 40)
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream.ErrUpstreamServer)
	assert.Empty(t, buf.Products)
	assert.True(t, buf.Exhausted)
	assert.Zero(t, buf.UpstreamTotalProducts)
}

func TestAggregateLaterPageFailureKeepsPartialBuffer(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		if call.page == 1 {
			return upstream.PageResult{Products: makeProducts(10, 0, 0), TotalPages: 5, TotalProducts: 50}, nil
		}
		return upstream.PageResult{}, fmt.Errorf("%w: boom", upstream.ErrUpstreamServer)
	}}
	agg := NewAggregator(fetcher)

	buf, err := agg.Aggregate(context.Background(), Query{Availability: AvailabilityOutOfStock}, 40)
	require.NoError(t, err)
	assert.Len(t, buf.Products, 10)
	assert.Equal(t, 50, buf.UpstreamTotalProducts)
	assert.True(t, buf.Exhausted)
	assert.True(t, buf.Truncated)
}

func TestAggregateCancellationPropagates(t *testing.T) {
	fetcher := &fakeFetcher{fn: func(call fetchCall) (upstream.PageResult, error) {
		return upstream.PageResult{}, fmt.Errorf("%w: ctx", upstream.ErrRequestCancelled)
	}}
	agg := NewAggregator(fetcher)

	_, err := agg.Aggregate(context.Background(), Query{}, 40)
	assert.ErrorIs(t, err, upstream.ErrRequestCancelled)
}
