package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lumistore/catalog-engine/internal/facet"
	"github.com/lumistore/catalog-engine/internal/upstream"
)

// ViewState is everything the catalog page needs to render for one
// navigation. Err, when set, is a surfaced fetch failure; Products is still
// valid (possibly empty) so an empty-state can render alongside the banner.
type ViewState struct {
	Query         Query
	Products      []upstream.ProductRecord
	TotalPages    int
	TotalProducts int
	Facets        facet.Facets
	// MayBeIncomplete is set when buffered aggregation hit its fetch cap,
	// so the filtered totals reflect only a subset of the category.
	MayBeIncomplete bool
	Err             error
}

// Listener receives committed view states, in navigation order.
type Listener func(ViewState)

// Session owns the current resolved query and buffer. Every Navigate call
// assigns a monotonic token and cancels the previous in-flight fetch; a
// pipeline result commits only while its token is still the latest, so the
// last navigation intent always wins regardless of completion order.
type Session struct {
	agg      *Aggregator
	pageSize int
	id       string

	// deliverMu serializes the token check with listener delivery so
	// states reach the listener in token order.
	deliverMu sync.Mutex

	mu       sync.Mutex
	token    uint64
	cancel   context.CancelFunc
	current  ViewState
	listener Listener
}

func NewSession(agg *Aggregator, pageSize int) *Session {
	return &Session{
		agg:      agg,
		pageSize: pageSize,
		id:       uuid.NewString(),
	}
}

// SetListener registers the sink for committed view states.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Current returns the last committed view state.
func (s *Session) Current() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate starts resolving a new intent asynchronously, superseding any
// in-flight one.
func (s *Session) Navigate(ctx context.Context, q Query) {
	if q.Page < 1 {
		q.Page = 1
	}

	s.mu.Lock()
	s.token++
	token := s.token
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	log.Debug().
		Str("session", s.id).
		Uint64("token", token).
		Str("brand", q.Brand).
		Int("page", q.Page).
		Msg("navigation started")

	go s.run(runCtx, token, q)
}

func (s *Session) run(ctx context.Context, token uint64, q Query) {
	buf, err := s.agg.Aggregate(ctx, q, s.pageSize)
	if errors.Is(err, upstream.ErrRequestCancelled) {
		log.Debug().Str("session", s.id).Uint64("token", token).Msg("navigation cancelled, result discarded")
		return
	}

	products, totalPages, totalProducts := Apply(buf, q, s.pageSize)
	state := ViewState{
		Query:           q,
		Products:        products,
		TotalPages:      totalPages,
		TotalProducts:   totalProducts,
		Facets:          facet.Extract(products),
		MayBeIncomplete: buf.Truncated,
		Err:             err,
	}
	s.commit(token, state)
}

// commit is the compare-and-swap boundary: a state whose token no longer
// matches the latest issued one must not mutate shared state or reach the
// listener. deliverMu is held across both the token check and the listener
// call, so a state accepted here cannot be delivered after one with a newer
// token. The listener runs outside s.mu and may call Navigate.
func (s *Session) commit(token uint64, state ViewState) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if token != s.token {
		s.mu.Unlock()
		log.Debug().Str("session", s.id).Uint64("token", token).Msg("stale navigation result discarded")
		return
	}
	s.current = state
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(state)
	}
}
