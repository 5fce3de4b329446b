package urlstate

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lumistore/catalog-engine/internal/engine"
	"github.com/lumistore/catalog-engine/internal/taxonomy"
)

// AddressBar abstracts the browser location. Push adds a history entry,
// Replace rewrites the current one without adding history.
type AddressBar interface {
	Current() *url.URL
	Push(u *url.URL)
	Replace(u *url.URL)
}

// MemoryBar is an in-memory AddressBar with back/forward history, used by
// tests and the demo binary.
type MemoryBar struct {
	mu      sync.Mutex
	entries []*url.URL
	pos     int
}

func NewMemoryBar(initial *url.URL) *MemoryBar {
	if initial == nil {
		initial = &url.URL{Path: basePath}
	}
	return &MemoryBar{entries: []*url.URL{initial}}
}

func (b *MemoryBar) Current() *url.URL {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries[b.pos]
}

func (b *MemoryBar) Push(u *url.URL) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries[:b.pos+1], u)
	b.pos = len(b.entries) - 1
}

func (b *MemoryBar) Replace(u *url.URL) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.pos] = u
}

// Back moves one history entry back and returns the new current URL, or nil
// at the start of history.
func (b *MemoryBar) Back() *url.URL {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pos == 0 {
		return nil
	}
	b.pos--
	return b.entries[b.pos]
}

// Forward is the counterpart of Back.
func (b *MemoryBar) Forward() *url.URL {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pos >= len(b.entries)-1 {
		return nil
	}
	b.pos++
	return b.entries[b.pos]
}

// Synchronizer keeps the address bar and the engine session in lockstep,
// in both directions: committed view states write the canonical address
// back, and external navigation (links, back/forward) feeds the session.
type Synchronizer struct {
	bar     AddressBar
	cfg     *taxonomy.Config
	session *engine.Session

	mu   sync.Mutex
	last engine.Query
}

// NewSynchronizer wires the synchronizer as the session's listener. next,
// when non-nil, receives every committed state after the address bar has
// been updated.
func NewSynchronizer(bar AddressBar, cfg *taxonomy.Config, session *engine.Session, next engine.Listener) *Synchronizer {
	s := &Synchronizer{bar: bar, cfg: cfg, session: session}
	session.SetListener(func(v engine.ViewState) {
		s.onState(v)
		if next != nil {
			next(v)
		}
	})
	return s
}

// NavigateURL handles an external navigation to a raw address: a clicked
// link, a shared deep link, or a back/forward move.
func (s *Synchronizer) NavigateURL(ctx context.Context, u *url.URL) {
	q, _ := Decode(u, s.cfg)
	s.navigate(ctx, q)
}

// SwitchBrand changes the brand while preserving the selected category.
func (s *Synchronizer) SwitchBrand(ctx context.Context, brand string) {
	s.mu.Lock()
	prev := s.last
	s.mu.Unlock()

	next := prev
	next.Brand = brand
	next.Page = 1
	s.navigate(ctx, next)
}

// SwitchCategory resolves a category input while preserving the brand.
func (s *Synchronizer) SwitchCategory(ctx context.Context, input string) {
	s.mu.Lock()
	prev := s.last
	s.mu.Unlock()

	next := engine.Query{
		Brand:        prev.Brand,
		Filters:      prev.Filters,
		Availability: prev.Availability,
		ShowOnlyNew:  prev.ShowOnlyNew,
		Sort:         prev.Sort,
		Page:         1,
	}
	resolveCategoryInput(s.cfg, &next, input)
	s.navigate(ctx, Merge(prev, next))
}

func (s *Synchronizer) navigate(ctx context.Context, q engine.Query) {
	s.mu.Lock()
	s.last = q
	s.mu.Unlock()
	s.session.Navigate(ctx, q)
}

// onState writes the canonical address for a committed state. When the bar
// already encodes the same state (the change was pure canonicalization,
// e.g. a parent-category redirect or an alias spelling), the entry is
// replaced instead of pushed so back/forward stays sane.
func (s *Synchronizer) onState(v engine.ViewState) {
	canonical := Encode(v.Query)
	cur := s.bar.Current()
	if cur != nil && cur.String() == canonical.String() {
		return
	}
	if cur != nil && sameState(cur, canonical, s.cfg) {
		log.Debug().Str("url", canonical.String()).Msg("canonicalizing address")
		s.bar.Replace(canonical)
		return
	}
	s.bar.Push(canonical)
}

// sameState reports whether two addresses decode to the same canonical
// query.
func sameState(a, b *url.URL, cfg *taxonomy.Config) bool {
	qa, _ := Decode(a, cfg)
	qb, _ := Decode(b, cfg)
	return Encode(qa).String() == Encode(qb).String()
}
