package listing

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Page is one server response. Extra carries response fields that belong
// to the same generation as the items, such as payment totals.
type Page[T any] struct {
	Items      []T
	TotalPages int
	Extra      any
}

// State is the list a screen currently displays.
type State[T any] struct {
	Items  []T    `json:"items"`
	Pager  Pager  `json:"pager"`
	Filter string `json:"filter"`
	Extra  any    `json:"-"`
}

// Result reports what a load did to the displayed state.
type Result[T any] struct {
	State[T]
	Stale bool
	Err   error
}

// FetchFunc issues one request for page.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

const (
	DefaultIdleTTL    = 30 * time.Minute
	DefaultMaxEntries = 10000
)

type entry[T any] struct {
	generation uint64
	state      State[T]
	loaded     bool
	lastUsed   time.Time
}

// Fetcher keeps the last applied list per key (one key per screen of a
// session). Every load takes a generation number; a response is applied
// only while its generation is the newest for the key, so a slow earlier
// response never overwrites a later one.
//
// Keys idle for longer than IdleTTL are evicted, and the map never holds
// more than MaxEntries keys; the least recently used go first.
type Fetcher[T any] struct {
	IdleTTL    time.Duration
	MaxEntries int

	mu        sync.Mutex
	entries   map[string]*entry[T]
	lastSweep time.Time
	now       func() time.Time
}

func NewFetcher[T any]() *Fetcher[T] {
	return NewBoundedFetcher[T](DefaultIdleTTL, DefaultMaxEntries)
}

func NewBoundedFetcher[T any](idleTTL time.Duration, maxEntries int) *Fetcher[T] {
	return &Fetcher[T]{
		IdleTTL:    idleTTL,
		MaxEntries: maxEntries,
		entries:    make(map[string]*entry[T]),
		now:        time.Now,
	}
}

// Len returns the number of retained keys.
func (f *Fetcher[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *Fetcher[T]) begin(key string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	e, ok := f.entries[key]
	if !ok {
		f.evict(now)
		e = &entry[T]{}
		f.entries[key] = e
	}
	e.generation++
	e.lastUsed = now
	return e.generation
}

// evict runs with mu held and makes room for one new key.
func (f *Fetcher[T]) evict(now time.Time) {
	full := f.MaxEntries > 0 && len(f.entries) >= f.MaxEntries
	if f.IdleTTL > 0 && (full || now.Sub(f.lastSweep) >= f.IdleTTL) {
		for key, e := range f.entries {
			if now.Sub(e.lastUsed) > f.IdleTTL {
				delete(f.entries, key)
			}
		}
		f.lastSweep = now
	}
	for f.MaxEntries > 0 && len(f.entries) >= f.MaxEntries {
		var oldestKey string
		var oldest time.Time
		for key, e := range f.entries {
			if oldestKey == "" || e.lastUsed.Before(oldest) {
				oldestKey, oldest = key, e.lastUsed
			}
		}
		delete(f.entries, oldestKey)
	}
}

// Load fetches filter/page and applies the response when it is current.
// On failure the previous state is kept and the error returned with it,
// except when the filter changed: items of the previous filter (another
// user's payments, say) are never shown under the new one, so the state
// is emptied instead. A response, failed or not, whose generation has
// been superseded is dropped and reported as Stale without an error.
func (f *Fetcher[T]) Load(ctx context.Context, key, filter string, page int, fetch FetchFunc[T]) Result[T] {
	if page < 1 {
		page = 1
	}
	gen := f.begin(key)
	resp, err := fetch(ctx, page)

	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		// evicted or forgotten while the request was in flight
		return Result[T]{State: emptyState[T](filter), Stale: true}
	}
	e.lastUsed = f.now()

	if gen != e.generation {
		current := e.state
		if !e.loaded {
			current = emptyState[T](filter)
		}
		return Result[T]{State: current, Stale: true}
	}

	if err != nil {
		prev := e.state
		if !e.loaded || prev.Filter != filter {
			prev = emptyState[T](filter)
		}
		return Result[T]{State: prev, Err: err}
	}

	items := resp.Items
	if items == nil {
		items = []T{}
	}
	e.state = State[T]{
		Items:  items,
		Pager:  NewPager(page, resp.TotalPages),
		Filter: filter,
		Extra:  resp.Extra,
	}
	e.loaded = true
	return Result[T]{State: e.state}
}

func emptyState[T any](filter string) State[T] {
	return State[T]{Items: []T{}, Pager: NewPager(1, 1), Filter: filter}
}

// Current returns the applied state for key, if any.
func (f *Fetcher[T]) Current(key string) (State[T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok || !e.loaded {
		return State[T]{}, false
	}
	return e.state, true
}

// Forget drops every key with the given prefix, used on logout.
func (f *Fetcher[T]) Forget(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
}

func Key(view, screen string) string {
	return view + "/" + screen
}
