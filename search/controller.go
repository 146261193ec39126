// Package search implements the debounced query -> results state machine.
//
// Every query change bumps a sequence number. Timers, search calls and
// per-item rating lookups carry the sequence number they were started
// under, and their results are applied only while it is still the latest.
package search

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/omdb"
	"github.com/s0up4200/reelcheck/ratings"
)

// Listener receives a snapshot after every state change. Listeners run
// serially and must not call back into the controller's mutating methods.
type Listener func(State)

// Controller owns one search session.
type Controller struct {
	client      omdb.API
	logger      zerolog.Logger
	debounce    time.Duration
	afterFunc   AfterFunc
	concurrency int
	itemRatings bool

	ctx    context.Context
	cancel context.CancelFunc

	lookups singleflight.Group

	mu             sync.Mutex
	state          State
	seq            uint64
	stopTimer      func() bool
	timerPending   bool
	pendingRatings int
	changed        chan struct{}
	listeners      []Listener

	emitMu sync.Mutex
}

// New creates a search controller.
func New(client omdb.API, logger zerolog.Logger, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		client:      client,
		debounce:    DefaultDebounce,
		afterFunc:   timeAfterFunc,
		concurrency: DefaultRatingConcurrency,
		itemRatings: true,
		ctx:         ctx,
		cancel:      cancel,
		state:       State{Status: StatusIdle},
		changed:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = logger.With().
		Str("component", "search").
		Str("session", uuid.NewString()).
		Logger()

	return c
}

// SetQuery records the new query text and restarts the debounce timer.
// Blank text cancels any pending call and resets to idle.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.stopTimerLocked()
	c.pendingRatings = 0

	if strings.TrimSpace(text) == "" {
		c.state = State{Query: text, Status: StatusIdle}
	} else {
		c.state.Query = text
		c.timerPending = true
		c.stopTimer = c.afterFunc(c.debounce, func() { c.fire(seq) })
	}
	c.notifyLocked()
	c.mu.Unlock()

	c.emit()
}

// Retry re-issues the current query immediately.
func (c *Controller) Retry() {
	c.mu.Lock()
	if strings.TrimSpace(c.state.Query) == "" {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	c.stopTimerLocked()
	query := c.beginLocked()
	c.mu.Unlock()

	c.emit()
	go c.run(seq, query)
}

// Submit sets the query and searches immediately, skipping the debounce.
func (c *Controller) Submit(text string) {
	c.SetQuery(text)
	c.Retry()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a listener for state changes.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(slices.Clip(c.listeners), l)
}

// Wait blocks until no debounce timer, search call or rating lookup of the
// current query is outstanding, then returns the state.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		busy := c.timerPending || c.state.Status == StatusLoading || c.pendingRatings > 0
		st := c.snapshotLocked()
		changed := c.changed
		c.mu.Unlock()

		if !busy {
			return st, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Close abandons all pending work. Late results are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.seq++
	c.stopTimerLocked()
	c.pendingRatings = 0
	if c.state.Status == StatusLoading {
		c.state.Status = StatusIdle
	}
	c.notifyLocked()
	c.mu.Unlock()

	c.cancel()
}

// fire runs when the debounce timer of seq expires.
func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.timerPending = false
	c.stopTimer = nil
	query := c.beginLocked()
	c.mu.Unlock()

	c.emit()
	go c.run(seq, query)
}

// beginLocked moves to loading and returns the query to send.
func (c *Controller) beginLocked() string {
	c.timerPending = false
	c.pendingRatings = 0
	c.state.Status = StatusLoading
	c.state.ErrorKind = omdb.KindNone
	c.state.ErrorMessage = ""
	c.notifyLocked()
	return strings.TrimSpace(c.state.Query)
}

// run performs the search call for seq and applies its result if seq is
// still current.
func (c *Controller) run(seq uint64, query string) {
	start := time.Now()
	results, err := c.client.Search(c.ctx, query)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug().
			Str("query", query).
			Msg("Discarding superseded search result")
		return
	}

	next := State{Query: c.state.Query, Ratings: map[string]ratings.Set{}}
	kind := omdb.KindOf(err)
	switch kind {
	case omdb.KindNone:
		next.Status = StatusSuccess
		next.Results = results
	case omdb.KindNotFound:
		next.Status = StatusSuccess
		next.Results = []movie.Summary{}
	default:
		next.Status = StatusError
		next.ErrorKind = kind
		next.ErrorMessage = omdb.UserMessage(err)
	}
	if next.Results == nil && next.Status == StatusSuccess {
		next.Results = []movie.Summary{}
	}
	c.state = next

	var items []movie.Summary
	if c.itemRatings && next.Status == StatusSuccess {
		items = uniqueByID(next.Results)
		c.pendingRatings = len(items)
	}
	c.notifyLocked()
	c.mu.Unlock()

	event := c.logger.Debug()
	if kind != omdb.KindNone && kind != omdb.KindNotFound {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("query", query).
		Str("status", next.Status.String()).
		Int("count", len(next.Results)).
		Dur("elapsed", time.Since(start)).
		Msg("Search finished")

	c.emit()

	if len(items) > 0 {
		c.fetchRatings(seq, items)
	}
}

// fetchRatings looks up each result to build its list ratings. Lookups for
// the same id share one call.
func (c *Controller) fetchRatings(seq uint64, items []movie.Summary) {
	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for _, item := range items {
		item := item
		g.Go(func() error {
			if !c.isCurrent(seq) {
				return nil
			}

			v, err, _ := c.lookups.Do(item.ExternalID, func() (any, error) {
				return c.client.LookupByID(c.ctx, item.ExternalID)
			})

			var set ratings.Set
			if err == nil {
				if raw, ok := v.(*movie.Raw); ok && raw != nil {
					set = raw.Normalize().Ratings
				}
			} else {
				c.logger.Debug().
					Err(err).
					Str("id", item.ExternalID).
					Msg("Failed to fetch list ratings")
			}

			c.applyRating(seq, item.ExternalID, set, err == nil)
			return nil
		})
	}

	_ = g.Wait()
}

// applyRating stores one item's ratings if seq is still current.
func (c *Controller) applyRating(seq uint64, id string, set ratings.Set, ok bool) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.pendingRatings--
	if ok {
		next := maps.Clone(c.state.Ratings)
		if next == nil {
			next = make(map[string]ratings.Set)
		}
		next[id] = set
		c.state.Ratings = next
	}
	c.notifyLocked()
	c.mu.Unlock()

	c.emit()
}

func (c *Controller) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

func (c *Controller) stopTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	c.timerPending = false
}

// notifyLocked wakes every Wait call.
func (c *Controller) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) snapshotLocked() State {
	st := c.state
	st.Results = slices.Clone(st.Results)
	st.Ratings = maps.Clone(st.Ratings)
	return st
}

// emit delivers the latest snapshot to every listener. emitMu keeps
// deliveries ordered.
func (c *Controller) emit() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	st := c.snapshotLocked()
	listeners := c.listeners
	c.mu.Unlock()

	for _, l := range listeners {
		l(st)
	}
}

func uniqueByID(results []movie.Summary) []movie.Summary {
	seen := make(map[string]bool, len(results))
	out := make([]movie.Summary, 0, len(results))
	for _, r := range results {
		if r.ExternalID == "" || seen[r.ExternalID] {
			continue
		}
		seen[r.ExternalID] = true
		out = append(out, r)
	}
	return out
}
