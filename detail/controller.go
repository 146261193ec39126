// Package detail implements the selected movie -> enriched details state
// machine.
package detail

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/reelcheck/movie"
	"github.com/s0up4200/reelcheck/omdb"
)

// notFoundMessage is shown when the lookup has no match.
const notFoundMessage = "No details available for this movie"

// Listener receives a snapshot after every state change.
type Listener func(State)

// Controller owns the details of one selected movie.
type Controller struct {
	client omdb.API
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	seq       uint64
	changed   chan struct{}
	listeners []Listener

	emitMu sync.Mutex
}

// New creates a detail controller.
func New(client omdb.API, logger zerolog.Logger, listeners ...Listener) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		client:    client,
		logger:    logger.With().Str("component", "detail").Str("session", uuid.NewString()).Logger(),
		ctx:       ctx,
		cancel:    cancel,
		state:     State{Status: StatusIdle},
		changed:   make(chan struct{}),
		listeners: slices.Clip(listeners),
	}
}

// Select starts a lookup for summary. Selecting the id that is already
// loading or ready is a no-op.
func (c *Controller) Select(summary movie.Summary) {
	id := strings.TrimSpace(summary.ExternalID)
	summary.ExternalID = id

	c.mu.Lock()
	if id != "" && id == c.state.ExternalID &&
		(c.state.Status == StatusReady || c.state.Status == StatusLoading) {
		c.mu.Unlock()
		return
	}
	seq := c.startLocked(id, summary)
	c.mu.Unlock()

	c.emit()
	if id != "" {
		go c.run(seq, id, summary)
	}
}

// SelectID selects a movie known only by its external id.
func (c *Controller) SelectID(id string) {
	c.Select(movie.Summary{ExternalID: id})
}

// Reload re-fetches the current selection unconditionally.
func (c *Controller) Reload() {
	c.mu.Lock()
	id, summary := c.state.ExternalID, c.state.Selected
	if id == "" {
		c.mu.Unlock()
		return
	}
	seq := c.startLocked(id, summary)
	c.mu.Unlock()

	c.emit()
	go c.run(seq, id, summary)
}

// Clear drops the selection.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.seq++
	c.state = State{Status: StatusIdle}
	c.notifyLocked()
	c.mu.Unlock()

	c.emit()
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

// Wait blocks until the current lookup reaches a terminal state.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		busy := c.state.Status == StatusLoading
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

// URL returns the link for dest, or "" while the information it needs is
// not known. The IMDb link only needs the external id and is available
// before the lookup finishes.
func (c *Controller) URL(dest movie.Destination) string {
	st := c.State()
	if dest == movie.IMDb {
		return movie.URL(dest, "", st.ExternalID)
	}
	if st.Details == nil {
		return ""
	}
	return movie.URL(dest, st.Details.Title, st.ExternalID)
}

// Close abandons the in-flight lookup.
func (c *Controller) Close() {
	c.mu.Lock()
	c.seq++
	if c.state.Status == StatusLoading {
		c.state.Status = StatusIdle
	}
	c.notifyLocked()
	c.mu.Unlock()

	c.cancel()
}

func (c *Controller) startLocked(id string, summary movie.Summary) uint64 {
	c.seq++
	c.state = State{
		ExternalID: id,
		Selected:   summary,
		Status:     StatusLoading,
	}
	if id == "" {
		c.state.Status = StatusError
		c.state.ErrorKind = omdb.KindNotFound
		c.state.ErrorMessage = notFoundMessage
	}
	c.notifyLocked()
	return c.seq
}

func (c *Controller) run(seq uint64, id string, summary movie.Summary) {
	start := time.Now()
	raw, err := c.client.LookupByID(c.ctx, id)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug().
			Str("id", id).
			Msg("Discarding superseded detail lookup")
		return
	}

	kind := omdb.KindOf(err)
	if err == nil && raw == nil {
		kind = omdb.KindNotFound
	}

	next := State{ExternalID: id, Selected: summary}
	switch kind {
	case omdb.KindNone:
		details := raw.Normalize().Merge(summary)
		details.ExternalID = id
		next.Status = StatusReady
		next.Details = &details
	case omdb.KindNotFound:
		next.Status = StatusError
		next.ErrorKind = kind
		next.ErrorMessage = notFoundMessage
	default:
		next.Status = StatusError
		next.ErrorKind = kind
		next.ErrorMessage = omdb.UserMessage(err)
	}
	c.state = next
	c.notifyLocked()
	c.mu.Unlock()

	event := c.logger.Debug()
	if next.Status == StatusError && kind != omdb.KindNotFound {
		event = c.logger.Warn().Err(err)
	}
	event.
		Str("id", id).
		Str("status", next.Status.String()).
		Dur("elapsed", time.Since(start)).
		Msg("Detail lookup finished")

	c.emit()
}

func (c *Controller) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Controller) snapshotLocked() State {
	st := c.state
	if st.Details != nil {
		d := *st.Details
		d.Cast = slices.Clone(d.Cast)
		st.Details = &d
	}
	return st
}

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
