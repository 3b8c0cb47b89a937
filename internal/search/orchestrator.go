package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Aman-CERP/ytsearch/internal/debounce"
	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/metrics"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// DefaultDebounce is the quiet period between the last edit and the search.
const DefaultDebounce = 500 * time.Millisecond

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebounce sets the quiet period used by SetQuery and SetSort.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.delay = d
	}
}

// WithObserver registers fn to receive a snapshot after every state change.
// Snapshots arrive in order; fn must not call back into the orchestrator.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSort sets the initial sort order.
func WithSort(order youtube.SortOrder) Option {
	return func(o *Orchestrator) {
		if order != "" {
			o.state.Sort = order
		}
	}
}

// Orchestrator owns the search state. Every search gets a generation number;
// starting a search cancels the previous one, and a search that finishes after
// a newer one started is discarded.
type Orchestrator struct {
	remote    Remote
	logger    *slog.Logger
	observer  func(State)
	delay     time.Duration
	debouncer *debounce.Debouncer

	base       context.Context // canceled by Close
	baseCancel context.CancelFunc

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc // cancels the current generation
	version uint64             // bumped on every state change
	closed  bool

	notifyMu     sync.Mutex
	notifiedUpTo uint64

	afterRead func() // test hook between reading the input and running
}

// New creates an Orchestrator over remote.
func New(remote Remote, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		remote: remote,
		logger: slog.Default(),
		delay:  DefaultDebounce,
		state:  State{Sort: youtube.SortRelevance},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.base, o.baseCancel = context.WithCancel(context.Background())
	o.debouncer = debounce.New(o.delay, o.fire)
	return o
}

// SetQuery records the input text and schedules a debounced search.
func (o *Orchestrator) SetQuery(text string) {
	o.update(func(s *State) { s.Query = text })
}

// SetSort records the sort order and schedules a debounced search.
func (o *Orchestrator) SetSort(order youtube.SortOrder) {
	o.update(func(s *State) { s.Sort = order })
}

func (o *Orchestrator) update(fn func(*State)) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	fn(&o.state)
	snap, v := o.snapshotLocked()
	o.mu.Unlock()

	o.notify(snap, v)
	o.debouncer.Trigger()
}

// Submit searches for the current query and sort now, dropping any pending
// debounced run. It blocks until the search finishes.
func (o *Orchestrator) Submit() {
	if !o.debouncer.Flush() {
		o.fire()
	}
}

// fire is the debounced action. It reads the query and sort at fire time.
func (o *Orchestrator) fire() {
	o.mu.Lock()
	query, order := o.state.Query, o.state.Sort
	o.mu.Unlock()

	if o.afterRead != nil {
		o.afterRead()
	}

	// The inputs are not written back: an edit that lands after the read
	// has scheduled its own run and must stay in the state for it.
	// Failures are recorded in the state and logged by run.
	_ = o.run(o.base, query, order, false)
}

// RunSearch starts a new generation, searches, and applies the results if no
// newer search has started meanwhile.
//
// On search failure the previous results are kept, Loading is reset, and the
// error is stored in State.Err and returned. A superseded search returns nil
// without touching the state.
func (o *Orchestrator) RunSearch(ctx context.Context, query string, order youtube.SortOrder) error {
	return o.run(ctx, query, order, true)
}

// run performs one search generation. setInputs records query and order as
// the current input; debounced runs leave the input as the user last set it.
func (o *Orchestrator) run(ctx context.Context, query string, order youtube.SortOrder, setInputs bool) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return yterrors.InternalError("search orchestrator is closed", nil)
	}
	if o.cancel != nil {
		o.cancel()
	}
	o.state.Generation++
	gen := o.state.Generation
	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(o.base, cancel)
	o.cancel = cancel
	if setInputs {
		o.state.Query = query
		o.state.Sort = order
	}
	o.state.Loading = true
	snap, v := o.snapshotLocked()
	o.mu.Unlock()

	defer stop()
	defer cancel()

	o.notify(snap, v)
	o.logger.Info("search_started",
		slog.String("query", query),
		slog.String("order", string(order)),
		slog.Uint64("generation", gen))
	start := time.Now()

	results, err := Collect(runCtx, o.remote, query, order, o.logger)

	o.mu.Lock()
	if gen != o.state.Generation {
		current := o.state.Generation
		o.mu.Unlock()
		metrics.SearchesTotal.WithLabelValues("stale").Inc()
		o.logger.Debug("search_stale",
			slog.Uint64("generation", gen),
			slog.Uint64("current", current))
		return nil
	}

	o.cancel = nil
	o.state.Loading = false

	switch {
	case err != nil:
		o.state.Err = err
		snap, v = o.snapshotLocked()
		o.mu.Unlock()
		o.notify(snap, v)

		metrics.SearchesTotal.WithLabelValues("failed").Inc()
		o.logger.Error("search_failed", append([]any{
			slog.String("query", query),
			slog.Uint64("generation", gen),
		}, yterrors.LogAttrs(err)...)...)
		return err

	case runCtx.Err() != nil:
		// Canceled without being superseded (Close or the caller's ctx).
		snap, v = o.snapshotLocked()
		o.mu.Unlock()
		o.notify(snap, v)

		metrics.SearchesTotal.WithLabelValues("canceled").Inc()
		o.logger.Debug("search_canceled", slog.Uint64("generation", gen))
		return nil
	}

	o.state.Results = results
	o.state.Err = nil
	snap, v = o.snapshotLocked()
	o.mu.Unlock()
	o.notify(snap, v)

	metrics.SearchesTotal.WithLabelValues("applied").Inc()
	o.logger.Info("search_complete",
		slog.String("query", query),
		slog.Uint64("generation", gen),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Close stops the debouncer and cancels any in-flight search.
// Safe to call multiple times.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.debouncer.Stop()
	o.baseCancel()
}

// snapshotLocked bumps the version and copies the state. Caller holds o.mu.
func (o *Orchestrator) snapshotLocked() (State, uint64) {
	o.version++
	return o.state, o.version
}

// notify delivers snap unless a newer snapshot was already delivered.
func (o *Orchestrator) notify(snap State, version uint64) {
	if o.observer == nil {
		return
	}
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	if version <= o.notifiedUpTo {
		return
	}
	o.notifiedUpTo = version
	o.observer(snap)
}
