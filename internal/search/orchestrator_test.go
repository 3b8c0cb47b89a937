package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/logging"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// recorder collects observed snapshots.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func newTestOrchestrator(t *testing.T, remote Remote, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard()), WithDebounce(20 * time.Millisecond)}, opts...)
	o := New(remote, opts...)
	t.Cleanup(o.Close)
	return o
}

func TestNew_Defaults(t *testing.T) {
	o := New(&fakeRemote{})
	defer o.Close()

	s := o.Snapshot()
	assert.Equal(t, youtube.SortRelevance, s.Sort)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Results)
	assert.Equal(t, DefaultDebounce, o.delay)
}

func TestRunSearch_AppliesResults(t *testing.T) {
	// Given: an orchestrator with an observer
	rec := &recorder{}
	o := newTestOrchestrator(t, &fakeRemote{}, WithObserver(rec.observe))

	// When: a search runs
	err := o.RunSearch(context.Background(), "go", youtube.SortDate)

	// Then: results replace the list and loading is off
	require.NoError(t, err)
	s := o.Snapshot()
	assert.Equal(t, []string{"go-1", "go-2", "go-3"}, ids(s.Results))
	assert.False(t, s.Loading)
	assert.Nil(t, s.Err)
	assert.Equal(t, "go", s.Query)
	assert.Equal(t, youtube.SortDate, s.Sort)
	assert.Equal(t, uint64(1), s.Generation)

	// And: the observer saw Loading then Idle
	states := rec.all()
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.Len(t, states[1].Results, 3)
}

func TestRunSearch_EmptyQueryIsSent(t *testing.T) {
	remote := &fakeRemote{}
	o := newTestOrchestrator(t, remote)

	require.NoError(t, o.RunSearch(context.Background(), "", youtube.SortRelevance))

	assert.Equal(t, []string{""}, remote.calls())
}

func TestRunSearch_FailureKeepsPreviousResults(t *testing.T) {
	// Given: a successful first search
	fail := false
	remote := &fakeRemote{
		searchFn: func(ctx context.Context, q string, _ youtube.SortOrder) ([]youtube.Video, error) {
			if fail {
				return nil, yterrors.APIError(500, "backend error")
			}
			return videos(q), nil
		},
	}
	o := newTestOrchestrator(t, remote)
	require.NoError(t, o.RunSearch(context.Background(), "first", youtube.SortRelevance))
	before := o.Snapshot().Results

	// When: the next search fails
	fail = true
	err := o.RunSearch(context.Background(), "second", youtube.SortRelevance)

	// Then: the error is surfaced, results are unchanged, loading is off
	require.Error(t, err)
	assert.Equal(t, yterrors.ErrCodeSearchFailed, yterrors.GetCode(err))
	s := o.Snapshot()
	assert.Equal(t, before, s.Results)
	assert.False(t, s.Loading)
	assert.Equal(t, err, s.Err)

	// And: a later success clears the error
	fail = false
	require.NoError(t, o.RunSearch(context.Background(), "third", youtube.SortRelevance))
	assert.Nil(t, o.Snapshot().Err)
	assert.Equal(t, []string{"third-1", "third-2", "third-3"}, ids(o.Snapshot().Results))
}

func TestRunSearch_DegradedCommentsStillSucceed(t *testing.T) {
	remote := &fakeRemote{
		commentsFn: func(ctx context.Context, id string) (youtube.CommentPage, error) {
			if id == "q-3" {
				return youtube.CommentPage{}, yterrors.NetworkError("reset", nil)
			}
			return commentsFor(id), nil
		},
	}
	o := newTestOrchestrator(t, remote)

	require.NoError(t, o.RunSearch(context.Background(), "q", youtube.SortRelevance))

	s := o.Snapshot()
	require.Len(t, s.Results, 3)
	assert.Empty(t, s.Results[2].Comments)
	assert.Nil(t, s.Err)
}

func TestRunSearch_StaleSearchNeverOverwritesNewer(t *testing.T) {
	// Given: "cat" is slow and ignores cancellation, "dog" is fast
	catStarted := make(chan struct{})
	releaseCat := make(chan struct{})
	remote := &fakeRemote{
		searchFn: func(ctx context.Context, q string, _ youtube.SortOrder) ([]youtube.Video, error) {
			if q == "cat" {
				close(catStarted)
				<-releaseCat
			}
			return videos(q), nil
		},
	}
	o := newTestOrchestrator(t, remote)

	catDone := make(chan error, 1)
	go func() { catDone <- o.RunSearch(context.Background(), "cat", youtube.SortRelevance) }()
	<-catStarted

	// When: "dog" starts and finishes while "cat" is in flight, then "cat" finishes
	require.NoError(t, o.RunSearch(context.Background(), "dog", youtube.SortRelevance))
	close(releaseCat)
	require.NoError(t, <-catDone)

	// Then: the list still holds dog's results
	s := o.Snapshot()
	assert.Equal(t, []string{"dog-1", "dog-2", "dog-3"}, ids(s.Results))
	assert.Equal(t, "dog", s.Query)
	assert.False(t, s.Loading)
	assert.Equal(t, uint64(2), s.Generation)
}

func TestRunSearch_StaleFailureIsIgnored(t *testing.T) {
	catStarted := make(chan struct{})
	releaseCat := make(chan struct{})
	remote := &fakeRemote{
		searchFn: func(ctx context.Context, q string, _ youtube.SortOrder) ([]youtube.Video, error) {
			if q == "cat" {
				close(catStarted)
				<-releaseCat
				return nil, yterrors.APIError(500, "late failure")
			}
			return videos(q), nil
		},
	}
	o := newTestOrchestrator(t, remote)

	catDone := make(chan error, 1)
	go func() { catDone <- o.RunSearch(context.Background(), "cat", youtube.SortRelevance) }()
	<-catStarted
	require.NoError(t, o.RunSearch(context.Background(), "dog", youtube.SortRelevance))
	close(releaseCat)

	assert.NoError(t, <-catDone)
	assert.Nil(t, o.Snapshot().Err)
	assert.Equal(t, []string{"dog-1", "dog-2", "dog-3"}, ids(o.Snapshot().Results))
}

func TestRunSearch_NewSearchCancelsPrevious(t *testing.T) {
	// Given: a search that waits on its context
	canceled := make(chan struct{})
	started := make(chan struct{})
	remote := &fakeRemote{
		searchFn: func(ctx context.Context, q string, _ youtube.SortOrder) ([]youtube.Video, error) {
			if q == "slow" {
				close(started)
				<-ctx.Done()
				close(canceled)
				return []youtube.Video{}, nil
			}
			return videos(q), nil
		},
	}
	o := newTestOrchestrator(t, remote)
	go func() { _ = o.RunSearch(context.Background(), "slow", youtube.SortRelevance) }()
	<-started

	// When: a newer search starts
	require.NoError(t, o.RunSearch(context.Background(), "fast", youtube.SortRelevance))

	// Then: the older one's context was canceled
	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("previous search was not canceled")
	}
	assert.Equal(t, []string{"fast-1", "fast-2", "fast-3"}, ids(o.Snapshot().Results))
}

func TestRunSearch_CallerCancelKeepsResults(t *testing.T) {
	started := make(chan struct{})
	remote := &fakeRemote{
		searchFn: func(ctx context.Context, q string, _ youtube.SortOrder) ([]youtube.Video, error) {
			if q == "slow" {
				close(started)
				<-ctx.Done()
				return []youtube.Video{}, nil
			}
			return videos(q), nil
		},
	}
	o := newTestOrchestrator(t, remote)
	require.NoError(t, o.RunSearch(context.Background(), "first", youtube.SortRelevance))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.RunSearch(ctx, "slow", youtube.SortRelevance) }()
	<-started
	cancel()

	require.NoError(t, <-done)
	s := o.Snapshot()
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"first-1", "first-2", "first-3"}, ids(s.Results))
}

func TestSetQuery_DebouncesToOneSearch(t *testing.T) {
	// Given: an orchestrator that reports completed searches
	applied := make(chan State, 10)
	remote := &fakeRemote{}
	o := newTestOrchestrator(t, remote, WithObserver(func(s State) {
		if !s.Loading && s.Generation > 0 {
			applied <- s
		}
	}))

	// When: the user types quickly
	for _, text := range []string{"g", "go", "gol", "gola", "golang"} {
		o.SetQuery(text)
		time.Sleep(5 * time.Millisecond)
	}

	// Then: one search for the final text
	select {
	case s := <-applied:
		assert.Equal(t, "golang", s.Query)
		assert.Equal(t, []string{"golang-1", "golang-2", "golang-3"}, ids(s.Results))
	case <-time.After(time.Second):
		t.Fatal("debounced search never ran")
	}
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"golang"}, remote.calls())
}

func TestSetSort_ReadsLatestQueryAtFireTime(t *testing.T) {
	remote := &fakeRemote{}
	done := make(chan State, 10)
	o := newTestOrchestrator(t, remote, WithObserver(func(s State) {
		if !s.Loading && s.Generation > 0 {
			done <- s
		}
	}))

	o.SetSort(youtube.SortRating)
	o.SetQuery("late")

	select {
	case s := <-done:
		assert.Equal(t, youtube.SortRating, s.Sort)
	case <-time.After(time.Second):
		t.Fatal("debounced search never ran")
	}
	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, []string{"late"}, remote.searches)
	assert.Equal(t, []youtube.SortOrder{youtube.SortRating}, remote.orders)
}

func TestSetQuery_EditDuringFireIsSearchedNext(t *testing.T) {
	// Given: a debounced run that has read "ab" when the user types "c"
	remote := &fakeRemote{}
	o := newTestOrchestrator(t, remote)
	var once sync.Once
	o.afterRead = func() {
		once.Do(func() { o.SetQuery("abc") })
	}

	// When: the first debounced run fires
	o.SetQuery("ab")

	// Then: the edit survives the "ab" run and gets its own search
	require.Eventually(t, func() bool {
		calls := remote.calls()
		return len(calls) == 2 && calls[1] == "abc"
	}, time.Second, 5*time.Millisecond, "searches: %v", remote.calls())
	assert.Equal(t, []string{"ab", "abc"}, remote.calls())

	require.Eventually(t, func() bool { return !o.Snapshot().Loading }, time.Second, 5*time.Millisecond)
	s := o.Snapshot()
	assert.Equal(t, "abc", s.Query)
	assert.Equal(t, []string{"abc-1", "abc-2", "abc-3"}, ids(s.Results))
}

func TestRunSearch_RecordsInputs(t *testing.T) {
	o := newTestOrchestrator(t, &fakeRemote{})
	o.SetQuery("typed")

	require.NoError(t, o.RunSearch(context.Background(), "direct", youtube.SortRating))

	s := o.Snapshot()
	assert.Equal(t, "direct", s.Query)
	assert.Equal(t, youtube.SortRating, s.Sort)
}

func TestSubmit_RunsImmediately(t *testing.T) {
	remote := &fakeRemote{}
	o := newTestOrchestrator(t, remote, WithDebounce(time.Hour))

	o.SetQuery("now")
	o.Submit()

	assert.Equal(t, []string{"now"}, remote.calls())
	assert.Equal(t, []string{"now-1", "now-2", "now-3"}, ids(o.Snapshot().Results))

	// Submitting with nothing pending re-runs the current query.
	o.Submit()
	assert.Equal(t, []string{"now", "now"}, remote.calls())
}

func TestWithSort_InitialOrder(t *testing.T) {
	o := newTestOrchestrator(t, &fakeRemote{}, WithSort(youtube.SortDate))
	assert.Equal(t, youtube.SortDate, o.Snapshot().Sort)
}

func TestClose_StopsPendingAndRejectsNewSearches(t *testing.T) {
	remote := &fakeRemote{}
	o := New(remote, WithLogger(logging.Discard()), WithDebounce(30*time.Millisecond))

	o.SetQuery("never")
	o.Close()
	o.Close()

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, remote.calls())
	assert.Error(t, o.RunSearch(context.Background(), "x", youtube.SortRelevance))
}

func TestClose_CancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	remote := &fakeRemote{
		searchFn: func(ctx context.Context, q string, _ youtube.SortOrder) ([]youtube.Video, error) {
			close(started)
			<-ctx.Done()
			return []youtube.Video{}, nil
		},
	}
	o := New(remote, WithLogger(logging.Discard()))

	done := make(chan error, 1)
	go func() { done <- o.RunSearch(context.Background(), "q", youtube.SortRelevance) }()
	<-started
	o.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the in-flight search")
	}
}

func TestObserver_SnapshotsAreMonotonic(t *testing.T) {
	rec := &recorder{}
	o := newTestOrchestrator(t, &fakeRemote{}, WithObserver(rec.observe))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = o.RunSearch(context.Background(), "q", youtube.SortRelevance)
		}()
	}
	wg.Wait()

	states := rec.all()
	require.NotEmpty(t, states)
	for i := 1; i < len(states); i++ {
		assert.GreaterOrEqual(t, states[i].Generation, states[i-1].Generation)
	}
	last := states[len(states)-1]
	assert.False(t, last.Loading)
	assert.Equal(t, uint64(10), last.Generation)
}
