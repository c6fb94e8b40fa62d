package radio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingSource 在release关闭前阻塞Build
type blockingSource struct {
	release chan struct{}
	entered chan struct{}

	mu      sync.Mutex
	results []sourceResult
	calls   int
}

type sourceResult struct {
	catalog *Catalog
	err     error
}

func newBlockingSource(results ...sourceResult) *blockingSource {
	return &blockingSource{
		release: make(chan struct{}),
		entered: make(chan struct{}, 10),
		results: results,
	}
}

func (s *blockingSource) Build(ctx context.Context) (*Catalog, error) {
	s.entered <- struct{}{}
	<-s.release

	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[s.calls%len(s.results)]
	s.calls++
	return r.catalog, r.err
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) listen(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestUpdaterPublishesAfterCycle(t *testing.T) {
	catalog := &Catalog{Channels: []Channel{{ID: 1, Name: "P1"}}}
	source := newBlockingSource(sourceResult{catalog: catalog})
	recorder := &eventRecorder{}

	u := NewUpdater(source, time.Hour)
	u.AddListener(recorder.listen)

	require.NoError(t, u.Trigger(context.Background()))
	<-source.entered

	// 周期未结束前不发布快照
	assert.Nil(t, u.Catalog())
	assert.Equal(t, StateFetching, u.Status().State)

	close(source.release)
	u.Wait()

	assert.Same(t, catalog, u.Catalog())
	status := u.Status()
	assert.Equal(t, StateIdle, status.State)
	require.NotNil(t, status.LastEvent)
	assert.Equal(t, CycleSucceeded, status.LastEvent.Kind)
	assert.Equal(t, 1, status.LastEvent.Channels)
	assert.Equal(t, []EventKind{CycleStarted, CycleSucceeded}, recorder.kinds())
}

func TestUpdaterRejectsConcurrentTrigger(t *testing.T) {
	source := newBlockingSource(sourceResult{catalog: &Catalog{}})
	u := NewUpdater(source, time.Hour)

	require.NoError(t, u.Trigger(context.Background()))
	<-source.entered

	assert.ErrorIs(t, u.Trigger(context.Background()), ErrCycleInProgress)
	assert.False(t, u.Tick(context.Background()))

	close(source.release)
	u.Wait()

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Equal(t, 1, source.calls)
}

func TestUpdaterFailedCycleKeepsPreviousSnapshot(t *testing.T) {
	previous := &Catalog{Channels: []Channel{{ID: 1, Name: "P1"}}}
	source := newBlockingSource(
		sourceResult{catalog: previous},
		sourceResult{err: ErrCatalogUnavailable},
	)
	close(source.release)
	recorder := &eventRecorder{}

	u := NewUpdater(source, time.Hour)
	u.AddListener(recorder.listen)

	require.NoError(t, u.Trigger(context.Background()))
	u.Wait()
	require.NoError(t, u.Trigger(context.Background()))
	u.Wait()

	assert.Same(t, previous, u.Catalog())
	last := u.Status().LastEvent
	require.NotNil(t, last)
	assert.Equal(t, CycleFailed, last.Kind)
	assert.True(t, errors.Is(last.Err, ErrCatalogUnavailable))
	assert.Equal(t, []EventKind{CycleStarted, CycleSucceeded, CycleStarted, CycleFailed}, recorder.kinds())
}

func TestUpdaterTickRespectsNextEligible(t *testing.T) {
	source := newBlockingSource(sourceResult{catalog: &Catalog{}})
	close(source.release)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	u := NewUpdater(source, time.Hour)
	u.now = func() time.Time { return now }

	// 首次定时调用立即执行
	require.True(t, u.Tick(context.Background()))
	u.Wait()
	assert.Equal(t, now.Add(time.Hour), u.Status().NextEligible)

	now = now.Add(30 * time.Minute)
	assert.False(t, u.Tick(context.Background()))

	// 按需触发不受下次可更新时间限制
	require.NoError(t, u.Trigger(context.Background()))
	u.Wait()
	assert.Equal(t, now.Add(time.Hour), u.Status().NextEligible)

	now = now.Add(time.Hour)
	assert.True(t, u.Tick(context.Background()))
	u.Wait()

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.Equal(t, 3, source.calls)
}

func TestUpdaterWaitWithoutCycle(t *testing.T) {
	u := NewUpdater(newBlockingSource(sourceResult{}), time.Hour)
	u.Wait()
	assert.Equal(t, StateIdle, u.Status().State)
	assert.Nil(t, u.Status().LastEvent)
}

func TestUpdaterFinishEventPrecedesNextCycle(t *testing.T) {
	source := newBlockingSource(sourceResult{catalog: &Catalog{}})
	close(source.release)
	recorder := &eventRecorder{}

	u := NewUpdater(source, time.Hour)
	u.AddListener(recorder.listen)

	// 结束通知期间周期仍在执行，新的触发被拒绝
	var triggerErr error
	u.AddListener(func(ev Event) {
		if ev.Kind == CycleSucceeded {
			triggerErr = u.Trigger(context.Background())
		}
	})

	require.NoError(t, u.Trigger(context.Background()))
	u.Wait()

	assert.ErrorIs(t, triggerErr, ErrCycleInProgress)
	assert.Equal(t, StateIdle, u.Status().State)
	assert.Equal(t, []EventKind{CycleStarted, CycleSucceeded}, recorder.kinds())

	// 空闲后可以立即开始下一个周期
	require.NoError(t, u.Trigger(context.Background()))
	u.Wait()
	assert.Equal(t, []EventKind{CycleStarted, CycleSucceeded, CycleStarted, CycleSucceeded}, recorder.kinds())
}
