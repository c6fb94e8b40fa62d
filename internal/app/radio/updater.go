package radio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// CatalogSource 一次完整的获取周期
type CatalogSource interface {
	Build(ctx context.Context) (*Catalog, error)
}

type UpdaterState int32

const (
	StateIdle UpdaterState = iota
	StateFetching
)

func (s UpdaterState) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	default:
		return "idle"
	}
}

type EventKind int

const (
	CycleStarted EventKind = iota
	CycleSucceeded
	CycleFailed
)

func (k EventKind) String() string {
	switch k {
	case CycleStarted:
		return "started"
	case CycleSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Event 更新周期的状态通知
type Event struct {
	Kind     EventKind
	At       time.Time
	Duration time.Duration // 周期耗时，仅在结束事件中有值
	Channels int           // 快照中的频道数
	Failures int           // 获取节目单失败的频道数
	Err      error
}

type Listener func(Event)

// UpdaterStatus 更新器当前状态
type UpdaterStatus struct {
	State        UpdaterState
	NextEligible time.Time
	LastEvent    *Event
}

// Updater 保证同一时间最多只有一个更新周期，并在周期完整结束后才发布快照
type Updater struct {
	source   CatalogSource
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu           sync.Mutex
	state        UpdaterState
	nextEligible time.Time
	lastEvent    *Event
	listeners    []Listener
	done         chan struct{}

	// 缓存最新的频道列表快照
	catalog atomic.Pointer[Catalog]
}

func NewUpdater(source CatalogSource, interval time.Duration) *Updater {
	return &Updater{
		source:   source,
		interval: interval,
		now:      Now,
		logger:   zap.L(),
	}
}

// AddListener 注册状态通知
func (u *Updater) AddListener(l Listener) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.listeners = append(u.listeners, l)
}

// Catalog 返回最新发布的快照，尚未成功更新过时返回nil
func (u *Updater) Catalog() *Catalog {
	return u.catalog.Load()
}

func (u *Updater) Status() UpdaterStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UpdaterStatus{
		State:        u.state,
		NextEligible: u.nextEligible,
		LastEvent:    u.lastEvent,
	}
}

// Trigger 按需启动一个更新周期；ctx控制整个周期的生命周期
func (u *Updater) Trigger(ctx context.Context) error {
	return u.start(ctx, false)
}

// Tick 定时调用，仅在空闲且到达下次可更新时间时启动周期
func (u *Updater) Tick(ctx context.Context) bool {
	return u.start(ctx, true) == nil
}

// Wait 等待正在执行的周期结束
func (u *Updater) Wait() {
	u.mu.Lock()
	done := u.done
	u.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (u *Updater) start(ctx context.Context, periodic bool) error {
	u.mu.Lock()
	if u.state == StateFetching {
		u.mu.Unlock()
		return ErrCycleInProgress
	}

	now := u.now()
	if periodic && now.Before(u.nextEligible) {
		u.mu.Unlock()
		return errNotDue
	}

	u.state = StateFetching
	u.nextEligible = now.Add(u.interval)
	done := make(chan struct{})
	u.done = done
	started := Event{Kind: CycleStarted, At: now}
	u.lastEvent = &started
	u.mu.Unlock()

	u.logger.Info("Start executing the fetch cycle.", zap.Bool("periodic", periodic))
	u.emit(started)

	go u.run(ctx, now, done)
	return nil
}

func (u *Updater) run(ctx context.Context, startedAt time.Time, done chan struct{}) {
	defer close(done)

	catalog, err := u.source.Build(ctx)
	finishedAt := u.now()

	ev := Event{
		At:       finishedAt,
		Duration: finishedAt.Sub(startedAt),
	}
	if err != nil {
		// 保留上一次的快照
		ev.Kind = CycleFailed
		ev.Err = err
		u.logger.Error("Failed to update the channel catalog.", zap.Error(err))
	} else {
		u.catalog.Store(catalog)
		ev.Kind = CycleSucceeded
		ev.Channels = len(catalog.Channels)
		ev.Failures = len(catalog.Failures)
		u.logger.Sugar().Infof("The channel catalog has been updated, rows: %d, failures: %d.", ev.Channels, ev.Failures)
	}

	// 结束通知先于下一个周期的开始通知
	u.emit(ev)

	u.mu.Lock()
	u.state = StateIdle
	u.lastEvent = &ev
	u.mu.Unlock()
}

func (u *Updater) emit(ev Event) {
	u.mu.Lock()
	listeners := make([]Listener, len(u.listeners))
	copy(listeners, u.listeners)
	u.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}
