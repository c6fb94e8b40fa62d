package radio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Catalog 一次更新周期得到的频道列表快照，发布后只读
type Catalog struct {
	Channels  []Channel        `json:"channels"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Window    Window           `json:"window"`
	Failures  []ChannelFailure `json:"failures,omitempty"`
}

// ChannelFailure 获取节目单失败的频道
type ChannelFailure struct {
	ChannelID   int    `json:"channelID"`
	ChannelName string `json:"channelName"`
	Error       string `json:"error"`
}

// Channel 根据频道ID查询频道
func (c *Catalog) Channel(id int) (*Channel, bool) {
	for i := range c.Channels {
		if c.Channels[i].ID == id {
			return &c.Channels[i], true
		}
	}
	return nil, false
}

type BuilderOption func(*CatalogBuilder)

// WithClock 替换获取当前时间的函数
func WithClock(now func() time.Time) BuilderOption {
	return func(b *CatalogBuilder) {
		b.now = now
	}
}

// WithWindow 设置节目单保留范围的半宽
func WithWindow(halfWidth time.Duration) BuilderOption {
	return func(b *CatalogBuilder) {
		if halfWidth > 0 {
			b.window = halfWidth
		}
	}
}

// WithConcurrency 设置并发获取节目单的频道数
func WithConcurrency(n int) BuilderOption {
	return func(b *CatalogBuilder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

type CatalogBuilder struct {
	client      Client
	now         func() time.Time
	window      time.Duration
	concurrency int

	logger *zap.Logger
}

func NewCatalogBuilder(client Client, opts ...BuilderOption) *CatalogBuilder {
	b := CatalogBuilder{
		client:      client,
		now:         Now,
		window:      DefaultWindow,
		concurrency: defaultConcurrency,
		logger:      zap.L(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return &b
}

// Build 获取频道列表，再为每个频道获取、合并并过滤节目单
func (b *CatalogBuilder) Build(ctx context.Context) (*Catalog, error) {
	fetchedAt := b.now()

	// 获取频道列表，失败则整个周期失败
	channels, err := b.client.GetAllChannelList(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels found", ErrCatalogUnavailable)
	}

	window := NewWindow(fetchedAt, b.window)

	// 每个频道只写入自己的位置，互不共享可变状态
	failures := make([]*ChannelFailure, len(channels))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i := range channels {
		i := i
		channel := &channels[i]
		g.Go(func() error {
			schedule, err := b.client.GetChannelSchedule(ctx, channel)
			if err != nil {
				if !errors.Is(err, ErrScheduleUnavailable) {
					err = fmt.Errorf("%w: %w", ErrScheduleUnavailable, err)
				}
				b.logger.Sugar().Warnf("Failed to get the schedule for channel %s, it will be left empty. Error: %v", channel.Name, err)

				channel.Schedule = []Program{}
				failures[i] = &ChannelFailure{
					ChannelID:   channel.ID,
					ChannelName: channel.Name,
					Error:       err.Error(),
				}
				return nil
			}

			channel.Schedule = window.Filter(schedule)
			return nil
		})
	}
	_ = g.Wait()

	catalog := Catalog{
		Channels:  channels,
		FetchedAt: fetchedAt,
		Window:    window,
	}
	for _, failure := range failures {
		if failure != nil {
			catalog.Failures = append(catalog.Failures, *failure)
		}
	}

	b.logger.Info("The channel catalog has been built.",
		zap.Int("channels", len(catalog.Channels)), zap.Int("failures", len(catalog.Failures)))
	return &catalog, nil
}
