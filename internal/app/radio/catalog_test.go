package radio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	channels    []Channel
	channelsErr error
	schedules   map[int][]Program
	scheduleErr map[int]error

	mu        sync.Mutex
	requested []int
}

func (f *fakeClient) GetAllChannelList(ctx context.Context) ([]Channel, error) {
	if f.channelsErr != nil {
		return nil, f.channelsErr
	}
	// 每次返回新的切片
	return append([]Channel(nil), f.channels...), nil
}

func (f *fakeClient) GetChannelSchedule(ctx context.Context, channel *Channel) ([]Program, error) {
	f.mu.Lock()
	f.requested = append(f.requested, channel.ID)
	f.mu.Unlock()

	if err := f.scheduleErr[channel.ID]; err != nil {
		return nil, err
	}
	return f.schedules[channel.ID], nil
}

func newTestBuilder(client Client) *CatalogBuilder {
	return NewCatalogBuilder(client, WithClock(func() time.Time { return testNow }), WithConcurrency(4))
}

func TestBuildSingleChannel(t *testing.T) {
	onAir := span("on air", -time.Hour, time.Hour)
	client := &fakeClient{
		channels:  []Channel{{ID: 1, Name: "P1"}},
		schedules: map[int][]Program{1: {onAir}},
	}

	catalog, err := newTestBuilder(client).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Channels, 1)

	assert.Equal(t, 1, catalog.Channels[0].ID)
	assert.Equal(t, "P1", catalog.Channels[0].Name)
	assert.Equal(t, []Program{onAir}, catalog.Channels[0].Schedule)
	assert.Equal(t, testNow, catalog.FetchedAt)
	assert.Equal(t, NewWindow(testNow, DefaultWindow), catalog.Window)
	assert.Empty(t, catalog.Failures)
}

func TestBuildFiltersEachSchedule(t *testing.T) {
	client := &fakeClient{
		channels: []Channel{{ID: 1, Name: "P1"}, {ID: 2, Name: "P2"}},
		schedules: map[int][]Program{
			1: {span("old", -20*time.Hour, -13*time.Hour), span("lower", -13*time.Hour, -11*time.Hour)},
			2: {span("later", 11*time.Hour, 13*time.Hour), span("too late", 13*time.Hour, 14*time.Hour)},
		},
	}

	catalog, err := newTestBuilder(client).Build(context.Background())
	require.NoError(t, err)

	p1, ok := catalog.Channel(1)
	require.True(t, ok)
	assert.Equal(t, []Program{span("lower", -13*time.Hour, -11*time.Hour)}, p1.Schedule)

	p2, ok := catalog.Channel(2)
	require.True(t, ok)
	assert.Equal(t, []Program{span("later", 11*time.Hour, 13*time.Hour)}, p2.Schedule)

	_, ok = catalog.Channel(3)
	assert.False(t, ok)
}

func TestBuildDegradesBrokenChannel(t *testing.T) {
	channels := make([]Channel, 0, 50)
	schedules := make(map[int][]Program)
	for id := 1; id <= 50; id++ {
		channels = append(channels, Channel{ID: id, Name: fmt.Sprintf("P%d", id)})
		schedules[id] = []Program{span(fmt.Sprintf("show %d", id), -time.Hour, time.Hour)}
	}
	client := &fakeClient{
		channels:  channels,
		schedules: schedules,
		scheduleErr: map[int]error{
			7:  fmt.Errorf("%w: channel 7: boom", ErrScheduleUnavailable),
			23: fmt.Errorf("%w: connection reset", ErrNetwork),
		},
	}

	catalog, err := newTestBuilder(client).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Channels, 50)

	for i, channel := range catalog.Channels {
		// 保持频道列表的原始顺序
		assert.Equal(t, i+1, channel.ID)
		switch channel.ID {
		case 7, 23:
			assert.NotNil(t, channel.Schedule)
			assert.Empty(t, channel.Schedule)
		default:
			assert.Len(t, channel.Schedule, 1)
		}
	}

	require.Len(t, catalog.Failures, 2)
	assert.Equal(t, 7, catalog.Failures[0].ChannelID)
	assert.Equal(t, "P7", catalog.Failures[0].ChannelName)
	assert.Equal(t, 23, catalog.Failures[1].ChannelID)
	assert.Contains(t, catalog.Failures[1].Error, ErrScheduleUnavailable.Error())
	assert.Len(t, client.requested, 50)
}

func TestBuildCatalogUnavailable(t *testing.T) {
	client := &fakeClient{
		channelsErr: fmt.Errorf("%w: http status code: 502", ErrNetwork),
	}

	catalog, err := newTestBuilder(client).Build(context.Background())
	assert.Nil(t, catalog)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Empty(t, client.requested)
}

func TestBuildFeedParseErrorIsCatalogUnavailable(t *testing.T) {
	client := &fakeClient{
		channelsErr: fmt.Errorf("%w: XML syntax error", ErrFeedParse),
	}

	_, err := newTestBuilder(client).Build(context.Background())
	assert.True(t, errors.Is(err, ErrCatalogUnavailable))
	assert.True(t, errors.Is(err, ErrFeedParse))
}

func TestBuildNoChannels(t *testing.T) {
	_, err := newTestBuilder(&fakeClient{}).Build(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
