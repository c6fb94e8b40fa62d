package radio

import (
	"context"
)

// Client 电台节目数据的提供方
type Client interface {
	// GetAllChannelList 获取所有频道列表（不包含节目单）
	GetAllChannelList(ctx context.Context) ([]Channel, error)
	// GetChannelSchedule 获取指定频道昨天、今天、明天合并后的节目单
	GetChannelSchedule(ctx context.Context, channel *Channel) ([]Program, error)
}
