package sr

import (
	"errors"
	"time"
	// 运行环境可能没有时区数据库
	_ "time/tzdata"
)

const (
	defaultChannelsPath = "/api/v2/channels"
	defaultSchedulePath = "/api/v2/scheduledepisodes"
	defaultTimezone     = "Europe/Stockholm"
)

type Config struct {
	ChannelsPath string `json:"channelsPath" yaml:"channelsPath"` // 频道列表接口路径
	SchedulePath string `json:"schedulePath" yaml:"schedulePath"` // 节目单接口路径
	// 请求节目单时date参数所使用的时区，需与接口的日历保持一致
	Timezone string `json:"timezone" yaml:"timezone"`

	Location *time.Location `json:"-" yaml:"-"` // Validate()时进行填充
}

func (c *Config) Validate() error {
	if c.ChannelsPath == "" {
		c.ChannelsPath = defaultChannelsPath
	}
	if c.SchedulePath == "" {
		c.SchedulePath = defaultSchedulePath
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errors.New("invalid SR client config: unknown timezone " + c.Timezone)
	}
	c.Location = loc

	return nil
}
