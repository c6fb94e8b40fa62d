package sr

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"radio/internal/app/radio"

	"go.uber.org/zap"
)

// GetAllChannelList 获取所有频道列表
func (c *Client) GetAllChannelList(ctx context.Context) ([]radio.Channel, error) {
	// 请求频道列表
	feed, err := c.getFeed(ctx, c.config.ChannelsPath, nil)
	if err != nil {
		return nil, err
	}

	// 解析频道列表
	parsed, err := parseChannelList(feed)
	if err != nil {
		return nil, err
	}

	channels := make([]radio.Channel, 0, len(parsed))
	for _, channel := range parsed {
		// 过滤掉不需要的频道
		if c.chExcludeRule != nil && c.chExcludeRule.MatchString(channel.Name) {
			c.logger.Debug("The channel matches the exclusion rule, skip it.", zap.String("channelName", channel.Name))
			continue
		}

		// 识别频道的分组
		channel.GroupName = radio.GetChannelGroupName(c.chGroupRulesList, &channel)
		channels = append(channels, channel)
	}
	return channels, nil
}

// parseChannelList 解析频道列表，任何一个频道出错都会导致整个文档解析失败
func parseChannelList(r io.Reader) ([]radio.Channel, error) {
	decoder := newFeedDecoder(r)

	channels := make([]radio.Channel, 0)
	var current *radio.Channel
	var capture fieldCapture

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", radio.ErrFeedParse, err)
		}

		switch elem := token.(type) {
		case xml.StartElement:
			name := tagName(elem.Name)
			if name == "channel" {
				id, err := attrInt(elem, "id")
				if err != nil {
					return nil, err
				}
				channelName, _ := attrValue(elem, "name")

				current = &radio.Channel{
					ID:   id,
					Name: channelName,
				}
				capture.reset()
				continue
			}

			// 未知的标签直接忽略
			if field, ok := channelFields[name]; ok && current != nil {
				capture.begin(field)
			}
		case xml.CharData:
			capture.write(elem)
		case xml.EndElement:
			if current == nil {
				continue
			}

			name := tagName(elem.Name)
			if name == "channel" {
				channels = append(channels, *current)
				current = nil
				continue
			}

			value, ok := capture.end(channelFields[name])
			if !ok {
				continue
			}
			switch channelFields[name] {
			case fieldImage:
				current.ImageURL = value
			case fieldTagline:
				current.Description = value
			case fieldSiteURL:
				current.SiteURL = value
			case fieldChannelType:
				current.Type = value
			case fieldScheduleURL:
				current.ScheduleURL = value
			}
		}
	}

	// 文档在频道结束前截断
	if current != nil {
		return nil, fmt.Errorf("%w: unterminated <channel id=%d>", radio.ErrFeedParse, current.ID)
	}
	return channels, nil
}
