package sr

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"radio/internal/app/radio"
	"strconv"
	"time"
)

const dateParamLayout = "2006/01/02"

// GetChannelSchedule 获取指定频道昨天、今天、明天的节目单，并按此顺序拼接
func (c *Client) GetChannelSchedule(ctx context.Context, channel *radio.Channel) ([]radio.Program, error) {
	// 日期按接口所在时区的日历计算
	today := c.now().In(c.config.Location)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	// 今天的节目单不带date参数
	todayPrograms, err := c.getDateSchedule(ctx, channel.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: channel %d: %w", radio.ErrScheduleUnavailable, channel.ID, err)
	}

	// 昨天和明天的节目单获取失败时只记录日志
	yesterdayPrograms, err := c.getDateSchedule(ctx, channel.ID, &yesterday)
	if err != nil {
		c.logger.Sugar().Warnf("Failed to get the schedule for channel %s on %s. Error: %v", channel.Name, yesterday.Format(dateParamLayout), err)
		yesterdayPrograms = nil
	}
	tomorrowPrograms, err := c.getDateSchedule(ctx, channel.ID, &tomorrow)
	if err != nil {
		c.logger.Sugar().Warnf("Failed to get the schedule for channel %s on %s. Error: %v", channel.Name, tomorrow.Format(dateParamLayout), err)
		tomorrowPrograms = nil
	}

	schedule := make([]radio.Program, 0, len(yesterdayPrograms)+len(todayPrograms)+len(tomorrowPrograms))
	schedule = append(schedule, yesterdayPrograms...)
	schedule = append(schedule, todayPrograms...)
	schedule = append(schedule, tomorrowPrograms...)
	return schedule, nil
}

// getDateSchedule 获取指定频道某日期的节目单，date为nil时获取今天的节目单
func (c *Client) getDateSchedule(ctx context.Context, channelID int, date *time.Time) ([]radio.Program, error) {
	// 增加请求参数
	params := map[string]string{
		"channelid": strconv.Itoa(channelID),
	}
	if date != nil {
		params["date"] = date.Format(dateParamLayout)
	}

	feed, err := c.getFeed(ctx, c.config.SchedulePath, params)
	if err != nil {
		return nil, err
	}

	return parseScheduleEpisodes(feed)
}

// episodeDraft 解析中的节目，时间在结束标签时统一转换
type episodeDraft struct {
	program   radio.Program
	startTime string
	endTime   string
}

// parseScheduleEpisodes 解析一天的节目单，任何一期节目出错都会导致整个文档解析失败
func parseScheduleEpisodes(r io.Reader) ([]radio.Program, error) {
	decoder := newFeedDecoder(r)

	programs := make([]radio.Program, 0)
	var current *episodeDraft
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
			if name == "scheduledepisode" {
				current = &episodeDraft{}
				capture.reset()
				continue
			}
			if current == nil {
				continue
			}

			if name == "program" {
				id, err := attrInt(elem, "id")
				if err != nil {
					return nil, err
				}
				current.program.ID = id
				current.program.Name, _ = attrValue(elem, "name")
				continue
			}

			// 未知的标签直接忽略
			if field, ok := episodeFields[name]; ok {
				capture.begin(field)
			}
		case xml.CharData:
			capture.write(elem)
		case xml.EndElement:
			if current == nil {
				continue
			}

			name := tagName(elem.Name)
			if name == "scheduledepisode" {
				program, err := current.build()
				if err != nil {
					return nil, err
				}
				programs = append(programs, program)
				current = nil
				continue
			}

			field := episodeFields[name]
			value, ok := capture.end(field)
			if !ok {
				continue
			}
			if err = current.set(field, value); err != nil {
				return nil, err
			}
		}
	}

	if current != nil {
		return nil, fmt.Errorf("%w: unterminated <scheduledepisode>", radio.ErrFeedParse)
	}
	return programs, nil
}

func (d *episodeDraft) set(field feedField, value string) error {
	switch field {
	case fieldEpisodeID:
		// 部分节目没有单集ID
		if value == "" {
			return nil
		}
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: non-numeric episodeid %q", radio.ErrFeedParse, value)
		}
		d.program.EpisodeID = id
	case fieldTitle:
		d.program.Title = value
	case fieldSubtitle:
		d.program.Subtitle = value
	case fieldDescription:
		d.program.Description = value
	case fieldStartTime:
		d.startTime = value
	case fieldEndTime:
		d.endTime = value
	case fieldImageURL:
		d.program.ImageURL = value
	}
	return nil
}

func (d *episodeDraft) build() (radio.Program, error) {
	start, err := radio.ParseUTC(d.startTime)
	if err != nil {
		return radio.Program{}, fmt.Errorf("starttimeutc of %q: %w", d.program.Title, err)
	}
	end, err := radio.ParseUTC(d.endTime)
	if err != nil {
		return radio.Program{}, fmt.Errorf("endtimeutc of %q: %w", d.program.Title, err)
	}
	if end.Before(start) {
		return radio.Program{}, fmt.Errorf("%w: %q ends at %s before it starts at %s", radio.ErrFeedParse,
			d.program.Title, d.endTime, d.startTime)
	}

	program := d.program
	program.Start = start
	program.End = end
	return program, nil
}
