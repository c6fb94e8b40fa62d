package sr

import (
	"encoding/xml"
	"fmt"
	"io"
	"radio/internal/app/radio"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// feedField 当前正在采集文本的字段
type feedField int

const (
	fieldNone feedField = iota
	// 频道字段
	fieldImage
	fieldTagline
	fieldSiteURL
	fieldChannelType
	fieldScheduleURL
	// 节目字段
	fieldEpisodeID
	fieldTitle
	fieldSubtitle
	fieldDescription
	fieldStartTime
	fieldEndTime
	fieldImageURL
)

var channelFields = map[string]feedField{
	"image":       fieldImage,
	"tagline":     fieldTagline,
	"siteurl":     fieldSiteURL,
	"channeltype": fieldChannelType,
	"scheduleurl": fieldScheduleURL,
}

var episodeFields = map[string]feedField{
	"episodeid":    fieldEpisodeID,
	"title":        fieldTitle,
	"subtitle":     fieldSubtitle,
	"description":  fieldDescription,
	"starttimeutc": fieldStartTime,
	"endtimeutc":   fieldEndTime,
	"imageurl":     fieldImageURL,
}

// fieldCapture 采集起止标签之间的全部文本（实体可能把文本拆分成多段）
type fieldCapture struct {
	field feedField
	text  strings.Builder
}

func (c *fieldCapture) begin(field feedField) {
	c.field = field
	c.text.Reset()
}

func (c *fieldCapture) write(data xml.CharData) {
	if c.field != fieldNone {
		c.text.Write(data)
	}
}

// end 结束标签与当前字段一致时返回去除首尾空白的文本
func (c *fieldCapture) end(field feedField) (string, bool) {
	if field == fieldNone || c.field != field {
		return "", false
	}

	value := strings.TrimSpace(c.text.String())
	c.field = fieldNone
	c.text.Reset()
	return value, true
}

func (c *fieldCapture) reset() {
	c.begin(fieldNone)
}

func newFeedDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

// tagName 标签名不区分大小写
func tagName(name xml.Name) string {
	return strings.ToLower(name.Local)
}

func attrValue(elem xml.StartElement, name string) (string, bool) {
	for _, attr := range elem.Attr {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value, true
		}
	}
	return "", false
}

// attrInt 解析必填的整数属性
func attrInt(elem xml.StartElement, name string) (int, error) {
	value, ok := attrValue(elem, name)
	if !ok {
		return 0, fmt.Errorf("%w: <%s> is missing the %s attribute", radio.ErrFeedParse, elem.Name.Local, name)
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: <%s> has a non-numeric %s attribute %q", radio.ErrFeedParse, elem.Name.Local, name, value)
	}
	return n, nil
}
