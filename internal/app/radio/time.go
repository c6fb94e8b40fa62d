package radio

import (
	"fmt"
	"time"
)

const (
	// SourceTimeLayout 接口返回的UTC时间格式，例如：2018-01-07T05:00:00Z
	SourceTimeLayout = "2006-01-02T15:04:05Z"
	// DisplayTimeLayout 展示给用户的时间格式，例如：2018-01-07 // 06:00
	DisplayTimeLayout = "2006-01-02 // 15:04"

	// DefaultWindow 节目单保留当前时间前后各12小时
	DefaultWindow = 12 * time.Hour
)

// ParseUTC 解析接口返回的UTC时间
func ParseUTC(s string) (time.Time, error) {
	// time.Parse允许省略前导零以及多余的小数秒，这里要求严格匹配格式长度
	if len(s) != len(SourceTimeLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}

	t, err := time.Parse(SourceTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t.UTC(), nil
}

// Now 当前时间
func Now() time.Time {
	return time.Now()
}

// WindowBounds 返回以center为中心前后12小时的时间范围
func WindowBounds(center time.Time) (time.Time, time.Time) {
	w := NewWindow(center, DefaultWindow)
	return w.Start, w.End
}

// FormatDisplay 将时间格式化为展示用的本地时间字符串
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayTimeLayout)
}
