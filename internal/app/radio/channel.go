package radio

import (
	"errors"
	"fmt"
	"strings"
)

type Channel struct {
	ID          int       `json:"id"`          // 频道ID
	Name        string    `json:"name"`        // 频道名称
	ImageURL    string    `json:"imageURL"`    // 频道图片
	Description string    `json:"description"` // 频道简介（tagline）
	SiteURL     string    `json:"siteURL"`     // 频道主页
	Type        string    `json:"type"`        // 频道类型，例如：Rikskanal
	ScheduleURL string    `json:"scheduleURL"` // 节目单地址
	GroupName   string    `json:"groupName"`   // 分组名称
	Schedule    []Program `json:"schedule,omitempty"`
}

// ToTxtFormat 转换为txt格式内容
func ToTxtFormat(channels []Channel) (string, error) {
	if len(channels) == 0 {
		return "", errors.New("no channels found")
	}

	var sb strings.Builder
	for _, channel := range channels {
		sb.WriteString(fmt.Sprintf("%s,%s\n", channel.Name, channel.SiteURL))
	}
	return sb.String(), nil
}
