package radio

import "time"

// Program 节目单中的一期节目
type Program struct {
	ID          int       `json:"id"`          // 节目ID
	Name        string    `json:"name"`        // 节目名称
	EpisodeID   int       `json:"episodeID"`   // 单集ID
	Title       string    `json:"title"`       // 单集标题
	Subtitle    string    `json:"subtitle"`    // 副标题，可能为空
	Description string    `json:"description"` // 描述
	ImageURL    string    `json:"imageURL"`    // 图片
	Start       time.Time `json:"start"`       // 开始时间（UTC）
	End         time.Time `json:"end"`         // 结束时间（UTC）
}

// ProgramDetail 节目详情，时间已格式化为展示用的字符串
type ProgramDetail struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description"`
	ImageURL    string `json:"imageURL"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// HasEnded 节目是否已经播放结束
func (p Program) HasEnded(now time.Time) bool {
	return p.End.Before(now)
}

// IsOnAir 节目是否正在播放
func (p Program) IsOnAir(now time.Time) bool {
	return !p.Start.After(now) && !p.HasEnded(now)
}

func (p Program) Detail(loc *time.Location) ProgramDetail {
	return ProgramDetail{
		Name:        p.Name,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Start:       FormatDisplay(p.Start, loc),
		End:         FormatDisplay(p.End, loc),
	}
}
