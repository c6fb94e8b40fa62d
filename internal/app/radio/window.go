package radio

import "time"

// Window 节目单的保留时间范围，两端均包含
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWindow(center time.Time, halfWidth time.Duration) Window {
	return Window{
		Start: center.Add(-halfWidth),
		End:   center.Add(halfWidth),
	}
}

// Contains 节目的播出时间与范围存在交集
func (w Window) Contains(p Program) bool {
	return !p.Start.After(w.End) && !p.End.Before(w.Start)
}

// Filter 保留与范围存在交集的节目，跨越边界的节目完整保留，顺序不变
func (w Window) Filter(programs []Program) []Program {
	result := make([]Program, 0, len(programs))
	for _, program := range programs {
		if w.Contains(program) {
			result = append(result, program)
		}
	}
	return result
}

// FilterWindow 保留now前后12小时内的节目
func FilterWindow(programs []Program, now time.Time) []Program {
	return NewWindow(now, DefaultWindow).Filter(programs)
}
