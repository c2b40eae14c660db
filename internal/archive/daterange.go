package archive

import "time"

// JST 是筛选使用的固定时区 (+09:00)。
var JST = time.FixedZone("JST", 9*60*60)

// DateRange 半开区间 [Start, End)。
type DateRange struct {
	Start time.Time
	End   time.Time
}

// YearRange 返回 loc 时区下某一自然年的区间。
func YearRange(year int, loc *time.Location) DateRange {
	return DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc),
	}
}

// Contains 判断 Start <= t < End。
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Qualifies 判断条目是否应被导出：非草稿且发布时间落在区间内。
func Qualifies(e Entry, r DateRange) (bool, error) {
	draft, err := IsDraft(e)
	if err != nil {
		return false, err
	}
	if draft {
		return false, nil
	}
	t, err := PublishedAt(e)
	if err != nil {
		return false, err
	}
	return r.Contains(t), nil
}
