package board

import (
	"fmt"
	"time"
)

const DefaultMinDuration = 15 * time.Minute

// ClampEnd 保证 end 至少在 start 之后 min
func ClampEnd(start, end time.Time, min time.Duration) time.Time {
	if end.Sub(start) < min {
		return start.Add(min)
	}
	return end
}

// ShiftEnd 按开始时间的偏移量平移结束时间
func ShiftEnd(originalStart, originalEnd, newStart time.Time, min time.Duration) time.Time {
	end := originalEnd.Add(newStart.Sub(originalStart))
	return ClampEnd(newStart, end, min)
}

// CombineDateAndHour 取 day 在 loc 时区下的日期，再拼上 HH:MM
func CombineDateAndHour(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("时间格式错误：%s", hhmm)
	}

	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
