package utils

import (
	"fmt"
	"slices"
	"time"
)

const clockLayout = "15:04"

// ParseClockRange 解析 HH:MM 格式的开始和结束时刻，结束时刻必须晚于开始时刻
func ParseClockRange(start, end string) (time.Duration, time.Duration, error) {
	startTime, err := time.Parse(clockLayout, start)
	if err != nil {
		return 0, 0, fmt.Errorf("开始时间 %q 格式错误", start)
	}
	endTime, err := time.Parse(clockLayout, end)
	if err != nil {
		return 0, 0, fmt.Errorf("结束时间 %q 格式错误", end)
	}
	if !endTime.After(startTime) {
		return 0, 0, fmt.Errorf("结束时间 %s 必须晚于开始时间 %s", end, start)
	}

	midnight, _ := time.Parse(clockLayout, "00:00")
	return startTime.Sub(midnight), endTime.Sub(midnight), nil
}

// ValidateDaySpan 检查以天数偏移表示的日期区间，to 为空表示没有截止日期
func ValidateDaySpan(from int, to *int) error {
	if to != nil && *to < from {
		return fmt.Errorf("日期区间的结束 %d 不能早于开始 %d", *to, from)
	}
	return nil
}

// ValidateStationOrder 检查可见工位是否都出现在排序列表中，且排序列表没有重复
func ValidateStationOrder(visible, order []string) error {
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return fmt.Errorf("排序列表中的工位 %s 重复", id)
		}
		seen[id] = true
	}

	for _, id := range visible {
		if !slices.Contains(order, id) {
			return fmt.Errorf("可见工位 %s 不在排序列表中", id)
		}
	}
	return nil
}
