// Package planner 客户端日程辅助：本周可选日期、时段过期判断与学员星期选项
package planner

import (
	"time"

	"studio-booking/internal/dto"
)

// Day 周视图中的一天
type Day struct {
	Date   time.Time
	IsPast bool
}

// SlotView 时段及其展示状态
type SlotView struct {
	Slot     dto.SlotResponse
	IsPast   bool
	Bookable bool
}

// WeekdayOption 学员固定课表的星期选项（0=周一）
type WeekdayOption struct {
	Value int
	Label string
}

// WeekDays 返回 now 所在周（周日起）的营业日，去掉周日与周五
// 早于今天的日期标记为 IsPast；计算在 now 的时区内完成
func WeekDays(now time.Time) []Day {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -int(today.Weekday()))

	days := make([]Day, 0, 5)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		if day.Weekday() == time.Sunday || day.Weekday() == time.Friday {
			continue
		}
		days = append(days, Day{Date: day, IsPast: day.Before(today)})
	}
	return days
}

// IsSlotInPast 时段开始时间早于 now
func IsSlotInPast(slot dto.SlotResponse, now time.Time) bool {
	return slot.StartTime.Before(now)
}

// SlotViews 为每个时段附加过期与可预约标记
func SlotViews(slots []dto.SlotResponse, now time.Time) []SlotView {
	views := make([]SlotView, len(slots))
	for i, s := range slots {
		past := IsSlotInPast(s, now)
		views[i] = SlotView{Slot: s, IsPast: past, Bookable: s.IsAvailable && !past}
	}
	return views
}

var weekdayLabels = [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// WeekdayLabel 0=周一 … 6=周日；越界返回空串
func WeekdayLabel(weekday int) string {
	if weekday < 0 || weekday >= len(weekdayLabels) {
		return ""
	}
	return weekdayLabels[weekday]
}

// StudentWeekdayOptions 管理员可为学员选择的星期（周五、周日不营业）
func StudentWeekdayOptions() []WeekdayOption {
	opts := make([]WeekdayOption, 0, 5)
	for d := 0; d < 7; d++ {
		if d == 4 || d == 6 {
			continue
		}
		opts = append(opts, WeekdayOption{Value: d, Label: WeekdayLabel(d)})
	}
	return opts
}
