package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"studio-booking/config"
	"studio-booking/internal/dto"
	"studio-booking/internal/model"
)

var (
	ErrInvalidTime          = errors.New("时间格式无效")
	ErrInvalidTimeRange     = errors.New("结束时间必须晚于开始时间")
	ErrOutsideBusinessHours = errors.New("不在营业时间内")
	ErrBookingTooSoon       = errors.New("预约开始时间过近或已过去")
)

// naiveLayouts 不带时区的时间格式，按业务时区解释
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// interval 半开区间 [start, end)
type interval struct {
	start, end time.Time
}

// ScheduleRules 营业时间与时段规则
type ScheduleRules struct {
	loc           *time.Location
	openMinutes   int
	closeMinutes  int
	saturdayClose int
	defaultSlot   time.Duration
	minLeadTime   time.Duration
}

// NewScheduleRules 从配置构造规则
func NewScheduleRules(cfg *config.ScheduleConfig) *ScheduleRules {
	return &ScheduleRules{
		loc:           cfg.Location(),
		openMinutes:   cfg.OpenHour * 60,
		closeMinutes:  cfg.CloseHour * 60,
		saturdayClose: cfg.SaturdayCloseHour * 60,
		defaultSlot:   time.Duration(cfg.SlotMinutes) * time.Minute,
		minLeadTime:   cfg.MinLeadTime,
	}
}

// Location 业务时区
func (r *ScheduleRules) Location() *time.Location { return r.loc }

// ParseTime 解析 RFC3339 或不带时区的时间
func (r *ScheduleRules) ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(r.loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, r.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// ParseDate 解析 "2006-01-02"，也接受完整时间（取其日期）
func (r *ScheduleRules) ParseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, r.loc); err == nil {
		return t, nil
	}
	t, err := r.ParseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return startOfDay(t), nil
}

// BusinessHours 返回指定日期的营业区间；周五与周日休息
func (r *ScheduleRules) BusinessHours(day time.Time) (openAt, closeAt time.Time, ok bool) {
	day = startOfDay(day.In(r.loc))

	var closeMin int
	switch day.Weekday() {
	case time.Friday, time.Sunday:
		return time.Time{}, time.Time{}, false
	case time.Saturday:
		closeMin = r.saturdayClose
	default:
		closeMin = r.closeMinutes
	}

	openAt = day.Add(time.Duration(r.openMinutes) * time.Minute)
	closeAt = day.Add(time.Duration(closeMin) * time.Minute)
	return openAt, closeAt, true
}

// CheckBookable 校验区间可作为新预约：顺序合法、满足提前量、落在当天营业时间内
func (r *ScheduleRules) CheckBookable(start, end, now time.Time) error {
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	if start.Before(now.Add(r.minLeadTime)) {
		return ErrBookingTooSoon
	}
	return r.CheckWithinHours(start, end)
}

// CheckWithinHours 校验区间落在同一天的营业时间内
func (r *ScheduleRules) CheckWithinHours(start, end time.Time) error {
	openAt, closeAt, ok := r.BusinessHours(start)
	if !ok {
		return ErrOutsideBusinessHours
	}
	if start.In(r.loc).Before(openAt) || end.In(r.loc).After(closeAt) {
		return ErrOutsideBusinessHours
	}
	return nil
}

// SlotDuration 请求时长为 0 时使用默认时长
func (r *ScheduleRules) SlotDuration(minutes int) time.Duration {
	if minutes <= 0 {
		return r.defaultSlot
	}
	return time.Duration(minutes) * time.Minute
}

// BuildSlots 从开门时间起按 duration 步进生成时段，与 busy 任一区间相交即不可用
func (r *ScheduleRules) BuildSlots(roomID int64, day time.Time, duration time.Duration, busy []interval) []dto.SlotResponse {
	openAt, closeAt, ok := r.BusinessHours(day)
	if !ok || duration <= 0 {
		return []dto.SlotResponse{}
	}

	sort.Slice(busy, func(i, j int) bool { return busy[i].start.Before(busy[j].start) })

	slots := make([]dto.SlotResponse, 0, int(closeAt.Sub(openAt)/duration))
	for cur := openAt; !cur.Add(duration).After(closeAt); cur = cur.Add(duration) {
		end := cur.Add(duration)
		available := true
		for _, b := range busy {
			if model.Overlaps(cur, end, b.start, b.end) {
				available = false
				break
			}
		}
		slots = append(slots, dto.SlotResponse{
			StartTime:   cur,
			EndTime:     end,
			IsAvailable: available,
			RoomID:      roomID,
		})
	}
	return slots
}

// studentIntervals 将学员周课表展开为指定日期的区间，忽略格式损坏的记录
func studentIntervals(students []model.Student, day time.Time) []interval {
	out := make([]interval, 0, len(students))
	for i := range students {
		start, end, err := students[i].OccurrenceOn(day)
		if err != nil {
			continue
		}
		out = append(out, interval{start: start, end: end})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
