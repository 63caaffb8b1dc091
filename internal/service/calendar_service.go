package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-booking/internal/model"
	"studio-booking/internal/repository"
)

// calendarWindow 订阅中包含的预约数量上限
const calendarWindow = 500

var icsWeekdays = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// CalendarService 生成个人日历订阅（iCalendar）
type CalendarService interface {
	// UserFeed 包含用户的 confirmed 预约与其学员固定课表（每周重复）
	UserFeed(ctx context.Context, userID int64) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	rules  *ScheduleRules
	prodID string
	domain string
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, rules *ScheduleRules, issuer string, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:   repo,
		rules:  rules,
		prodID: fmt.Sprintf("-//%s//bookings//EN", issuer),
		domain: issuer,
		now:    time.Now,
		logger: logger,
	}
}

func (s *calendarService) UserFeed(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	bookings, err := s.repo.Booking.ListByUser(ctx, userID, 0, calendarWindow)
	if err != nil {
		s.logger.Error("查询预约失败", zap.Error(err))
		return "", err
	}
	students, err := s.repo.Student.ListByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("查询学员课表失败", zap.Error(err))
		return "", err
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(s.prodID)
	cal.SetName("Studio bookings")

	for _, b := range bookings {
		if b.Status != model.BookingStatusConfirmed {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("booking-%d@%s", b.ID, s.domain))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(b.StartTime)
		ev.SetEndAt(b.EndTime)
		ev.SetSummary(roomSummary("Booking", b.Room))
		if b.Room != nil {
			ev.SetLocation(b.Room.Name)
		}
		if b.Notes != nil {
			ev.SetDescription(*b.Notes)
		}
		ev.SetProperty(ics.ComponentPropertyStatus, "CONFIRMED")
	}

	loc := s.rules.Location()
	today := startOfDay(stamp.In(loc))
	for i := range students {
		st := &students[i]
		first := nextWeekday(today, st.Weekday)
		start, end, err := st.OccurrenceOn(first)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("student-%d@%s", st.ID, s.domain))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(roomSummary(fmt.Sprintf("Class with %s", st.TeacherName), st.Room))
		if st.Room != nil {
			ev.SetLocation(st.Room.Name)
		}
		ev.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+icsWeekdays[st.Weekday%7])
	}

	return cal.Serialize(), nil
}

// nextWeekday 返回 day 当天或之后第一个 weekday（0=周一）
func nextWeekday(day time.Time, weekday int) time.Time {
	diff := (weekday - model.MondayWeekday(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, diff)
}

func roomSummary(prefix string, room *model.Room) string {
	if room == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, room.Name)
}
