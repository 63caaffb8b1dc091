package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-booking/internal/dto"
	"studio-booking/internal/model"
	"studio-booking/internal/repository"
	pkgerrors "studio-booking/pkg/errors"
)

var (
	ErrBookingNotFound       = errors.New("预约不存在")
	ErrNotBookingOwner       = errors.New("无权操作该预约")
	ErrBookingNotCancellable = errors.New("已完成的预约不能取消")
)

// BookingService 预约业务接口
type BookingService interface {
	Create(ctx context.Context, userID int64, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	Update(ctx context.Context, id, actorID int64, isAdmin bool, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error)
	// Cancel 将预约置为 cancelled，保留记录
	Cancel(ctx context.Context, id, actorID int64, isAdmin bool) error
	ListMine(ctx context.Context, userID int64, offset, limit int) ([]dto.BookingResponse, error)
	ListAll(ctx context.Context, offset, limit int) ([]dto.BookingResponse, error)
	AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) ([]dto.SlotResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	rules  *ScheduleRules
	now    func() time.Time
	logger *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(
	repo *repository.Repository,
	rules *ScheduleRules,
	now func() time.Time,
	logger *zap.Logger,
) BookingService {
	return &bookingService{repo: repo, rules: rules, now: now, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *bookingService) Create(ctx context.Context, userID int64, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	// 0. 预约人仍为启用状态
	if err := s.checkActiveUser(ctx, userID); err != nil {
		return nil, err
	}

	// 1. 时间解析与规则校验
	start, err := s.rules.ParseTime(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := s.rules.ParseTime(req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.rules.CheckBookable(start, end, s.now()); err != nil {
		return nil, err
	}

	// 2. 房间存在且启用
	room, err := s.activeRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	// 3. 学员固定课表冲突
	if err := s.checkStudentSlots(ctx, room.ID, start, end); err != nil {
		return nil, err
	}

	// 4. 行锁内检查预约与课程冲突后写入
	booking := &model.Booking{
		UserID:    userID,
		RoomID:    room.ID,
		StartTime: start,
		EndTime:   end,
		Notes:     req.Notes,
		Status:    model.BookingStatusConfirmed,
	}
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, pkgerrors.ErrSlotConflict) {
			return nil, err
		}
		if errors.Is(err, pkgerrors.ErrRoomUnavailable) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}

	booking.Room = room
	s.logger.Info("创建预约",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", userID),
		zap.Int64("room_id", room.ID),
		zap.Time("start", start),
	)
	return toBookingResponse(booking), nil
}

// ────────────────────── Update ──────────────────────

func (s *bookingService) Update(ctx context.Context, id, actorID int64, isAdmin bool, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	booking, err := s.ownedBooking(ctx, id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}

	timesChanged := false
	if req.StartTime != nil {
		t, err := s.rules.ParseTime(*req.StartTime)
		if err != nil {
			return nil, err
		}
		timesChanged = timesChanged || !t.Equal(booking.StartTime)
		booking.StartTime = t
	}
	if req.EndTime != nil {
		t, err := s.rules.ParseTime(*req.EndTime)
		if err != nil {
			return nil, err
		}
		timesChanged = timesChanged || !t.Equal(booking.EndTime)
		booking.EndTime = t
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}
	reconfirmed := false
	if req.Status != nil {
		reconfirmed = *req.Status == model.BookingStatusConfirmed && booking.Status != model.BookingStatusConfirmed
		booking.Status = *req.Status
	}

	if !booking.EndTime.After(booking.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	// 仅时间变化或重新确认时才需占用检查与房间行锁
	recheck := booking.Status == model.BookingStatusConfirmed && (timesChanged || reconfirmed)
	save := s.repo.Booking.Update
	if recheck {
		if err := s.rules.CheckBookable(booking.StartTime, booking.EndTime, s.now()); err != nil {
			return nil, err
		}
		if err := s.checkStudentSlots(ctx, booking.RoomID, booking.StartTime, booking.EndTime); err != nil {
			return nil, err
		}
		save = s.repo.Booking.Reschedule
	}

	if err := save(ctx, booking); err != nil {
		if errors.Is(err, pkgerrors.ErrSlotConflict) {
			return nil, err
		}
		if errors.Is(err, pkgerrors.ErrRoomUnavailable) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("更新预约失败", zap.Int64("booking_id", id), zap.Error(err))
		return nil, err
	}
	return toBookingResponse(booking), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *bookingService) Cancel(ctx context.Context, id, actorID int64, isAdmin bool) error {
	booking, err := s.ownedBooking(ctx, id, actorID, isAdmin)
	if err != nil {
		return err
	}

	switch booking.Status {
	case model.BookingStatusCancelled:
		return nil
	case model.BookingStatusCompleted:
		return ErrBookingNotCancellable
	}

	booking.Status = model.BookingStatusCancelled
	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		s.logger.Error("取消预约失败", zap.Int64("booking_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("取消预约", zap.Int64("booking_id", id), zap.Int64("actor_id", actorID))
	return nil
}

// ────────────────────── List ──────────────────────

func (s *bookingService) ListMine(ctx context.Context, userID int64, offset, limit int) ([]dto.BookingResponse, error) {
	bookings, err := s.repo.Booking.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		s.logger.Error("查询我的预约失败", zap.Error(err))
		return nil, err
	}
	return toBookingResponses(bookings), nil
}

func (s *bookingService) ListAll(ctx context.Context, offset, limit int) ([]dto.BookingResponse, error) {
	bookings, err := s.repo.Booking.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("查询预约列表失败", zap.Error(err))
		return nil, err
	}
	return toBookingResponses(bookings), nil
}

// ────────────────────── AvailableSlots ──────────────────────

func (s *bookingService) AvailableSlots(ctx context.Context, req *dto.AvailableSlotsRequest) ([]dto.SlotResponse, error) {
	day, err := s.rules.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	room, err := s.activeRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	openAt, closeAt, ok := s.rules.BusinessHours(day)
	if !ok {
		return []dto.SlotResponse{}, nil
	}

	busy, err := s.busyIntervals(ctx, room.ID, day, openAt, closeAt)
	if err != nil {
		return nil, err
	}
	return s.rules.BuildSlots(room.ID, day, s.rules.SlotDuration(req.Duration), busy), nil
}

// busyIntervals 汇总当天的 confirmed 预约、scheduled 课程与学员固定课表
func (s *bookingService) busyIntervals(ctx context.Context, roomID int64, day, from, to time.Time) ([]interval, error) {
	bookings, err := s.repo.Booking.ListConfirmedInRange(ctx, roomID, from, to)
	if err != nil {
		return nil, err
	}
	classes, err := s.repo.Class.ListScheduledInRange(ctx, roomID, from, to)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.Student.ListByRoomWeekday(ctx, roomID, model.MondayWeekday(day.Weekday()))
	if err != nil {
		return nil, err
	}

	busy := make([]interval, 0, len(bookings)+len(classes)+len(students))
	for _, b := range bookings {
		busy = append(busy, interval{start: b.StartTime, end: b.EndTime})
	}
	for _, c := range classes {
		busy = append(busy, interval{start: c.StartTime, end: c.EndTime})
	}
	busy = append(busy, studentIntervals(students, day)...)
	return busy, nil
}

func (s *bookingService) checkStudentSlots(ctx context.Context, roomID int64, start, end time.Time) error {
	day := startOfDay(start.In(s.rules.Location()))
	students, err := s.repo.Student.ListByRoomWeekday(ctx, roomID, model.MondayWeekday(day.Weekday()))
	if err != nil {
		return err
	}
	for _, iv := range studentIntervals(students, day) {
		if model.Overlaps(start, end, iv.start, iv.end) {
			return pkgerrors.ErrSlotConflict
		}
	}
	return nil
}

func (s *bookingService) checkActiveUser(ctx context.Context, userID int64) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !user.IsActive {
		return ErrUserInactive
	}
	return nil
}

func (s *bookingService) activeRoom(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ownedBooking 查询预约并校验操作者为本人或管理员
func (s *bookingService) ownedBooking(ctx context.Context, id, actorID int64, isAdmin bool) (*model.Booking, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != actorID && !isAdmin {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func toBookingResponses(bookings []model.Booking) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *toBookingResponse(&bookings[i]))
	}
	return out
}
