package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studio-booking/internal/model"
)

// BookingRepository 预约数据访问接口
type BookingRepository interface {
	// Create 在房间行锁内检查占用后写入；冲突返回 pkgerrors.ErrSlotConflict
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Booking, error)
	List(ctx context.Context, offset, limit int) ([]model.Booking, error)
	ListConfirmedInRange(ctx context.Context, roomID int64, from, to time.Time) ([]model.Booking, error)
	// Update 直接保存，不检查占用（备注、取消等）
	Update(ctx context.Context, booking *model.Booking) error
	// Reschedule 在房间行锁内排除自身重新检查占用后保存
	Reschedule(ctx context.Context, booking *model.Booking) error
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveRoom(ctx, tx, booking.RoomID); err != nil {
			return err
		}
		if err := checkOccupied(ctx, tx, occupancy{
			roomID: booking.RoomID,
			start:  booking.StartTime,
			end:    booking.EndTime,
		}); err != nil {
			return err
		}
		return tx.Create(booking).Error
	})
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) List(ctx context.Context, offset, limit int) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		Order("start_time DESC").
		Offset(offset).Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListConfirmedInRange(ctx context.Context, roomID int64, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, model.BookingStatusConfirmed).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Omit("Room", "User").Save(booking).Error
}

func (r *bookingRepo) Reschedule(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveRoom(ctx, tx, booking.RoomID); err != nil {
			return err
		}
		if err := checkOccupied(ctx, tx, occupancy{
			roomID:         booking.RoomID,
			start:          booking.StartTime,
			end:            booking.EndTime,
			excludeBooking: booking.ID,
		}); err != nil {
			return err
		}
		return tx.Omit("Room", "User").Save(booking).Error
	})
}

func (r *bookingRepo) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status = ? AND end_time <= ?", model.BookingStatusConfirmed, now).
		Update("status", model.BookingStatusCompleted)
	return res.RowsAffected, res.Error
}
