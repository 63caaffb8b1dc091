package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studio-booking/internal/model"
	pkgerrors "studio-booking/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User    UserRepository
	Room    RoomRepository
	Booking BookingRepository
	Class   ClassRepository
	Student StudentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:    NewUserRepo(db),
		Room:    NewRoomRepo(db),
		Booking: NewBookingRepo(db),
		Class:   NewClassRepo(db),
		Student: NewStudentRepo(db),
	}
}

// ── 房间占用检查（事务内共用） ──

// lockActiveRoom 对房间行加 FOR UPDATE 锁，串行化同一房间的占用写入
func lockActiveRoom(ctx context.Context, tx *gorm.DB, roomID int64) error {
	var room model.Room
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.ErrRoomUnavailable
		}
		return err
	}
	if !room.IsActive {
		return pkgerrors.ErrRoomUnavailable
	}
	return nil
}

// occupancy 描述一次占用检查：排除自身 ID，检查预约与课程两类占用
type occupancy struct {
	roomID         int64
	start, end     any
	excludeBooking int64
	excludeClass   int64
}

// checkOccupied 检查区间内是否存在 confirmed 预约或 scheduled 课程
func checkOccupied(ctx context.Context, tx *gorm.DB, o occupancy) error {
	var n int64
	q := tx.WithContext(ctx).Model(&model.Booking{}).
		Where("room_id = ? AND status = ?", o.roomID, model.BookingStatusConfirmed).
		Where("start_time < ? AND end_time > ?", o.end, o.start)
	if o.excludeBooking > 0 {
		q = q.Where("id <> ?", o.excludeBooking)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return pkgerrors.ErrSlotConflict
	}

	q = tx.WithContext(ctx).Model(&model.Class{}).
		Where("room_id = ? AND status = ?", o.roomID, model.ClassStatusScheduled).
		Where("start_time < ? AND end_time > ?", o.end, o.start)
	if o.excludeClass > 0 {
		q = q.Where("id <> ?", o.excludeClass)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return pkgerrors.ErrSlotConflict
	}
	return nil
}
