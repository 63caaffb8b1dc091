package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studio-booking/internal/model"
)

// ClassRepository 课程数据访问接口
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	GetByID(ctx context.Context, id int64) (*model.Class, error)
	List(ctx context.Context, offset, limit int) ([]model.Class, error)
	ListByRoom(ctx context.Context, roomID int64, from, to *time.Time) ([]model.Class, error)
	ListScheduledInRange(ctx context.Context, roomID int64, from, to time.Time) ([]model.Class, error)
	Update(ctx context.Context, class *model.Class) error
	Delete(ctx context.Context, id int64) error
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveRoom(ctx, tx, class.RoomID); err != nil {
			return err
		}
		if err := checkOccupied(ctx, tx, occupancy{
			roomID: class.RoomID,
			start:  class.StartTime,
			end:    class.EndTime,
		}); err != nil {
			return err
		}
		return tx.Create(class).Error
	})
}

func (r *classRepo) GetByID(ctx context.Context, id int64) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) List(ctx context.Context, offset, limit int) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Preload("Room").
		Order("start_time ASC").
		Offset(offset).Limit(limit).
		Find(&classes).Error
	return classes, err
}

func (r *classRepo) ListByRoom(ctx context.Context, roomID int64, from, to *time.Time) ([]model.Class, error) {
	var classes []model.Class
	db := r.db.WithContext(ctx).Where("room_id = ?", roomID)
	if from != nil {
		db = db.Where("start_time >= ?", *from)
	}
	if to != nil {
		db = db.Where("end_time <= ?", *to)
	}
	err := db.Order("start_time ASC").Find(&classes).Error
	return classes, err
}

func (r *classRepo) ListScheduledInRange(ctx context.Context, roomID int64, from, to time.Time) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, model.ClassStatusScheduled).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC").
		Find(&classes).Error
	return classes, err
}

func (r *classRepo) Update(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if class.Status == model.ClassStatusScheduled {
			if err := lockActiveRoom(ctx, tx, class.RoomID); err != nil {
				return err
			}
			if err := checkOccupied(ctx, tx, occupancy{
				roomID:       class.RoomID,
				start:        class.StartTime,
				end:          class.EndTime,
				excludeClass: class.ID,
			}); err != nil {
				return err
			}
		}
		return tx.Omit("Room").Save(class).Error
	})
}

func (r *classRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Class{}, id).Error
}

func (r *classRepo) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Class{}).
		Where("status = ? AND end_time <= ?", model.ClassStatusScheduled, now).
		Update("status", model.ClassStatusCompleted)
	return res.RowsAffected, res.Error
}
