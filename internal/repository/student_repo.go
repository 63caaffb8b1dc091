package repository

import (
	"context"

	"gorm.io/gorm"

	"studio-booking/internal/model"
)

// StudentRepository 学员数据访问接口
// 所有查询只返回 is_active=true 的学员；停用后不可经 GetByID 取回
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	List(ctx context.Context, offset, limit int) ([]model.Student, error)
	ListByRoom(ctx context.Context, roomID int64) ([]model.Student, error)
	ListByRoomWeekday(ctx context.Context, roomID int64, weekday int) ([]model.Student, error)
	ListByEmail(ctx context.Context, email string) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Deactivate(ctx context.Context, id int64) error
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("students.is_active = ?", true)
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit("Room").Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var student model.Student
	err := r.active(ctx).
		Preload("Room").
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, offset, limit int) ([]model.Student, error) {
	var students []model.Student
	err := r.active(ctx).
		Preload("Room").
		Order("weekday ASC, start_time ASC").
		Offset(offset).Limit(limit).
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByRoom(ctx context.Context, roomID int64) ([]model.Student, error) {
	var students []model.Student
	err := r.active(ctx).
		Preload("Room").
		Where("room_id = ?", roomID).
		Order("weekday ASC, start_time ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByRoomWeekday(ctx context.Context, roomID int64, weekday int) ([]model.Student, error) {
	var students []model.Student
	err := r.active(ctx).
		Where("room_id = ? AND weekday = ?", roomID, weekday).
		Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByEmail(ctx context.Context, email string) ([]model.Student, error) {
	var students []model.Student
	err := r.active(ctx).
		Preload("Room").
		Where("LOWER(email) = LOWER(?)", email).
		Order("weekday ASC, start_time ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Omit("Room").Save(student).Error
}

func (r *studentRepo) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
