package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-booking/internal/dto"
	"studio-booking/internal/model"
	"studio-booking/internal/repository"
)

// UserService 用户管理接口（管理员）
type UserService interface {
	List(ctx context.Context, offset, limit int) ([]dto.UserResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toUserResponse(&users[i]))
	}
	return out, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Int64("user_id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ── 模型转换 ──

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func toRoomResponse(r *model.Room) *dto.RoomResponse {
	if r == nil {
		return nil
	}
	return &dto.RoomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Capacity:    r.Capacity,
		Equipment:   r.Equipment,
		IsActive:    r.IsActive,
	}
}

func toBookingResponse(b *model.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Notes:     b.Notes,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		Room:      toRoomResponse(b.Room),
	}
	if b.User != nil {
		resp.User = toUserResponse(b.User)
	}
	return resp
}

func toClassResponse(c *model.Class) *dto.ClassResponse {
	return &dto.ClassResponse{
		ID:                c.ID,
		RoomID:            c.RoomID,
		TeacherName:       c.TeacherName,
		ClassName:         c.ClassName,
		StudentName:       c.StudentName,
		StartTime:         c.StartTime,
		EndTime:           c.EndTime,
		IsRecurring:       c.IsRecurring,
		RecurrencePattern: c.RecurrencePattern,
		Notes:             c.Notes,
		Status:            c.Status,
		CreatedAt:         c.CreatedAt,
		Room:              toRoomResponse(c.Room),
	}
}

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:          st.ID,
		Name:        st.Name,
		Email:       st.Email,
		Phone:       st.Phone,
		TeacherName: st.TeacherName,
		RoomID:      st.RoomID,
		Weekday:     st.Weekday,
		StartTime:   st.StartTime,
		EndTime:     st.EndTime,
		Notes:       st.Notes,
		IsActive:    st.IsActive,
		CreatedAt:   st.CreatedAt,
		Room:        toRoomResponse(st.Room),
	}
}
