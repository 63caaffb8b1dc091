package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-booking/internal/dto"
	"studio-booking/internal/model"
	"studio-booking/internal/repository"
)

var (
	ErrStudentNotFound  = errors.New("学员不存在")
	ErrInvalidClockTime = errors.New("时间格式应为 HH:MM")
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// StudentService 学员固定课表业务接口
type StudentService interface {
	List(ctx context.Context, offset, limit int) ([]dto.StudentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
	ListByRoom(ctx context.Context, roomID int64) ([]dto.StudentResponse, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) List(ctx context.Context, offset, limit int) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("查询学员列表失败", zap.Error(err))
		return nil, err
	}
	return toStudentResponses(students), nil
}

func (s *studentService) GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) ListByRoom(ctx context.Context, roomID int64) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.ListByRoom(ctx, roomID)
	if err != nil {
		s.logger.Error("按房间查询学员失败", zap.Int64("room_id", roomID), zap.Error(err))
		return nil, err
	}
	return toStudentResponses(students), nil
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if err := validateClockRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	weekday := 0
	if req.Weekday != nil {
		weekday = *req.Weekday
	}

	student := &model.Student{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		TeacherName: req.TeacherName,
		RoomID:      room.ID,
		Weekday:     weekday,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
		IsActive:    true,
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("创建学员失败", zap.Error(err))
		return nil, err
	}

	student.Room = room
	s.logger.Info("创建学员", zap.Int64("student_id", student.ID), zap.Int64("room_id", room.ID))
	return toStudentResponse(student), nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Email != nil {
		student.Email = req.Email
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.TeacherName != nil {
		student.TeacherName = *req.TeacherName
	}
	if req.RoomID != nil && *req.RoomID != student.RoomID {
		room, err := s.repo.Room.GetByID(ctx, *req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		student.RoomID = room.ID
		student.Room = room
	}
	if req.Weekday != nil {
		student.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		student.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		student.EndTime = *req.EndTime
	}
	if req.Notes != nil {
		student.Notes = req.Notes
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := validateClockRange(student.StartTime, student.EndTime); err != nil {
		return nil, err
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新学员失败", zap.Int64("student_id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除：is_active=false
func (s *studentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getStudent(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Student.Deactivate(ctx, id); err != nil {
		s.logger.Error("停用学员失败", zap.Int64("student_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("停用学员", zap.Int64("student_id", id))
	return nil
}

func (s *studentService) getStudent(ctx context.Context, id int64) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// validateClockRange 校验 "HH:MM" 格式且结束晚于开始
func validateClockRange(start, end string) error {
	if !clockPattern.MatchString(start) || !clockPattern.MatchString(end) {
		return ErrInvalidClockTime
	}
	startMin, err := model.ClockMinutes(start)
	if err != nil {
		return ErrInvalidClockTime
	}
	endMin, err := model.ClockMinutes(end)
	if err != nil {
		return ErrInvalidClockTime
	}
	if endMin <= startMin {
		return ErrInvalidTimeRange
	}
	return nil
}

func toStudentResponses(students []model.Student) []dto.StudentResponse {
	out := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, *toStudentResponse(&students[i]))
	}
	return out
}
