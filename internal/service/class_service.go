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

var ErrClassNotFound = errors.New("课程不存在")

// ClassService 课程业务接口
type ClassService interface {
	List(ctx context.Context, offset, limit int) ([]dto.ClassResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ClassResponse, error)
	ListByRoom(ctx context.Context, roomID int64, req *dto.ClassesByRoomRequest) ([]dto.ClassResponse, error)
	Create(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id int64) error
}

type classService struct {
	repo   *repository.Repository
	rules  *ScheduleRules
	logger *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, rules *ScheduleRules, logger *zap.Logger) ClassService {
	return &classService{repo: repo, rules: rules, logger: logger}
}

func (s *classService) List(ctx context.Context, offset, limit int) ([]dto.ClassResponse, error) {
	classes, err := s.repo.Class.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	return toClassResponses(classes), nil
}

func (s *classService) GetByID(ctx context.Context, id int64) (*dto.ClassResponse, error) {
	class, err := s.getClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

// ListByRoom start_date / end_date 可选，接受日期或完整时间
func (s *classService) ListByRoom(ctx context.Context, roomID int64, req *dto.ClassesByRoomRequest) ([]dto.ClassResponse, error) {
	if _, err := s.repo.Room.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	var from, to *time.Time
	if req.StartDate != "" {
		t, err := s.rules.ParseTime(req.StartDate)
		if err != nil {
			if t, err = s.rules.ParseDate(req.StartDate); err != nil {
				return nil, err
			}
		}
		from = &t
	}
	if req.EndDate != "" {
		t, err := s.rules.ParseTime(req.EndDate)
		if err != nil {
			d, derr := s.rules.ParseDate(req.EndDate)
			if derr != nil {
				return nil, derr
			}
			// 仅日期时包含当天全天
			t = d.AddDate(0, 0, 1)
		}
		to = &t
	}

	classes, err := s.repo.Class.ListByRoom(ctx, roomID, from, to)
	if err != nil {
		s.logger.Error("按房间查询课程失败", zap.Int64("room_id", roomID), zap.Error(err))
		return nil, err
	}
	return toClassResponses(classes), nil
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	start, err := s.rules.ParseTime(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := s.rules.ParseTime(req.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	class := &model.Class{
		RoomID:            room.ID,
		TeacherName:       req.TeacherName,
		ClassName:         req.ClassName,
		StudentName:       req.StudentName,
		StartTime:         start,
		EndTime:           end,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		Notes:             req.Notes,
		Status:            model.ClassStatusScheduled,
	}
	if err := s.repo.Class.Create(ctx, class); err != nil {
		return nil, s.mapWriteError(err)
	}

	class.Room = room
	s.logger.Info("创建课程", zap.Int64("class_id", class.ID), zap.Int64("room_id", room.ID))
	return toClassResponse(class), nil
}

// ────────────────────── Update ──────────────────────

func (s *classService) Update(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*dto.ClassResponse, error) {
	class, err := s.getClass(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TeacherName != nil {
		class.TeacherName = *req.TeacherName
	}
	if req.ClassName != nil {
		class.ClassName = *req.ClassName
	}
	if req.StudentName != nil {
		class.StudentName = req.StudentName
	}
	if req.StartTime != nil {
		if class.StartTime, err = s.rules.ParseTime(*req.StartTime); err != nil {
			return nil, err
		}
	}
	if req.EndTime != nil {
		if class.EndTime, err = s.rules.ParseTime(*req.EndTime); err != nil {
			return nil, err
		}
	}
	if req.IsRecurring != nil {
		class.IsRecurring = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		class.RecurrencePattern = req.RecurrencePattern
	}
	if req.Notes != nil {
		class.Notes = req.Notes
	}
	if req.Status != nil {
		class.Status = *req.Status
	}

	if !class.EndTime.After(class.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.repo.Class.Update(ctx, class); err != nil {
		return nil, s.mapWriteError(err)
	}
	return toClassResponse(class), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getClass(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Class.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.Int64("class_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("删除课程", zap.Int64("class_id", id))
	return nil
}

func (s *classService) getClass(ctx context.Context, id int64) (*model.Class, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

func (s *classService) mapWriteError(err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrSlotConflict):
		return err
	case errors.Is(err, pkgerrors.ErrRoomUnavailable):
		return ErrRoomNotFound
	default:
		s.logger.Error("保存课程失败", zap.Error(err))
		return err
	}
}

func toClassResponses(classes []model.Class) []dto.ClassResponse {
	out := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		out = append(out, *toClassResponse(&classes[i]))
	}
	return out
}
