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

var ErrRoomNotFound = errors.New("房间不存在")

// RoomService 房间业务接口
type RoomService interface {
	// List includeInactive 仅管理员接口使用
	List(ctx context.Context, includeInactive bool, offset, limit int) ([]dto.RoomResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error)
	Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id int64) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

func (s *roomService) List(ctx context.Context, includeInactive bool, offset, limit int) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx, includeInactive, offset, limit)
	if err != nil {
		s.logger.Error("查询房间列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, *toRoomResponse(&rooms[i]))
	}
	return out, nil
}

func (s *roomService) GetByID(ctx context.Context, id int64) (*dto.RoomResponse, error) {
	room, err := s.getRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	room := &model.Room{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    capacity,
		Equipment:   req.Equipment,
		IsActive:    true,
	}
	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建房间失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建房间", zap.Int64("room_id", room.ID), zap.String("name", room.Name))
	return toRoomResponse(room), nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id int64, req *dto.UpdateRoomRequest) (*dto.RoomResponse, error) {
	room, err := s.getRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = req.Description
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Equipment != nil {
		room.Equipment = req.Equipment
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.repo.Room.Update(ctx, room); err != nil {
		s.logger.Error("更新房间失败", zap.Int64("room_id", id), zap.Error(err))
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除：is_active=false
func (s *roomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getRoom(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Room.Deactivate(ctx, id); err != nil {
		s.logger.Error("停用房间失败", zap.Int64("room_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("停用房间", zap.Int64("room_id", id))
	return nil
}

func (s *roomService) getRoom(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}
