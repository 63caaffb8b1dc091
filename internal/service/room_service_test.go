package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"studio-booking/internal/dto"
)

func setupTestRoomService() (RoomService, *mockStore) {
	store := newMockStore()
	return NewRoomService(newMockRepository(store), zap.NewNop()), store
}

func TestRoomCreate_DefaultCapacity(t *testing.T) {
	svc, _ := setupTestRoomService()

	room, err := svc.Create(context.Background(), &dto.CreateRoomRequest{Name: "Sala A"})
	if err != nil {
		t.Fatalf("创建房间应成功: %v", err)
	}
	if room.Capacity != 1 || !room.IsActive {
		t.Errorf("期望容量 1 且启用，实际 %+v", room)
	}
}

func TestRoomDelete_Soft(t *testing.T) {
	svc, store := setupTestRoomService()
	ctx := context.Background()

	room, _ := svc.Create(ctx, &dto.CreateRoomRequest{Name: "Sala A"})
	_, _ = svc.Create(ctx, &dto.CreateRoomRequest{Name: "Sala B"})

	if err := svc.Delete(ctx, room.ID); err != nil {
		t.Fatalf("删除房间应成功: %v", err)
	}
	if store.rooms[room.ID].IsActive {
		t.Error("房间应被软删除")
	}

	active, _ := svc.List(ctx, false, 0, 100)
	if len(active) != 1 {
		t.Errorf("公开列表期望 1 个房间，实际 %d", len(active))
	}
	all, _ := svc.List(ctx, true, 0, 100)
	if len(all) != 2 {
		t.Errorf("管理员列表期望 2 个房间，实际 %d", len(all))
	}
}

func TestRoomUpdate(t *testing.T) {
	svc, _ := setupTestRoomService()
	ctx := context.Background()

	room, _ := svc.Create(ctx, &dto.CreateRoomRequest{Name: "Sala A"})
	capacity := 3
	got, err := svc.Update(ctx, room.ID, &dto.UpdateRoomRequest{Capacity: &capacity, Equipment: strPtr("Pedal duplo")})
	if err != nil {
		t.Fatalf("更新房间应成功: %v", err)
	}
	if got.Capacity != 3 || got.Equipment == nil || *got.Equipment != "Pedal duplo" {
		t.Errorf("更新结果不符: %+v", got)
	}

	if _, err := svc.Update(ctx, 999, &dto.UpdateRoomRequest{}); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际 %v", err)
	}
}
