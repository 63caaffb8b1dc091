package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"studio-booking/internal/dto"
	"studio-booking/internal/model"
)

func TestUserService_UpdateAndList(t *testing.T) {
	store := newMockStore()
	store.users[1] = &model.User{ID: 1, Email: "a@example.com", FullName: "A", IsActive: true}
	store.users[2] = &model.User{ID: 2, Email: "b@example.com", FullName: "B", IsActive: true}
	svc := NewUserService(newMockRepository(store), zap.NewNop())
	ctx := context.Background()

	inactive := false
	got, err := svc.Update(ctx, 2, &dto.UpdateUserRequest{FullName: strPtr("Bruno"), IsActive: &inactive})
	if err != nil {
		t.Fatalf("更新用户失败: %v", err)
	}
	if got.FullName != "Bruno" || got.IsActive {
		t.Errorf("更新结果不符: %+v", got)
	}

	users, _ := svc.List(ctx, 0, 1)
	if len(users) != 1 || users[0].ID != 1 {
		t.Errorf("分页结果不符: %+v", users)
	}

	if _, err := svc.GetByID(ctx, 3); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际 %v", err)
	}
}
