package service

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"studio-booking/internal/model"
)

func TestExportService_ExportBookings(t *testing.T) {
	store := newMockStore()
	store.users[1] = &model.User{ID: 1, Email: "a@example.com", FullName: "Alice"}
	store.rooms[1] = &model.Room{ID: 1, Name: "Practice Room 1", IsActive: true}
	store.bookings[1] = &model.Booking{ID: 1, UserID: 1, RoomID: 1, StartTime: at(3, 10, 0), EndTime: at(3, 11, 0),
		Status: model.BookingStatusConfirmed, Notes: strPtr("first")}
	store.bookings[2] = &model.Booking{ID: 2, UserID: 1, RoomID: 1, StartTime: at(4, 10, 0), EndTime: at(4, 11, 0),
		Status: model.BookingStatusCancelled}

	svc := NewExportService(newMockRepository(store), testRules(), zap.NewNop())
	buf, filename, err := svc.ExportBookings(context.Background())
	if err != nil {
		t.Fatalf("导出失败: %v", err)
	}
	if filename != "bookings.xlsx" {
		t.Errorf("期望文件名 bookings.xlsx，实际 %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法读取导出文件: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("预约")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("期望 1 行表头 + 2 行数据，实际 %d", len(rows))
	}
	// List 按开始时间倒序
	if rows[1][1] != "2025-06-04" || rows[2][4] != "Practice Room 1" || rows[2][5] != "Alice" {
		t.Errorf("数据行不符: %v", rows[1:])
	}
	if rows[2][8] != "first" {
		t.Errorf("备注列不符: %v", rows[2])
	}
}

func TestExportService_Empty(t *testing.T) {
	svc := NewExportService(newMockRepository(newMockStore()), testRules(), zap.NewNop())

	buf, _, err := svc.ExportBookings(context.Background())
	if err != nil {
		t.Fatalf("空数据导出应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
}
