//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pkgerrors "studio-booking/pkg/errors"

	"studio-booking/internal/model"
	"studio-booking/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=studio_booking_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	err = testDB.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Booking{},
		&model.Class{},
		&model.Student{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupTestData 创建用户与房间并返回清理函数
func setupTestData(t *testing.T) (user *model.User, room *model.Room, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	user = &model.User{
		Email:          fmt.Sprintf("user%d@example.com", time.Now().UnixNano()),
		HashedPassword: "$2a$10$placeholder",
		FullName:       "测试用户",
		IsActive:       true,
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	room = &model.Room{
		Name:     fmt.Sprintf("测试房间-%d", time.Now().UnixNano()),
		Capacity: 1,
		IsActive: true,
	}
	if err := testDB.WithContext(ctx).Create(room).Error; err != nil {
		t.Fatalf("创建房间失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("room_id = ?", room.ID).Delete(&model.Booking{})
		testDB.Where("room_id = ?", room.ID).Delete(&model.Class{})
		testDB.Where("room_id = ?", room.ID).Delete(&model.Student{})
		testDB.Where("id = ?", room.ID).Delete(&model.Room{})
		testDB.Where("id = ?", user.ID).Delete(&model.User{})
	}
	return
}

func futureHour(h int) time.Time {
	return time.Now().UTC().Truncate(time.Hour).Add(time.Duration(h) * time.Hour)
}

// ═══════════════════════════════════════════════════════════
// Test: Booking overlap
// ═══════════════════════════════════════════════════════════

func TestBookingRepo_Create_Conflict(t *testing.T) {
	user, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(48), EndTime: futureHour(49),
		Status: model.BookingStatusConfirmed,
	}
	if err := repo.Booking.Create(ctx, first); err != nil {
		t.Fatalf("创建预约失败: %v", err)
	}

	overlap := &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(48).Add(30 * time.Minute), EndTime: futureHour(49).Add(30 * time.Minute),
		Status: model.BookingStatusConfirmed,
	}
	if err := repo.Booking.Create(ctx, overlap); !errors.Is(err, pkgerrors.ErrSlotConflict) {
		t.Errorf("期望 ErrSlotConflict，实际 %v", err)
	}

	// 首尾相接不算冲突
	adjacent := &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(49), EndTime: futureHour(50),
		Status: model.BookingStatusConfirmed,
	}
	if err := repo.Booking.Create(ctx, adjacent); err != nil {
		t.Errorf("相邻预约应成功，实际 %v", err)
	}
}

func TestBookingRepo_Create_ConflictWithClass(t *testing.T) {
	user, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	class := &model.Class{
		RoomID: room.ID, TeacherName: "Ana", ClassName: "Rock 101",
		StartTime: futureHour(72), EndTime: futureHour(73),
		Status: model.ClassStatusScheduled,
	}
	if err := repo.Class.Create(ctx, class); err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}

	b := &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(72), EndTime: futureHour(73),
		Status: model.BookingStatusConfirmed,
	}
	if err := repo.Booking.Create(ctx, b); !errors.Is(err, pkgerrors.ErrSlotConflict) {
		t.Errorf("期望 ErrSlotConflict，实际 %v", err)
	}
}

func TestBookingRepo_Create_Concurrent(t *testing.T) {
	user, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Booking.Create(ctx, &model.Booking{
				UserID: user.ID, RoomID: room.ID,
				StartTime: futureHour(96), EndTime: futureHour(97),
				Status: model.BookingStatusConfirmed,
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, pkgerrors.ErrSlotConflict) {
			t.Errorf("期望 ErrSlotConflict，实际 %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("并发预约同一时段，期望仅 1 个成功，实际 %d", ok)
	}
}

func TestBookingRepo_Create_InactiveRoom(t *testing.T) {
	user, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.Room.Deactivate(ctx, room.ID); err != nil {
		t.Fatalf("停用房间失败: %v", err)
	}

	err := repo.Booking.Create(ctx, &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(30), EndTime: futureHour(31),
		Status: model.BookingStatusConfirmed,
	})
	if !errors.Is(err, pkgerrors.ErrRoomUnavailable) {
		t.Errorf("期望 ErrRoomUnavailable，实际 %v", err)
	}
}

func TestBookingRepo_RescheduleAndCancel(t *testing.T) {
	user, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	b := &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(24), EndTime: futureHour(25),
		Status: model.BookingStatusConfirmed,
	}
	if err := repo.Booking.Create(ctx, b); err != nil {
		t.Fatalf("创建预约失败: %v", err)
	}

	// 自身不构成冲突
	b.EndTime = futureHour(26)
	if err := repo.Booking.Reschedule(ctx, b); err != nil {
		t.Fatalf("改期预约失败: %v", err)
	}

	// 房间停用后仍可直接保存备注
	if err := repo.Room.Deactivate(ctx, room.ID); err != nil {
		t.Fatalf("停用房间失败: %v", err)
	}
	b.Notes = strPtr("带鼓棒")
	if err := repo.Booking.Update(ctx, b); err != nil {
		t.Fatalf("更新备注失败: %v", err)
	}
	if err := repo.Booking.Reschedule(ctx, b); !errors.Is(err, pkgerrors.ErrRoomUnavailable) {
		t.Errorf("期望改期返回 ErrRoomUnavailable，实际 %v", err)
	}

	b.Status = model.BookingStatusCancelled
	if err := repo.Booking.Update(ctx, b); err != nil {
		t.Fatalf("取消预约失败: %v", err)
	}

	got, err := repo.Booking.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("查询预约失败: %v", err)
	}
	if got.Status != model.BookingStatusCancelled {
		t.Errorf("期望状态 cancelled，实际 %s", got.Status)
	}
	if got.Room == nil || got.Room.ID != room.ID {
		t.Error("期望预加载 Room")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Completion
// ═══════════════════════════════════════════════════════════

func TestBookingRepo_CompleteEnded(t *testing.T) {
	user, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	past := &model.Booking{
		UserID: user.ID, RoomID: room.ID,
		StartTime: futureHour(-3), EndTime: futureHour(-2),
		Status: model.BookingStatusConfirmed,
	}
	if err := testDB.Create(past).Error; err != nil {
		t.Fatalf("创建历史预约失败: %v", err)
	}

	n, err := repo.Booking.CompleteEnded(ctx, time.Now())
	if err != nil {
		t.Fatalf("CompleteEnded 失败: %v", err)
	}
	if n < 1 {
		t.Errorf("期望至少 1 条被标记完成，实际 %d", n)
	}

	got, _ := repo.Booking.GetByID(ctx, past.ID)
	if got.Status != model.BookingStatusCompleted {
		t.Errorf("期望状态 completed，实际 %s", got.Status)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Students
// ═══════════════════════════════════════════════════════════

func TestStudentRepo_SoftDelete(t *testing.T) {
	_, room, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	email := "Aluno@Example.com"
	s := &model.Student{
		Name: "Aluno", Email: &email, TeacherName: "Ana",
		RoomID: room.ID, Weekday: 1, StartTime: "10:00", EndTime: "11:00",
		IsActive: true,
	}
	if err := repo.Student.Create(ctx, s); err != nil {
		t.Fatalf("创建学员失败: %v", err)
	}

	list, err := repo.Student.ListByEmail(ctx, "aluno@example.com")
	if err != nil {
		t.Fatalf("ListByEmail 失败: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望按邮箱查到 1 个学员，实际 %d", len(list))
	}

	if err := repo.Student.Deactivate(ctx, s.ID); err != nil {
		t.Fatalf("停用学员失败: %v", err)
	}
	if _, err := repo.Student.GetByID(ctx, s.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("停用后期望 ErrRecordNotFound，实际 %v", err)
	}
	byDay, _ := repo.Student.ListByRoomWeekday(ctx, room.ID, 1)
	if len(byDay) != 0 {
		t.Errorf("停用学员不应出现在周课表中，实际 %d", len(byDay))
	}
}

func strPtr(s string) *string { return &s }
