package dto

import "time"

// ── 学员模块 DTO ──

// CreateStudentRequest 创建学员请求
// Weekday: 0=周一 … 6=周日
type CreateStudentRequest struct {
	Name        string  `json:"name"         binding:"required,min=1,max=100"`
	Email       *string `json:"email"        binding:"omitempty,email"`
	Phone       *string `json:"phone"        binding:"omitempty,max=30"`
	TeacherName string  `json:"teacher_name" binding:"required,min=1,max=100"`
	RoomID      int64   `json:"room_id"      binding:"required,min=1"`
	Weekday     *int    `json:"weekday"      binding:"required,min=0,max=6"`
	StartTime   string  `json:"start_time"   binding:"required"`
	EndTime     string  `json:"end_time"     binding:"required"`
	Notes       *string `json:"notes"        binding:"omitempty,max=1000"`
}

// UpdateStudentRequest 更新学员请求
type UpdateStudentRequest struct {
	Name        *string `json:"name"         binding:"omitempty,min=1,max=100"`
	Email       *string `json:"email"        binding:"omitempty,email"`
	Phone       *string `json:"phone"        binding:"omitempty,max=30"`
	TeacherName *string `json:"teacher_name" binding:"omitempty,min=1,max=100"`
	RoomID      *int64  `json:"room_id"      binding:"omitempty,min=1"`
	Weekday     *int    `json:"weekday"      binding:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Notes       *string `json:"notes"        binding:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// StudentResponse 学员信息响应
type StudentResponse struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Email       *string       `json:"email"`
	Phone       *string       `json:"phone"`
	TeacherName string        `json:"teacher_name"`
	RoomID      int64         `json:"room_id"`
	Weekday     int           `json:"weekday"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	Notes       *string       `json:"notes"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	Room        *RoomResponse `json:"room,omitempty"`
}

// EmptyStudentForm 学员表单初始值（取消编辑时复位）
func EmptyStudentForm() CreateStudentRequest {
	weekday := 0
	return CreateStudentRequest{Weekday: &weekday}
}
