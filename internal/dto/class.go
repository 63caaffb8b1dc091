package dto

import "time"

// ── 课程模块 DTO ──

// CreateClassRequest 创建课程请求
type CreateClassRequest struct {
	RoomID            int64   `json:"room_id"            binding:"required,min=1"`
	TeacherName       string  `json:"teacher_name"       binding:"required,min=1,max=100"`
	ClassName         string  `json:"class_name"         binding:"required,min=1,max=100"`
	StudentName       *string `json:"student_name"       binding:"omitempty,max=100"`
	StartTime         string  `json:"start_time"         binding:"required"`
	EndTime           string  `json:"end_time"           binding:"required"`
	IsRecurring       bool    `json:"is_recurring"`
	RecurrencePattern *string `json:"recurrence_pattern" binding:"omitempty,oneof=weekly monthly"`
	Notes             *string `json:"notes"              binding:"omitempty,max=1000"`
}

// UpdateClassRequest 更新课程请求
type UpdateClassRequest struct {
	TeacherName       *string `json:"teacher_name"       binding:"omitempty,min=1,max=100"`
	ClassName         *string `json:"class_name"         binding:"omitempty,min=1,max=100"`
	StudentName       *string `json:"student_name"       binding:"omitempty,max=100"`
	StartTime         *string `json:"start_time"`
	EndTime           *string `json:"end_time"`
	IsRecurring       *bool   `json:"is_recurring"`
	RecurrencePattern *string `json:"recurrence_pattern" binding:"omitempty,oneof=weekly monthly"`
	Notes             *string `json:"notes"              binding:"omitempty,max=1000"`
	Status            *string `json:"status"             binding:"omitempty,oneof=scheduled cancelled completed"`
}

// ClassesByRoomRequest 按房间查询课程参数
type ClassesByRoomRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ClassResponse 课程信息响应
type ClassResponse struct {
	ID                int64         `json:"id"`
	RoomID            int64         `json:"room_id"`
	TeacherName       string        `json:"teacher_name"`
	ClassName         string        `json:"class_name"`
	StudentName       *string       `json:"student_name"`
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	IsRecurring       bool          `json:"is_recurring"`
	RecurrencePattern *string       `json:"recurrence_pattern"`
	Notes             *string       `json:"notes"`
	Status            string        `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	Room              *RoomResponse `json:"room,omitempty"`
}
