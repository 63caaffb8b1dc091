package dto

import "time"

// ── 预约模块 DTO ──

// CreateBookingRequest 创建预约请求
// 时间接受 RFC3339 或不带时区的 "2006-01-02T15:04:05"（按业务时区解释）
type CreateBookingRequest struct {
	RoomID    int64   `json:"room_id"    binding:"required,min=1"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time"   binding:"required"`
	Notes     *string `json:"notes"      binding:"omitempty,max=1000"`
}

// UpdateBookingRequest 更新预约请求
type UpdateBookingRequest struct {
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Notes     *string `json:"notes"  binding:"omitempty,max=1000"`
	Status    *string `json:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
}

// BookingResponse 预约信息响应
// Room / User 仅在需要详情的接口中返回
type BookingResponse struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	RoomID    int64         `json:"room_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Notes     *string       `json:"notes"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	Room      *RoomResponse `json:"room,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
}

// AvailableSlotsRequest 可预约时间段查询参数
type AvailableSlotsRequest struct {
	RoomID   int64  `form:"room_id"  binding:"required,min=1"`
	Date     string `form:"date"     binding:"required"`
	Duration int    `form:"duration" binding:"omitempty,min=15,max=240"`
}

// SlotResponse 时间段
type SlotResponse struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	RoomID      int64     `json:"room_id"`
}
