package model

import "time"

// 预约状态
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking 预约表，对应 bookings
// 仅 confirmed 状态占用房间时间段
type Booking struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID    int64     `gorm:"not null;index"                                json:"user_id"`
	RoomID    int64     `gorm:"not null"                                      json:"room_id"`
	StartTime time.Time `gorm:"not null"                                      json:"start_time"`
	EndTime   time.Time `gorm:"not null"                                      json:"end_time"`
	Notes     *string   `gorm:"type:text"                                     json:"notes"`
	Status    string    `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }
