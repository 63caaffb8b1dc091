package model

import "time"

// 课程状态
const (
	ClassStatusScheduled = "scheduled"
	ClassStatusCancelled = "cancelled"
	ClassStatusCompleted = "completed"
)

// Class 课程表，对应 classes
// 仅 scheduled 状态占用房间时间段
type Class struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"                      json:"id"`
	RoomID            int64     `gorm:"not null"                                      json:"room_id"`
	TeacherName       string    `gorm:"type:varchar(100);not null"                    json:"teacher_name"`
	ClassName         string    `gorm:"type:varchar(100);not null"                    json:"class_name"`
	StudentName       *string   `gorm:"type:varchar(100)"                             json:"student_name"`
	StartTime         time.Time `gorm:"not null"                                      json:"start_time"`
	EndTime           time.Time `gorm:"not null"                                      json:"end_time"`
	IsRecurring       bool      `gorm:"not null;default:false"                        json:"is_recurring"`
	RecurrencePattern *string   `gorm:"type:varchar(20)"                              json:"recurrence_pattern"`
	Notes             *string   `gorm:"type:text"                                     json:"notes"`
	Status            string    `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	BaseModel

	// 关联
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }
