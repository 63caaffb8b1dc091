package model

import (
	"fmt"
	"time"
)

// Student 学员固定课表，对应 students
// Weekday: 0=周一 … 6=周日；StartTime/EndTime 为 "HH:MM"
type Student struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Email       *string `gorm:"type:varchar(255)"          json:"email"`
	Phone       *string `gorm:"type:varchar(30)"           json:"phone"`
	TeacherName string  `gorm:"type:varchar(100);not null" json:"teacher_name"`
	RoomID      int64   `gorm:"not null"                   json:"room_id"`
	Weekday     int     `gorm:"not null"                   json:"weekday"`
	StartTime   string  `gorm:"type:varchar(5);not null"   json:"start_time"`
	EndTime     string  `gorm:"type:varchar(5);not null"   json:"end_time"`
	Notes       *string `gorm:"type:text"                  json:"notes"`
	IsActive    bool    `gorm:"not null;default:true"      json:"is_active"`
	BaseModel

	// 关联
	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// MondayWeekday 将 time.Weekday（0=周日）换算为 0=周一 的编号
func MondayWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// ClockMinutes 解析 "HH:MM" 为当日分钟数
func ClockMinutes(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("时间格式无效 %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("时间超出范围 %q", hhmm)
	}
	return h*60 + m, nil
}

// OccurrenceOn 返回学员在指定日期的上课区间
// day 只取年月日，时区沿用 day 的时区
func (s *Student) OccurrenceOn(day time.Time) (time.Time, time.Time, error) {
	startMin, err := ClockMinutes(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := ClockMinutes(s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, mo, d := day.Date()
	midnight := time.Date(y, mo, d, 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(startMin) * time.Minute), midnight.Add(time.Duration(endMin) * time.Minute), nil
}
