package model

import "time"

// BaseModel 通用创建时间字段（业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Overlaps 判断两个半开区间 [aStart, aEnd) 与 [bStart, bEnd) 是否相交
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
