package model

// Room 练习室表，对应 rooms
// 删除为软删除：is_active=false
type Room struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Description *string `gorm:"type:text"                  json:"description"`
	Capacity    int     `gorm:"not null;default:1"         json:"capacity"`
	Equipment   *string `gorm:"type:text"                  json:"equipment"`
	IsActive    bool    `gorm:"not null;default:true"      json:"is_active"`
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
