package model

// User 用户表，对应 users
type User struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"      json:"id"`
	Email          string  `gorm:"type:varchar(255);not null"    json:"email"`
	HashedPassword string  `gorm:"type:varchar(255);not null"    json:"-"`
	FullName       string  `gorm:"type:varchar(100);not null"    json:"full_name"`
	Phone          *string `gorm:"type:varchar(30)"              json:"phone"`
	IsActive       bool    `gorm:"not null;default:true"         json:"is_active"`
	IsAdmin        bool    `gorm:"not null;default:false"        json:"is_admin"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
