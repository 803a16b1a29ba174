package model

import "time"

// User 用户（用户名/邮箱唯一，密码仅存 bcrypt 哈希）
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex:idx_user_username;not null" json:"username"`
	Email     string    `gorm:"type:varchar(128);uniqueIndex:idx_user_email;not null" json:"email"`
	Password  string    `gorm:"type:varchar(128);not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// PublicUser 对外投影（populate 时只暴露 username）
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser { return PublicUser{ID: u.ID, Username: u.Username} }
