package model

import "time"

// Post 内容主体；likes_count 为点赞表基数的冗余列，只允许由计数子查询写入
type Post struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index:idx_post_user;not null" json:"userId"`
	Image       string    `gorm:"type:varchar(255);not null" json:"image"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	LikesCount  int64     `gorm:"not null;default:0" json:"likesCount"`
	CreatedAt   time.Time `json:"date"`
	UpdatedAt   time.Time `json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (Post) TableName() string { return "posts" }
