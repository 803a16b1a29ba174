package model

import "time"

// Reply 评论下的二级回复，同时记录所属帖子便于校验
type Reply struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID    string    `gorm:"type:varchar(36);index:idx_reply_post;not null" json:"postId"`
	CommentID string    `gorm:"type:varchar(36);index:idx_reply_comment;not null" json:"commentId"`
	UserID    string    `gorm:"type:varchar(36);not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"date"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Reply) TableName() string { return "replies" }
