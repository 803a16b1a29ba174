package model

import "time"

// Comment 帖子下的一级评论
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post;not null" json:"postId"`
	UserID    string    `gorm:"type:varchar(36);not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"date"`

	User    *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []Reply `gorm:"foreignKey:CommentID" json:"replies,omitempty"`
}

func (Comment) TableName() string { return "comments" }
