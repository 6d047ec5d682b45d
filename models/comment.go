package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reply to a post. Both foreign keys are mandatory: a comment
// always references an existing post and an existing user.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `json:"author"`
}

// BeforeCreate assigns the submission timestamp when absent.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	return nil
}

// CommentsForPost loads all comments of a post in submission order with
// their authoring users eagerly joined.
func CommentsForPost(db *gorm.DB, postID uint) ([]Comment, error) {
	var comments []Comment
	err := db.Where("post_id = ?", postID).
		Preload("User").
		Order("timestamp ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
