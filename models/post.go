package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Sort directions accepted by the listing query.
const (
	SortAscending  = "ascending"
	SortDescending = "descending"
)

// Post is a published article. Tags holds a single free-text tag per post.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:50;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	Tags      string    `gorm:"size:64" json:"tags"`
	Comments  []Comment `json:"comments,omitempty"`
}

// BeforeCreate assigns the publication timestamp when the caller did not
// provide one. Timestamps are never mutated afterwards.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	return nil
}

// PostQuery describes the three independent listing criteria. All of them
// are optional and they compose conjunctively: ordering is always applied,
// a tag narrows the set, and a search term narrows it further.
type PostQuery struct {
	SortBy string // "ascending" (default) or "descending"
	Tags   string // exact match against Post.Tags
	Search string // case-insensitive substring match against Post.Title
}

// QueryPosts returns posts ordered by timestamp and filtered per q.
func QueryPosts(db *gorm.DB, q PostQuery) ([]Post, error) {
	order := "timestamp ASC"
	if q.SortBy == SortDescending {
		order = "timestamp DESC"
	}

	tx := db.Order(order)
	if q.Tags != "" {
		tx = tx.Where("tags = ?", q.Tags)
	}
	if q.Search != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}

	var posts []Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// DistinctTags returns every distinct tag value across the entire post set,
// ignoring any active listing filter, deduplicated by first occurrence in
// insertion order.
func DistinctTags(db *gorm.DB) ([]string, error) {
	var tags []string
	if err := db.Model(&Post{}).Order("id ASC").Pluck("tags", &tags).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(tags))
	distinct := []string{}
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		distinct = append(distinct, t)
	}
	return distinct, nil
}
