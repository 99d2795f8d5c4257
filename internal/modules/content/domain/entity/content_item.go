package entity

import "time"

// ContentItem 内容库条目
//
// 仅通过热度自增和管理端新增发生变更
type ContentItem struct {
	Id              string    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	Type            string    `gorm:"column:type;index;not null" json:"type"` // article, audio, video, exercise, tool
	Category        string    `gorm:"column:category;index;not null" json:"category"`
	Description     string    `gorm:"column:description" json:"description"`
	URL             string    `gorm:"column:url" json:"url,omitempty"`
	DurationMinutes int       `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
	Tags            []string  `gorm:"column:tags;serializer:json" json:"tags"`
	EmotionTags     []string  `gorm:"column:emotion_tags;serializer:json" json:"emotion_tags"`
	Difficulty      string    `gorm:"column:difficulty" json:"difficulty,omitempty"` // beginner, intermediate, advanced
	Popularity      int       `gorm:"column:popularity;default:0" json:"popularity"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ContentItem) TableName() string {
	return "content_item"
}
