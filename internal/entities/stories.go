package entities

import (
	"time"

	"gorm.io/datatypes"
)

type Story struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"index;size:512;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	Content       string `gorm:"type:text" json:"content,omitempty"`
	CoverImageURL string `gorm:"size:2048" json:"cover_image_url,omitempty"`
	Genre         string `gorm:"index;size:64" json:"genre,omitempty"`
	Language      string `gorm:"size:10;default:'en'" json:"language"`
	AuthorID      uint   `gorm:"index;not null" json:"author_id"`
	Author        *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	IsPublished bool `gorm:"index;default:false" json:"is_published"`
	// Pointer so an explicit false survives the database default of true.
	IsDraft    *bool `gorm:"not null;default:true" json:"is_draft"`
	IsFeatured bool  `gorm:"index;default:false" json:"is_featured"`

	// Counters are maintained by engagement flows, never by direct edits.
	ReadCount            int64 `gorm:"not null;default:0" json:"read_count"`
	LikeCount            int64 `gorm:"not null;default:0" json:"like_count"`
	ChapterCount         int   `gorm:"not null;default:0" json:"chapter_count"`
	EstimatedReadMinutes int   `gorm:"not null;default:0" json:"estimated_read_minutes"`

	Tags      datatypes.JSONSlice[string] `json:"tags"`
	Chapters  []Chapter                   `gorm:"foreignKey:StoryID" json:"chapters,omitempty"`
	CreatedAt time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (Story) TableName() string {
	return "stories"
}

// Draft reports the draft flag, treating an unset flag as the default.
func (s Story) Draft() bool {
	return s.IsDraft == nil || *s.IsDraft
}

// Chapter numbers are 1-based and unique within their story.
type Chapter struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StoryID       uint      `gorm:"not null;uniqueIndex:idx_chapters_story_number" json:"story_id"`
	Title         string    `gorm:"size:512" json:"title"`
	Content       string    `gorm:"type:text" json:"content"`
	ChapterNumber int       `gorm:"not null;uniqueIndex:idx_chapters_story_number" json:"chapter_number"`
	WordCount     int       `gorm:"not null;default:0" json:"word_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// ReadingProgress is a user's position within a story; one row per (user, story).
type ReadingProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_reading_progress_user_story" json:"user_id"`
	StoryID     uint      `gorm:"not null;uniqueIndex:idx_reading_progress_user_story" json:"story_id"`
	ChapterID   *uint     `json:"chapter_id,omitempty"`
	Position    int       `gorm:"not null;default:0" json:"position"` // character offset
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	LastReadAt  time.Time `gorm:"index" json:"last_read_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ReadingProgress) TableName() string {
	return "reading_progress"
}
