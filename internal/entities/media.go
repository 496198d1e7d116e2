package entities

import (
	"time"

	"gorm.io/gorm"
)

// ChapterKey folds an optional chapter reference into a non-null value so that
// story-level rows (no chapter) take part in unique indexes.
func ChapterKey(chapterID *uint) uint {
	if chapterID == nil {
		return 0
	}
	return *chapterID
}

// Translation is the cached translation of a story or one of its chapters.
type Translation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StoryID        uint      `gorm:"not null;uniqueIndex:idx_translations_key" json:"story_id"`
	Language       string    `gorm:"size:10;not null;uniqueIndex:idx_translations_key" json:"language"`
	ChapterKey     uint      `gorm:"not null;default:0;uniqueIndex:idx_translations_key" json:"-"`
	ChapterID      *uint     `json:"chapter_id,omitempty"`
	SourceLanguage string    `gorm:"size:10" json:"source_language,omitempty"`
	TranslatedText string    `gorm:"type:text" json:"translated_text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Translation) TableName() string {
	return "translations"
}

func (t *Translation) BeforeSave(tx *gorm.DB) error {
	t.ChapterKey = ChapterKey(t.ChapterID)
	return nil
}

// Audiobook is a system-generated narration of a story or chapter in one language.
type Audiobook struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StoryID         uint      `gorm:"not null;uniqueIndex:idx_audiobooks_key" json:"story_id"`
	Language        string    `gorm:"size:10;not null;uniqueIndex:idx_audiobooks_key" json:"language"`
	ChapterKey      uint      `gorm:"not null;default:0;uniqueIndex:idx_audiobooks_key" json:"-"`
	ChapterID       *uint     `json:"chapter_id,omitempty"`
	AudioURL        string    `gorm:"size:2048;not null" json:"audio_url"`
	DurationSeconds int       `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Audiobook) TableName() string {
	return "audiobooks"
}

func (a *Audiobook) BeforeSave(tx *gorm.DB) error {
	a.ChapterKey = ChapterKey(a.ChapterID)
	return nil
}

// AudioRecording is a narration uploaded by a user. Only the storage URL is kept.
type AudioRecording struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	StoryID         uint      `gorm:"index;not null" json:"story_id"`
	ChapterID       *uint     `gorm:"index" json:"chapter_id,omitempty"`
	Title           string    `gorm:"size:512" json:"title"`
	Language        string    `gorm:"size:10;default:'en'" json:"language"`
	AudioURL        string    `gorm:"size:2048;not null" json:"audio_url"`
	DurationSeconds int       `gorm:"not null;default:0" json:"duration_seconds"`
	IsPublic        bool      `gorm:"default:false" json:"is_public"`
	IsFeatured      bool      `gorm:"default:false" json:"is_featured"`
	PlayCount       int64     `gorm:"not null;default:0" json:"play_count"`
	LikeCount       int64     `gorm:"not null;default:0" json:"like_count"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (AudioRecording) TableName() string {
	return "audio_recordings"
}
