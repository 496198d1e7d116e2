package http

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/storyshelf/internal/database/audio"
	"github.com/mrlokans/storyshelf/internal/entities"
	"github.com/mrlokans/storyshelf/internal/narration"
)

const maxRecordingFileSize = 100 * 1024 * 1024

var allowedRecordingExts = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true, ".ogg": true, ".wav": true, ".webm": true,
}

// AudioStore defines database operations for audiobooks and recordings.
type AudioStore interface {
	GetAudiobook(storyID uint, language string, chapterID *uint) (*entities.Audiobook, error)
	CreateAudiobook(book *entities.Audiobook) error
	ListAudiobooks(storyID uint) ([]entities.Audiobook, error)

	GetRecording(id uint) (*entities.AudioRecording, error)
	UpdateRecording(id uint, update audio.RecordingUpdate) (*entities.AudioRecording, error)
	DeleteRecording(id uint) (bool, error)
	ListRecordingsByUser(userID uint) ([]entities.AudioRecording, error)
	ListRecordingsByStory(storyID uint, publicOnly bool) ([]entities.AudioRecording, error)
	ListRecordingsByChapter(chapterID uint, publicOnly bool) ([]entities.AudioRecording, error)
	ListFeaturedRecordings(limit int) ([]entities.AudioRecording, error)
	IncrementPlayCount(id uint) error
}

// Publisher uploads a narration and records it.
type Publisher interface {
	Publish(ctx context.Context, up narration.Upload) (*entities.AudioRecording, error)
}

type AudioController struct {
	store     AudioStore
	publisher Publisher
}

func NewAudioController(store AudioStore, publisher Publisher) *AudioController {
	return &AudioController{store: store, publisher: publisher}
}

// ListAudiobooks handles GET /api/stories/:id/audiobooks
func (ac *AudioController) ListAudiobooks(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	books, err := ac.store.ListAudiobooks(storyID)
	if err != nil {
		respondError(c, err, "audiobooks", "list audiobooks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"audiobooks": books})
}

// GetAudiobook handles GET /api/stories/:id/audiobooks/:lang?chapter_id=N
func (ac *AudioController) GetAudiobook(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	chapterID, ok := parseOptionalQueryID(c, "chapter_id")
	if !ok {
		return
	}
	book, err := ac.store.GetAudiobook(storyID, c.Param("lang"), chapterID)
	if err != nil {
		respondError(c, err, "audiobook", "get audiobook")
		return
	}
	c.JSON(http.StatusOK, book)
}

type CreateAudiobookRequest struct {
	Language        string `json:"language" binding:"required"`
	ChapterID       *uint  `json:"chapter_id"`
	AudioURL        string `json:"audio_url" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
}

// CreateAudiobook handles POST /api/stories/:id/audiobooks
func (ac *AudioController) CreateAudiobook(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateAudiobookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	book := &entities.Audiobook{
		StoryID:         storyID,
		ChapterID:       req.ChapterID,
		Language:        req.Language,
		AudioURL:        req.AudioURL,
		DurationSeconds: req.DurationSeconds,
	}
	if err := ac.store.CreateAudiobook(book); err != nil {
		respondError(c, err, "audiobook", "create audiobook")
		return
	}
	respondCreated(c, book)
}

// UploadRecording handles POST /api/stories/:id/recordings as multipart form:
// audio_file plus optional chapter_id, title, language, duration_seconds, is_public.
func (ac *AudioController) UploadRecording(c *gin.Context) {
	storyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("audio_file")
	if err != nil {
		respondBadRequest(c, "audio_file not provided")
		return
	}
	defer file.Close()

	if header.Size > maxRecordingFileSize {
		respondBadRequest(c, fmt.Sprintf("file too large (max %d MB)", maxRecordingFileSize/(1024*1024)))
		return
	}
	ext := filepath.Ext(header.Filename)
	if !allowedRecordingExts[ext] {
		respondBadRequest(c, "unsupported audio format")
		return
	}

	up := narration.Upload{
		UserID:    GetUserID(c),
		StoryID:   storyID,
		Title:     c.PostForm("title"),
		Language:  c.DefaultPostForm("language", "en"),
		IsPublic:  c.PostForm("is_public") == "true",
		Extension: ext,
		Content:   file,
	}
	if raw := c.PostForm("chapter_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			respondBadRequest(c, "invalid chapter_id")
			return
		}
		chapterID := uint(id)
		up.ChapterID = &chapterID
	}
	if raw := c.PostForm("duration_seconds"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "invalid duration_seconds")
			return
		}
		up.DurationSeconds = d
	}

	rec, err := ac.publisher.Publish(c.Request.Context(), up)
	if err != nil {
		respondError(c, err, "recording", "publish recording")
		return
	}
	respondCreated(c, rec)
}

// GetRecording handles GET /api/recordings/:id
// Private recordings are only visible to their owner.
func (ac *AudioController) GetRecording(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rec, err := ac.store.GetRecording(id)
	if err != nil {
		respondError(c, err, "recording", "get recording")
		return
	}
	if !rec.IsPublic && rec.UserID != GetUserID(c) {
		respondNotFound(c, "recording")
		return
	}
	c.JSON(http.StatusOK, rec)
}

type UpdateRecordingRequest struct {
	Title           *string `json:"title"`
	Language        *string `json:"language"`
	DurationSeconds *int    `json:"duration_seconds"`
	IsPublic        *bool   `json:"is_public"`
	IsFeatured      *bool   `json:"is_featured"`
}

// UpdateRecording handles PATCH /api/recordings/:id (owner only)
func (ac *AudioController) UpdateRecording(c *gin.Context) {
	rec, ok := ac.ownedRecording(c)
	if !ok {
		return
	}
	var req UpdateRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	updated, err := ac.store.UpdateRecording(rec.ID, audio.RecordingUpdate{
		Title:           req.Title,
		Language:        req.Language,
		DurationSeconds: req.DurationSeconds,
		IsPublic:        req.IsPublic,
		IsFeatured:      req.IsFeatured,
	})
	if err != nil {
		respondError(c, err, "recording", "update recording")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRecording handles DELETE /api/recordings/:id (owner only)
func (ac *AudioController) DeleteRecording(c *gin.Context) {
	rec, ok := ac.ownedRecording(c)
	if !ok {
		return
	}
	removed, err := ac.store.DeleteRecording(rec.ID)
	if err != nil {
		respondError(c, err, "recording", "delete recording")
		return
	}
	if !removed {
		respondNotFound(c, "recording")
		return
	}
	respondSuccess(c, "recording deleted")
}

// PlayRecording handles POST /api/recordings/:id/play
func (ac *AudioController) PlayRecording(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ac.store.IncrementPlayCount(id); err != nil {
		respondError(c, err, "recording", "increment play count")
		return
	}
	respondSuccess(c, "play recorded")
}

// ListStoryRecordings handles GET /api/stories/:id/recordings
func (ac *AudioController) ListStoryRecordings(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recs, err := ac.store.ListRecordingsByStory(id, true)
	if err != nil {
		respondError(c, err, "recordings", "list story recordings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

// ListChapterRecordings handles GET /api/chapters/:id/recordings
func (ac *AudioController) ListChapterRecordings(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recs, err := ac.store.ListRecordingsByChapter(id, true)
	if err != nil {
		respondError(c, err, "recordings", "list chapter recordings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

// ListUserRecordings handles GET /api/users/:id/recordings
// Other users only see public recordings.
func (ac *AudioController) ListUserRecordings(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recs, err := ac.store.ListRecordingsByUser(userID)
	if err != nil {
		respondError(c, err, "recordings", "list user recordings")
		return
	}
	if userID != GetUserID(c) {
		public := recs[:0]
		for _, r := range recs {
			if r.IsPublic {
				public = append(public, r)
			}
		}
		recs = public
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

// ListMyRecordings handles GET /api/me/recordings
func (ac *AudioController) ListMyRecordings(c *gin.Context) {
	recs, err := ac.store.ListRecordingsByUser(GetUserID(c))
	if err != nil {
		respondError(c, err, "recordings", "list my recordings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

// ListFeaturedRecordings handles GET /api/recordings/featured?limit=N
func (ac *AudioController) ListFeaturedRecordings(c *gin.Context) {
	recs, err := ac.store.ListFeaturedRecordings(parseLimit(c, 20, 100))
	if err != nil {
		respondError(c, err, "recordings", "list featured recordings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

func (ac *AudioController) ownedRecording(c *gin.Context) (*entities.AudioRecording, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	rec, err := ac.store.GetRecording(id)
	if err != nil {
		respondError(c, err, "recording", "get recording")
		return nil, false
	}
	if rec.UserID != GetUserID(c) {
		respondForbidden(c, "only the owner can modify this recording")
		return nil, false
	}
	return rec, true
}
