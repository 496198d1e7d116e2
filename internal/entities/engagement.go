package entities

import "time"

// Edge rows are toggles: created by like/follow/add and deleted by the inverse action.
// Each kind carries a compound unique index over its two endpoints.

// UserLibrary is a story saved to a reader's library.
type UserLibrary struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_library_edge" json:"user_id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_user_library_edge;index" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserLibrary) TableName() string {
	return "user_library"
}

func (UserLibrary) EdgeColumns() (subject, object string) {
	return "user_id", "story_id"
}

func (u *UserLibrary) Connect(subjectID, objectID uint) {
	u.UserID, u.StoryID = subjectID, objectID
}

type StoryLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_story_likes_edge" json:"user_id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_story_likes_edge;index" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (StoryLike) TableName() string {
	return "story_likes"
}

func (StoryLike) EdgeColumns() (subject, object string) {
	return "user_id", "story_id"
}

func (s *StoryLike) Connect(subjectID, objectID uint) {
	s.UserID, s.StoryID = subjectID, objectID
}

type FavoriteStory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_stories_edge" json:"user_id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_favorite_stories_edge;index" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteStory) TableName() string {
	return "favorite_stories"
}

func (FavoriteStory) EdgeColumns() (subject, object string) {
	return "user_id", "story_id"
}

func (f *FavoriteStory) Connect(subjectID, objectID uint) {
	f.UserID, f.StoryID = subjectID, objectID
}

// FavoriteAuthor is the follow edge from a reader to an author.
type FavoriteAuthor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_authors_edge" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_favorite_authors_edge;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteAuthor) TableName() string {
	return "favorite_authors"
}

func (FavoriteAuthor) EdgeColumns() (subject, object string) {
	return "user_id", "author_id"
}

func (f *FavoriteAuthor) Connect(subjectID, objectID uint) {
	f.UserID, f.AuthorID = subjectID, objectID
}

type AuthorLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_author_likes_edge" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_author_likes_edge;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthorLike) TableName() string {
	return "author_likes"
}

func (AuthorLike) EdgeColumns() (subject, object string) {
	return "user_id", "author_id"
}

func (a *AuthorLike) Connect(subjectID, objectID uint) {
	a.UserID, a.AuthorID = subjectID, objectID
}

// FavoriteAuthorUser is the "favorite" edge to an author, kept apart from the follow edge.
type FavoriteAuthorUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_author_users_edge" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_favorite_author_users_edge;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteAuthorUser) TableName() string {
	return "favorite_author_users"
}

func (FavoriteAuthorUser) EdgeColumns() (subject, object string) {
	return "user_id", "author_id"
}

func (f *FavoriteAuthorUser) Connect(subjectID, objectID uint) {
	f.UserID, f.AuthorID = subjectID, objectID
}

type AuthorLibrary struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_author_library_edge" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_author_library_edge;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthorLibrary) TableName() string {
	return "author_library"
}

func (AuthorLibrary) EdgeColumns() (subject, object string) {
	return "user_id", "author_id"
}

func (a *AuthorLibrary) Connect(subjectID, objectID uint) {
	a.UserID, a.AuthorID = subjectID, objectID
}

type UserSubscription struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SubscriberID   uint      `gorm:"not null;uniqueIndex:idx_user_subscriptions_edge" json:"subscriber_id"`
	SubscribedToID uint      `gorm:"not null;uniqueIndex:idx_user_subscriptions_edge;index" json:"subscribed_to_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

func (UserSubscription) EdgeColumns() (subject, object string) {
	return "subscriber_id", "subscribed_to_id"
}

func (u *UserSubscription) Connect(subjectID, objectID uint) {
	u.SubscriberID, u.SubscribedToID = subjectID, objectID
}

type AudioRecordingLike struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_audio_recording_likes_edge" json:"user_id"`
	RecordingID uint      `gorm:"not null;uniqueIndex:idx_audio_recording_likes_edge;index" json:"recording_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AudioRecordingLike) TableName() string {
	return "audio_recording_likes"
}

func (AudioRecordingLike) EdgeColumns() (subject, object string) {
	return "user_id", "recording_id"
}

func (a *AudioRecordingLike) Connect(subjectID, objectID uint) {
	a.UserID, a.RecordingID = subjectID, objectID
}

// FeaturedAuthor places an author on the curated featured list.
type FeaturedAuthor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthorID     uint      `gorm:"not null;uniqueIndex" json:"author_id"`
	Author       *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	DisplayOrder int       `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (FeaturedAuthor) TableName() string {
	return "featured_authors"
}
