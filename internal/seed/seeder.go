// Package seed populates an empty database with demonstration content.
//
// Seeding is guarded by a single check: if any story exists the seeder does
// nothing. It is run once at startup (or via the seed command), never on the
// request path.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/storyshelf/internal/database/engagement"
	"github.com/mrlokans/storyshelf/internal/database/stories"
	"github.com/mrlokans/storyshelf/internal/database/users"
	"github.com/mrlokans/storyshelf/internal/entities"
)

//go:embed data/demo.json
var demoData []byte

type demoAuthor struct {
	ExternalID        string   `json:"external_id"`
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	DisplayName       string   `json:"display_name"`
	Bio               string   `json:"bio"`
	PreferredLanguage string   `json:"preferred_language"`
	Roles             []string `json:"roles"`
	PreferredGenres   []string `json:"preferred_genres"`
	Interests         []string `json:"interests"`
}

type demoChapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type demoStory struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Genre       string        `json:"genre"`
	Language    string        `json:"language"`
	Featured    bool          `json:"featured"`
	Tags        []string      `json:"tags"`
	Content     string        `json:"content"`
	Chapters    []demoChapter `json:"chapters"`
}

// Dataset is the demonstration content loaded by the seeder.
type Dataset struct {
	Author  demoAuthor  `json:"author"`
	Stories []demoStory `json:"stories"`
}

// DefaultDataset parses the embedded demonstration content.
func DefaultDataset() (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(demoData, &ds); err != nil {
		return nil, fmt.Errorf("parse demo data: %w", err)
	}
	return &ds, nil
}

// Result describes what a seeding run did.
type Result struct {
	Skipped  bool
	AuthorID uint
	Stories  int
	Chapters int
}

type Seeder struct {
	db      *gorm.DB
	dataset *Dataset
	log     *zap.Logger
}

// New creates a seeder for the embedded dataset.
func New(db *gorm.DB, log *zap.Logger) (*Seeder, error) {
	ds, err := DefaultDataset()
	if err != nil {
		return nil, err
	}
	return NewWithDataset(db, ds, log), nil
}

// NewWithDataset creates a seeder for a custom dataset.
func NewWithDataset(db *gorm.DB, ds *Dataset, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{db: db, dataset: ds, log: log}
}

// Run seeds the database unless a story already exists. Everything is written in
// one transaction: the author, then stories with their chapters, then the
// featured-author entry.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := stories.NewRepository(tx).CountStories()
		if err != nil {
			return err
		}
		if existing > 0 {
			res.Skipped = true
			return nil
		}

		author, err := s.seedAuthor(tx)
		if err != nil {
			return err
		}
		res.AuthorID = author.ID

		storyRepo := stories.NewRepository(tx)
		for _, ds := range s.dataset.Stories {
			story, chapters := buildStory(ds, author.ID)
			if _, err := storyRepo.CreateStoryWithChapters(story, chapters); err != nil {
				return fmt.Errorf("seed story %q: %w", ds.Title, err)
			}
			res.Stories++
			res.Chapters += len(chapters)
		}

		if _, err := engagement.NewRepository(tx).AddFeaturedAuthor(author.ID, 0); err != nil {
			return fmt.Errorf("seed featured author: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("seeding failed", zap.Error(err))
		return Result{}, err
	}

	if res.Skipped {
		s.log.Info("seeding skipped, stories already present")
	} else {
		s.log.Info("seeded demo content",
			zap.Uint("author_id", res.AuthorID),
			zap.Int("stories", res.Stories),
			zap.Int("chapters", res.Chapters))
	}
	return res, nil
}

func (s *Seeder) seedAuthor(tx *gorm.DB) (*entities.User, error) {
	a := s.dataset.Author
	repo := users.NewRepository(tx)
	author, err := repo.UpsertByExternalID(&entities.User{
		ExternalID:        a.ExternalID,
		Username:          a.Username,
		Email:             a.Email,
		DisplayName:       a.DisplayName,
		Bio:               a.Bio,
		PreferredLanguage: a.PreferredLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("seed author: %w", err)
	}
	author, err = repo.CompleteOnboarding(author.ID, users.Onboarding{
		Roles:           a.Roles,
		PreferredGenres: a.PreferredGenres,
		Interests:       a.Interests,
	})
	if err != nil {
		return nil, fmt.Errorf("seed author onboarding: %w", err)
	}
	return author, nil
}

func buildStory(ds demoStory, authorID uint) (*entities.Story, []entities.Chapter) {
	draft := false
	story := &entities.Story{
		Title:       ds.Title,
		Description: ds.Description,
		Content:     ds.Content,
		Genre:       ds.Genre,
		Language:    ds.Language,
		AuthorID:    authorID,
		IsPublished: true,
		IsDraft:     &draft,
		IsFeatured:  ds.Featured,
		Tags:        ds.Tags,
	}
	chapters := make([]entities.Chapter, len(ds.Chapters))
	for i, ch := range ds.Chapters {
		chapters[i] = entities.Chapter{
			Title:         ch.Title,
			Content:       ch.Content,
			ChapterNumber: i + 1,
		}
	}
	return story, chapters
}
