package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/database/stories"
	"github.com/mrlokans/storyshelf/internal/database/translations"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// DefaultTimeout bounds a single translator call when none is configured.
const DefaultTimeout = 30 * time.Second

// Request describes one piece of text to translate.
type Request struct {
	StoryID        uint
	ChapterID      *uint
	Language       string
	SourceLanguage string
	SourceText     string
}

func (r Request) key() translations.Key {
	return translations.Key{StoryID: r.StoryID, Language: r.Language, ChapterID: r.ChapterID}
}

// Cache looks translations up in the database and only calls the translator on a miss.
type Cache struct {
	store      *translations.Repository
	stories    *stories.Repository
	translator Translator
	timeout    time.Duration
	log        *zap.Logger
}

// NewCache creates a translation cache. A nil logger disables logging.
func NewCache(store *translations.Repository, stories *stories.Repository, translator Translator, timeout time.Duration, log *zap.Logger) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		store:      store,
		stories:    stories,
		translator: translator,
		timeout:    timeout,
		log:        log,
	}
}

// GetTranslation returns a stored translation without calling the translator.
func (c *Cache) GetTranslation(storyID uint, language string, chapterID *uint) (*entities.Translation, error) {
	lang, err := NormalizeLanguage(language)
	if err != nil {
		return nil, database.Invalidf("%v", err)
	}
	return c.store.GetTranslation(translations.Key{StoryID: storyID, Language: lang, ChapterID: chapterID})
}

// GetOrCreateTranslation returns the stored translation for the request key, or
// translates SourceText and stores the result. A translator failure or timeout
// returns ErrUnavailable and stores nothing.
func (c *Cache) GetOrCreateTranslation(ctx context.Context, req Request) (*entities.Translation, error) {
	lang, err := NormalizeLanguage(req.Language)
	if err != nil {
		return nil, database.Invalidf("%v", err)
	}
	req.Language = lang

	existing, err := c.store.GetTranslation(req.key())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if err := c.requireTarget(req.StoryID, req.ChapterID); err != nil {
		return nil, err
	}

	text, err := c.translate(ctx, req.SourceText, lang)
	if err != nil {
		c.log.Warn("translation failed",
			zap.Uint("story_id", req.StoryID),
			zap.String("language", lang),
			zap.Error(err))
		return nil, err
	}

	saved, err := c.store.SaveTranslation(&entities.Translation{
		StoryID:        req.StoryID,
		ChapterID:      req.ChapterID,
		Language:       lang,
		SourceLanguage: req.SourceLanguage,
		TranslatedText: text,
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("translation stored",
		zap.Uint("story_id", req.StoryID),
		zap.String("language", lang),
		zap.Uint("translation_id", saved.ID))
	return saved, nil
}

// requireTarget rejects unknown stories and foreign chapters before the
// translator is paid for a result that could not be stored.
func (c *Cache) requireTarget(storyID uint, chapterID *uint) error {
	if _, err := c.stories.GetStory(storyID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return database.Invalidf("story %d does not exist", storyID)
		}
		return err
	}
	if chapterID == nil {
		return nil
	}
	ok, err := c.stories.ChapterBelongsTo(*chapterID, storyID)
	if err != nil {
		return err
	}
	if !ok {
		return database.Invalidf("chapter %d does not belong to story %d", *chapterID, storyID)
	}
	return nil
}

func (c *Cache) translate(ctx context.Context, text, lang string) (string, error) {
	if c.translator == nil {
		return "", fmt.Errorf("%w: translator is not configured", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		out, err := c.translator.Translate(ctx, text, lang)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, ErrUnavailable) {
				return "", res.err
			}
			return "", fmt.Errorf("%w: %w", ErrUnavailable, res.err)
		}
		if strings.TrimSpace(res.text) == "" {
			return "", fmt.Errorf("%w: empty translation", ErrUnavailable)
		}
		return res.text, nil
	}
}

// WarmResult summarizes a WarmStory run.
type WarmResult struct {
	Requested int
	Failed    int
}

// WarmStory makes sure the story body and every chapter have a translation in
// language. Chapters that fail are counted and skipped; the first failure is returned.
func (c *Cache) WarmStory(ctx context.Context, storyID uint, language string) (WarmResult, error) {
	var res WarmResult

	story, err := c.stories.GetStory(storyID)
	if err != nil {
		return res, err
	}
	chapters, err := c.stories.ListChapters(storyID)
	if err != nil {
		return res, err
	}

	reqs := make([]Request, 0, len(chapters)+1)
	if strings.TrimSpace(story.Content) != "" {
		reqs = append(reqs, Request{StoryID: story.ID, Language: language, SourceLanguage: story.Language, SourceText: story.Content})
	}
	for i := range chapters {
		if strings.TrimSpace(chapters[i].Content) == "" {
			continue
		}
		reqs = append(reqs, Request{
			StoryID:        story.ID,
			ChapterID:      &chapters[i].ID,
			Language:       language,
			SourceLanguage: story.Language,
			SourceText:     chapters[i].Content,
		})
	}

	var firstErr error
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Requested++
		if _, err := c.GetOrCreateTranslation(ctx, req); err != nil {
			res.Failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return res, firstErr
}

// ListTranslations returns every stored translation of a story.
func (c *Cache) ListTranslations(storyID uint) ([]entities.Translation, error) {
	return c.store.ListTranslations(storyID)
}
