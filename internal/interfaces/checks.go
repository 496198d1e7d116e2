package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/storyshelf/internal/database/audio"
	"github.com/mrlokans/storyshelf/internal/database/engagement"
	"github.com/mrlokans/storyshelf/internal/database/maintenance"
	"github.com/mrlokans/storyshelf/internal/database/progress"
	"github.com/mrlokans/storyshelf/internal/database/stats"
	"github.com/mrlokans/storyshelf/internal/database/stories"
	"github.com/mrlokans/storyshelf/internal/database/users"
	"github.com/mrlokans/storyshelf/internal/http"
	"github.com/mrlokans/storyshelf/internal/narration"
	"github.com/mrlokans/storyshelf/internal/scheduler"
	"github.com/mrlokans/storyshelf/internal/storage"
	"github.com/mrlokans/storyshelf/internal/tasks"
	"github.com/mrlokans/storyshelf/internal/translation"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.UserStore = (*users.Repository)(nil)
var _ http.StoryStore = (*stories.Repository)(nil)
var _ http.StoryReader = (*stories.Repository)(nil)
var _ http.ProgressStore = (*progress.Repository)(nil)
var _ http.EngagementStore = (*engagement.Repository)(nil)
var _ http.StatsStore = (*stats.Repository)(nil)
var _ http.AudioStore = (*audio.Repository)(nil)
var _ tasks.OrphanCleaner = (*maintenance.Repository)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.TranslationService = (*translation.Cache)(nil)
var _ tasks.StoryWarmer = (*translation.Cache)(nil)
var _ http.Publisher = (*narration.Service)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ translation.Translator = (*translation.OpenAITranslator)(nil)
var _ translation.Translator = translation.TranslatorFunc(nil)
var _ storage.Client = (*storage.S3Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskClient = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
