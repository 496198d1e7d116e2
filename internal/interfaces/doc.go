// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
// HTTP controllers depend on narrow store interfaces declared next to them in
// internal/http; the repositories under internal/database implement them:
//
//   - UserStore: profiles, identity upsert, onboarding (database/users)
//   - StoryStore, StoryReader: stories and chapters (database/stories)
//   - ProgressStore: reading progress upsert (database/progress)
//   - EngagementStore: library, likes, favorites, follows, subscriptions (database/engagement)
//   - StatsStore: author aggregates (database/stats)
//   - AudioStore: audiobooks and user recordings (database/audio)
//
// ## Service Interfaces
//
//   - TranslationService, StoryWarmer: translation cache (internal/translation)
//   - Publisher: narration upload then insert (internal/narration)
//   - OrphanCleaner: dependent-row cleanup (database/maintenance)
//
// ## External Service Interfaces
//
//   - Translator: machine translation (internal/translation, OpenAI implementation)
//   - storage.Client: object storage for narration audio (internal/storage, S3 implementation)
//
// ## Background Work
//
//   - TaskClient, Enqueuer: backlite task queue (internal/tasks), used by the
//     HTTP layer and the orphan cleanup scheduler.
//
// # Extending
//
// A new translator only needs Translate(ctx, text, targetLanguage); the Cache
// wraps it with the timeout and the store, and entrypoint.go decides which one
// is built. A new database domain follows the existing layout: a sub-package
// with Repository and NewRepository(*gorm.DB), its models appended to
// database.Models, and an assertion in checks.go against the interface its
// consumer declares.
//
// checks.go holds only var _ I = (*T)(nil) lines, so a drifting method set
// fails the build instead of a request.
package interfaces
