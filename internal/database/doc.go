// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── errors.go        # ErrNotFound, ErrDuplicateKey, ErrValidationFailed
//	├── users/           # User profiles, identity-provider upsert, onboarding
//	├── stories/         # Stories and chapters
//	├── progress/        # Reading progress upsert
//	├── translations/    # Cached translations
//	├── audio/           # Audiobooks and user recordings
//	├── edges/           # Generic toggle store for relationship edges
//	├── engagement/      # Likes, favorites, follows, library, subscriptions
//	├── stats/           # Derived author counts
//	└── maintenance/     # Orphan cleanup
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabaseFromConfig(cfg.Database)
//
//	storiesRepo := stories.NewRepository(db.DB)
//	engagementRepo := engagement.NewRepository(db.DB)
//
//	published, err := storiesRepo.ListPublishedStories(stories.DefaultListLimit)
//	liked, err := engagementRepo.LikeStory(userID, storyID)
//
// # Errors
//
// Repositories return the sentinels from errors.go, wrapped around the driver
// error, so callers match with errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) { ... }
//
// # Transactions
//
// Repositories hold a *gorm.DB, so a transaction-scoped repository is built by
// passing the transaction handle:
//
//	err := db.DB.Transaction(func(tx *gorm.DB) error {
//		return stories.NewRepository(tx).CreateStory(story)
//	})
package database
