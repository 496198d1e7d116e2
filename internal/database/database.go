package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/storyshelf/internal/config"
	"github.com/mrlokans/storyshelf/internal/entities"
)

// Models lists every persisted entity in migration order.
var Models = []any{
	&entities.User{},
	&entities.Story{},
	&entities.Chapter{},
	&entities.ReadingProgress{},
	&entities.Translation{},
	&entities.Audiobook{},
	&entities.AudioRecording{},
	&entities.UserLibrary{},
	&entities.StoryLike{},
	&entities.FavoriteStory{},
	&entities.FavoriteAuthor{},
	&entities.AuthorLike{},
	&entities.FavoriteAuthorUser{},
	&entities.AuthorLibrary{},
	&entities.FeaturedAuthor{},
	&entities.UserSubscription{},
	&entities.AudioRecordingLike{},
}

type Database struct {
	DB *gorm.DB
}

// Options controls how the connection is opened.
type Options struct {
	Driver   string
	Path     string
	DSN      string
	LogLevel logger.LogLevel
}

// NewDatabase opens a sqlite database at dbPath and migrates the schema.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(Options{Driver: config.DriverSQLite, Path: dbPath, LogLevel: logger.Warn})
}

// NewDatabaseFromConfig opens the database described by the application config.
func NewDatabaseFromConfig(cfg config.Database) (*Database, error) {
	return Open(Options{Driver: cfg.Driver, Path: cfg.Path, DSN: cfg.DSN, LogLevel: logger.Warn})
}

func Open(opts Options) (*Database, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", config.DriverSQLite:
		dialector = sqlite.Open(opts.Path)
	case config.DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	logLevel := opts.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		// Story deletes orphan dependent rows; referential checks happen in the repositories.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
