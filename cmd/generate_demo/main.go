// Command generate_demo writes a sqlite database pre-filled with the demo
// dataset, replacing any file already at the target path.
//
//	go run ./cmd/generate_demo -db demo/demo.db
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mrlokans/storyshelf/internal/database"
	"github.com/mrlokans/storyshelf/internal/logger"
	"github.com/mrlokans/storyshelf/internal/seed"
)

func main() {
	dbPath := flag.String("db", filepath.Join("demo", "demo.db"), "output database file")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: "info", Encoding: "console"})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := generate(*dbPath, log); err != nil {
		log.Fatal("demo database generation failed", zap.String("path", *dbPath), zap.Error(err))
	}
}

func generate(path string, log *zap.Logger) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	db, err := database.NewDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	seeder, err := seed.New(db.DB, log)
	if err != nil {
		return err
	}
	res, err := seeder.Run(context.Background())
	if err != nil {
		return err
	}

	log.Info("demo database ready",
		zap.String("path", path),
		zap.Int("stories", res.Stories),
		zap.Int("chapters", res.Chapters))
	return nil
}
