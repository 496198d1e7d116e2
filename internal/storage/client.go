// Package storage uploads narration audio to object storage. Only the returned
// URL is persisted by the application; audio bytes never reach the database.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNotConfigured is returned when no bucket has been configured.
var ErrNotConfigured = errors.New("object storage is not configured")

// Client defines the object storage operations used for narrations.
type Client interface {
	// Upload writes content under key and returns its public URL.
	Upload(ctx context.Context, key string, content io.ReadSeeker, contentType string) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}

// JoinURL appends key to a base URL, normalizing slashes.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path.Clean("/"+key), "/")
}

// ContentTypeFor guesses an audio content type from a file extension.
func ContentTypeFor(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp3":
		return "audio/mpeg"
	case "m4a", "mp4":
		return "audio/mp4"
	case "ogg", "oga":
		return "audio/ogg"
	case "wav":
		return "audio/wav"
	case "webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
