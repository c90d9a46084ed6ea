package services

import (
	"path/filepath"

	"github.com/google/uuid"
)

// GenerateObjectKey derives a remote object key for a local file: a random
// UUIDv4 plus the file's extension (including the dot, if any). The original
// filename never appears in the key, so keys cannot collide across requests
// or be enumerated.
func GenerateObjectKey(path string) string {
	return uuid.NewString() + filepath.Ext(path)
}
