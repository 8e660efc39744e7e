package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
)

// Archiver copies deck lists to remote object storage.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// DeckListStore keeps one file per (Discord user, sanitized deck name) under Dir.
type DeckListStore struct {
	Dir     string
	Archive Archiver // optional
}

func NewDeckListStore(dir string, archive Archiver) *DeckListStore {
	return &DeckListStore{Dir: dir, Archive: archive}
}

// EnsureUploadDir creates the deck-list directory if it doesn't exist
func (s *DeckListStore) EnsureUploadDir() error {
	return os.MkdirAll(filepath.Join(s.Dir, "decklists"), os.ModePerm)
}

// SanitizeDeckName turns a user-typed deck name into a safe file-name fragment.
func SanitizeDeckName(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "deck"
}

// PathFor returns where the deck list of (discordID, deckName) is stored.
func (s *DeckListStore) PathFor(discordID, deckName string) string {
	return filepath.Join(s.Dir, "decklists", fmt.Sprintf("%s_%s.txt", slug.Make(discordID), SanitizeDeckName(deckName)))
}

// Save writes the deck list to its local path and returns that path.
func (s *DeckListStore) Save(discordID, deckName string, content []byte) (string, error) {
	dest := s.PathFor(discordID, deckName)
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

// ArchiveCopy uploads a saved deck list to R2. It is a no-op without an archive.
func (s *DeckListStore) ArchiveCopy(ctx context.Context, localPath string, content []byte) (string, error) {
	if s.Archive == nil {
		return "", nil
	}
	key := "decklists/" + filepath.Base(localPath)
	url, err := s.Archive.Put(ctx, key, content, "text/plain; charset=utf-8")
	if err != nil {
		return "", fmt.Errorf("archive deck list: %w", err)
	}
	return url, nil
}
