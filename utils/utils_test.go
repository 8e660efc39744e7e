package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingArchive struct {
	keys []string
	err  error
}

func (r *recordingArchive) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.keys = append(r.keys, key)
	return "https://r2.example/" + key, nil
}

func TestSanitizeDeckName(t *testing.T) {
	assert.Equal(t, "blue-eyes-chaos-max", SanitizeDeckName("Blue-Eyes  Chaos MAX!"))
	assert.Equal(t, "deck", SanitizeDeckName("!!!"))
	assert.NotContains(t, SanitizeDeckName("../../etc/passwd"), "/")
}

func TestDeckListStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewDeckListStore(dir, nil)
	require.NoError(t, store.EnsureUploadDir())

	path, err := store.Save("1001", "My Deck", []byte("1 Card\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "decklists", "1001_my-deck.txt"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 Card\n", string(got))

	url, err := store.ArchiveCopy(context.Background(), path, got)
	require.NoError(t, err)
	assert.Empty(t, url, "no archive configured")
}

func TestDeckListStoreArchiveCopy(t *testing.T) {
	archive := &recordingArchive{}
	store := NewDeckListStore(t.TempDir(), archive)
	path, err := store.Save("1001", "My Deck", []byte("1 Card\n"))
	require.NoError(t, err)

	url, err := store.ArchiveCopy(context.Background(), path, []byte("1 Card\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://r2.example/decklists/1001_my-deck.txt", url)

	archive.err = errors.New("bucket gone")
	_, err = store.ArchiveCopy(context.Background(), path, []byte("1 Card\n"))
	assert.ErrorContains(t, err, "bucket gone")
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/deck.txt":
			_, _ = w.Write([]byte("3 Ash Blossom\n"))
		case "/big.txt":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	body, err := Download(context.Background(), srv.URL+"/deck.txt", 1024)
	require.NoError(t, err)
	assert.Equal(t, "3 Ash Blossom\n", string(body))

	_, err = Download(context.Background(), srv.URL+"/big.txt", 32)
	assert.ErrorContains(t, err, "larger than")

	_, err = Download(context.Background(), srv.URL+"/missing.txt", 1024)
	assert.ErrorContains(t, err, "unexpected status 404")
}
