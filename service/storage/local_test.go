package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal ISO base media header with an isom major brand
var mp4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2")

func newLocal(t *testing.T) (IService, string) {
	t.Helper()
	settings := config.Defaults()
	settings.UploadsFolder = filepath.Join(t.TempDir(), "uploads")
	return NewLocal(config.NewStatic(settings)), settings.UploadsFolder
}

func TestStoreMp4(t *testing.T) {
	svc, folder := newLocal(t)
	content := append(append([]byte{}, mp4Header...), bytes.Repeat([]byte{0x42}, 10000)...)

	path, err := svc.StoreFile("clip.mp4", bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, folder, filepath.Dir(path))
	assert.Equal(t, ".mp4", filepath.Ext(path))

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestStoreRejectsNonVideo(t *testing.T) {
	svc, folder := newLocal(t)

	_, err := svc.StoreFile("notes.mp4", strings.NewReader("just some text pretending to be a video"))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.StoreFile("empty.mp4", bytes.NewReader(nil))
	assert.ErrorIs(t, err, model.ErrValidation)

	_, statErr := os.Stat(folder)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemove(t *testing.T) {
	svc, _ := newLocal(t)

	path, err := svc.StoreFile("clip.mp4", bytes.NewReader(mp4Header))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	assert.NoError(t, svc.Remove(path))
}
