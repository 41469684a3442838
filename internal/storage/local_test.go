package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveExistsDelete(t *testing.T) {
	// 1. Подготовка
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "http://localhost:3000/files/"})
	require.NoError(t, err)
	ctx := context.Background()
	key := "candidates/abc/resume/file.pdf"

	// 2. Действие
	require.NoError(t, s.Save(ctx, key, strings.NewReader("%PDF-1.4"), "application/pdf"))

	// 3. Проверка
	content, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := s.GetSignedURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/files/candidates/abc/resume/file.pdf", url)

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, "../etc/passwd", strings.NewReader("x"), ""), ErrInvalidKey)
	assert.ErrorIs(t, s.Save(ctx, "", strings.NewReader("x"), ""), ErrInvalidKey)
	_, err = s.Exists(ctx, "a/../../b")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStorage_DefaultURL(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	url, err := s.GetURL(context.Background(), "/candidates/abc/photo/me.jpg")

	require.NoError(t, err)
	assert.Equal(t, "/files/candidates/abc/photo/me.jpg", url)
	assert.Equal(t, ProviderLocal, s.Provider())
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Candidate", "abc", "resume", "My CV.PDF")

	assert.True(t, strings.HasPrefix(key, "candidates/abc/resume/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotContains(t, key, "My CV")

	assert.False(t, strings.Contains(ObjectKey("Candidate", "abc", "photo", "x.averyveryverylongext"), "averyvery"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})

	assert.EqualError(t, err, "unsupported storage type: ftp")
}
