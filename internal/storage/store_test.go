package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingReader errors after its prefix is consumed, mid-copy.
type failingReader struct {
	prefix io.Reader
}

func (r *failingReader) Read(p []byte) (int, error) {
	n, err := r.prefix.Read(p)
	if errors.Is(err, io.EOF) {
		return n, errors.New("stream interrupted")
	}
	return n, err
}

func TestStore_Save(t *testing.T) {
	t.Run("stores file under code-prefixed name", func(t *testing.T) {
		store := NewStore(t.TempDir())

		code, storedName, err := store.Save("cat.png", strings.NewReader("0123456789"))
		require.NoError(t, err)
		require.NotEmpty(t, code)
		assert.Equal(t, code+"-cat.png", storedName)

		data, err := os.ReadFile(filepath.Join(store.Dir(), storedName))
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))
	})

	t.Run("creates backing directory on demand", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "uploads", "nested")
		store := NewStore(dir)

		_, _, err := store.Save("a.txt", strings.NewReader("x"))
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("same name twice yields two distinct files", func(t *testing.T) {
		store := NewStore(t.TempDir())

		code1, _, err := store.Save("dup.bin", strings.NewReader("first"))
		require.NoError(t, err)
		code2, _, err := store.Save("dup.bin", strings.NewReader("second"))
		require.NoError(t, err)
		assert.NotEqual(t, code1, code2)

		f1, err := store.Resolve(code1)
		require.NoError(t, err)
		f2, err := store.Resolve(code2)
		require.NoError(t, err)
		assert.Equal(t, code1+"-dup.bin", f1.Name)
		assert.Equal(t, code2+"-dup.bin", f2.Name)
	})

	t.Run("empty original name is rejected", func(t *testing.T) {
		store := NewStore(t.TempDir())

		_, _, err := store.Save("", strings.NewReader("x"))
		assert.Error(t, err)
		_, _, err = store.Save("   ", strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("stored name reflects the sanitized original name", func(t *testing.T) {
		store := NewStore(t.TempDir())

		code, storedName, err := store.Save(" cat.png", strings.NewReader("meow"))
		require.NoError(t, err)
		assert.Equal(t, code+"-cat.png", storedName)

		// The returned stored name resolves; a composition from the raw
		// input would not.
		f, err := store.Resolve(storedName)
		require.NoError(t, err)
		assert.Equal(t, storedName, f.Name)
		_, err = store.Resolve(code + "- cat.png")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("path components are stripped from the name", func(t *testing.T) {
		store := NewStore(t.TempDir())

		code, storedName, err := store.Save("../../etc/passwd", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, code+"-passwd", storedName)

		f, err := store.Resolve(code)
		require.NoError(t, err)
		assert.Equal(t, code+"-passwd", f.Name)
	})

	t.Run("failed copy leaves no partial file behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(dir)

		_, _, err := store.Save("big.bin", &failingReader{prefix: strings.NewReader("partial")})
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStore_Resolve(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := NewStore(t.TempDir())

		code, storedName, err := store.Save("cat.png", strings.NewReader("0123456789"))
		require.NoError(t, err)

		f, err := store.Resolve(code)
		require.NoError(t, err)
		assert.Equal(t, storedName, f.Name)
		assert.Equal(t, int64(10), f.Size)

		r, err := f.Open()
		require.NoError(t, err)
		defer r.Close()
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))
	})

	t.Run("full stored name also resolves", func(t *testing.T) {
		store := NewStore(t.TempDir())

		_, storedName, err := store.Save("cat.png", strings.NewReader("meow"))
		require.NoError(t, err)

		f, err := store.Resolve(storedName)
		require.NoError(t, err)
		assert.Equal(t, storedName, f.Name)
	})

	t.Run("unknown code returns ErrFileNotFound", func(t *testing.T) {
		store := NewStore(t.TempDir())

		_, err := store.Resolve("no-such-code")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("missing directory returns ErrFileNotFound", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "never-created"))

		_, err := store.Resolve("whatever")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("empty code returns ErrFileNotFound", func(t *testing.T) {
		store := NewStore(t.TempDir())
		_, _, err := store.Save("a.txt", strings.NewReader("x"))
		require.NoError(t, err)

		_, err = store.Resolve("")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("prefix tie resolves to lexicographically smallest", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "abc-b.txt"), []byte("b"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "abc-a.txt"), []byte("a"), 0o644))

		f, err := store.Resolve("abc")
		require.NoError(t, err)
		assert.Equal(t, "abc-a.txt", f.Name)
	})
}
