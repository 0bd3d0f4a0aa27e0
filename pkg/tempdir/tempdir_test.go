package tempdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWith_RemovesDirOnSuccess(t *testing.T) {
	root := t.TempDir()
	var seen string

	err := With(root, "req-*", func(dir string) error {
		seen = dir
		return os.WriteFile(filepath.Join(dir, "abc.mp4"), []byte("data"), 0o600)
	})

	require.NoError(t, err)
	assert.Equal(t, root, filepath.Dir(seen))
	assert.NoDirExists(t, seen)
}

func TestWith_RemovesDirOnError(t *testing.T) {
	root := t.TempDir()
	wantErr := errors.New("send failed")
	var seen string

	err := With(root, "req-*", func(dir string) error {
		seen = dir
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.NoDirExists(t, seen)
}

func TestWith_RemovesDirOnPanic(t *testing.T) {
	root := t.TempDir()
	var seen string

	assert.Panics(t, func() {
		_ = With(root, "req-*", func(dir string) error {
			seen = dir
			panic("boom")
		})
	})
	assert.NoDirExists(t, seen)
}

func TestWith_UniquePerCall(t *testing.T) {
	root := t.TempDir()
	var first, second string

	require.NoError(t, With(root, "req-*", func(dir string) error {
		first = dir
		return With(root, "req-*", func(inner string) error {
			second = inner
			return nil
		})
	}))

	assert.NotEqual(t, first, second)
}

func TestWith_MissingRoot(t *testing.T) {
	called := false
	err := With(filepath.Join(t.TempDir(), "missing"), "req-*", func(string) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}
