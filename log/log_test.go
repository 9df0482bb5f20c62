package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuffix(t *testing.T) {
	cases := map[int]int{1: 0, 9: 0, 10: 1, 19: 1, 20: 2, 31: 2}
	for day, want := range cases {
		d := time.Date(2026, time.January, day, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, want, Suffix(d), "day %d", day)
	}
}

func TestRotateRemovesNextFile(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, KindStd+"-"+string(rune('0'+i))+".log")
		require.NoError(t, os.WriteFile(p, []byte("old"), 0o644))
	}

	require.NoError(t, Rotate(dir, KindStd, 2))

	_, err := os.Stat(filepath.Join(dir, "stdlog-0.log"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(dir, "stdlog-1.log"))
	assert.FileExists(t, filepath.Join(dir, "stdlog-2.log"))

	// nothing left to remove is not an error
	require.NoError(t, Rotate(dir, KindStd, 2))
}

func TestNewWritesFiles(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := New(Config{Level: "debug", Dir: dir})
	require.NoError(t, err)

	logger.Info("label printed")
	logger.Error("printer not found")
	require.NoError(t, closeFn())

	now := time.Now()
	std, err := os.ReadFile(FilePath(dir, KindStd, now))
	require.NoError(t, err)
	assert.Contains(t, string(std), "label printed")
	assert.Contains(t, string(std), "printer not found")

	errs, err := os.ReadFile(FilePath(dir, KindError, now))
	require.NoError(t, err)
	assert.NotContains(t, string(errs), "label printed")
	assert.Contains(t, string(errs), "printer not found")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWithoutOutputsIsNop(t *testing.T) {
	logger, closeFn, err := New(Config{})
	require.NoError(t, err)
	logger.Info("dropped")
	assert.NoError(t, closeFn())
}
