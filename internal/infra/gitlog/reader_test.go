package gitlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// initRepo creates a repository with one commit per message, oldest first.
func initRepo(t *testing.T, messages ...string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, msg := range messages {
		name := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(name, []byte(msg), 0o600))
		_, err := wt.Add("file.txt")
		require.NoError(t, err)
		_, err = wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "Dev",
				Email: "dev@example.com",
				When:  when.Add(time.Duration(i) * time.Minute),
			},
		})
		require.NoError(t, err)
	}
	return dir
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.ErrorIs(t, err, domain.ErrNotGitRepository)
}

func TestOpen_DetectsFromSubdirectory(t *testing.T) {
	dir := initRepo(t, "initial commit")
	sub := filepath.Join(dir, "internal", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	reader, err := Open(sub)
	require.NoError(t, err)

	records, err := reader.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRecent_NewestFirst(t *testing.T) {
	dir := initRepo(t, "first", "second", "third")
	reader, err := Open(dir)
	require.NoError(t, err)

	records, err := reader.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].Message)
	assert.Equal(t, "first", records[2].Message)
}

func TestRecent_HonorsLimit(t *testing.T) {
	dir := initRepo(t, "first", "second", "third")
	reader, err := Open(dir)
	require.NoError(t, err)

	records, err := reader.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Message)
	assert.Equal(t, "second", records[1].Message)
}

func TestRecent_RecordFields(t *testing.T) {
	dir := initRepo(t, "task 7: add exporter")
	reader, err := Open(dir)
	require.NoError(t, err)

	records, err := reader.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Len(t, rec.Hash, 40)
	assert.Equal(t, "task 7: add exporter", rec.Message)
	assert.Equal(t, "Dev", rec.Author)
	assert.False(t, rec.Timestamp.IsZero())
	assert.Contains(t, rec.Files, "file.txt")
	assert.Positive(t, rec.Insertions)
}

func TestRecent_CancelledContext(t *testing.T) {
	dir := initRepo(t, "first")
	reader, err := Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.Recent(ctx, 0)
	require.Error(t, err)
}
