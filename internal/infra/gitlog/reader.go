// Package gitlog reads commit history through go-git and produces the
// commit records consumed by the correlation engine.
package gitlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Reader lists commits from a repository.
type Reader struct {
	repo *git.Repository
}

// Open opens the repository at or above the given directory.
func Open(dir string) (*Reader, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return &Reader{repo: repo}, nil
}

// Recent returns up to limit commits reachable from HEAD, newest first.
func (r *Reader) Recent(ctx context.Context, limit int) ([]domain.CommitRecord, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var records []domain.CommitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if limit > 0 && len(records) >= limit {
			return storer.ErrStop
		}
		records = append(records, toRecord(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk log: %w", err)
	}
	return records, nil
}

// toRecord converts a go-git commit into a CommitRecord. Stats failures
// (e.g. on the root commit of odd repositories) degrade to an empty file
// list rather than failing the walk.
func toRecord(c *object.Commit) domain.CommitRecord {
	rec := domain.CommitRecord{
		Hash:      c.Hash.String(),
		Message:   c.Message,
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
	}
	if stats, err := c.Stats(); err == nil {
		for _, fs := range stats {
			rec.Files = append(rec.Files, fs.Name)
			rec.Insertions += fs.Addition
			rec.Deletions += fs.Deletion
		}
	}
	return rec
}
