package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/osvaldoandrade/jsonlvalidate/internal/domain"
)

var ErrNotInRepository = errors.New("path is not inside a git work tree")

// Locator discovers the git work tree that contains a schema file.
type Locator struct{}

func (Locator) Locate(ctx context.Context, path string) (domain.Worktree, error) {
	if err := ctx.Err(); err != nil {
		return domain.Worktree{}, err
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return domain.Worktree{}, fmt.Errorf("%w: %s", ErrNotInRepository, path)
		}
		return domain.Worktree{}, fmt.Errorf("open git repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return domain.Worktree{}, fmt.Errorf("%w: %s is in a bare repository", ErrNotInRepository, path)
		}
		return domain.Worktree{}, fmt.Errorf("open worktree: %w", err)
	}

	result := domain.Worktree{Root: worktree.Filesystem.Root()}
	ref, err := repo.Head()
	if err == nil {
		result.Head = ref.Hash().String()
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) && !errors.Is(err, plumbing.ErrObjectNotFound) {
		return domain.Worktree{}, fmt.Errorf("read HEAD: %w", err)
	}
	return result, nil
}
