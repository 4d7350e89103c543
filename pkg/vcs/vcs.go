// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vcs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/walteh/blocksweep/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 💾 Committer records a finished run in version control
type Committer interface {
	// Commit stages the given paths and commits them. A clean worktree is
	// a no-op and returns (false, nil).
	Commit(ctx context.Context, message string, paths ...string) (bool, error)

	// Push sends the current branch to the configured remote. Already
	// up-to-date is not an error.
	Push(ctx context.Context) error
}

// 🏭 Repository is a Committer backed by a git repository on disk
type Repository struct {
	repo *git.Repository
	args *config.GitArgs
	now  func() time.Time
}

var _ Committer = (*Repository)(nil)

// 🏗️ Open opens the repository containing root
func Open(root string, args *config.GitArgs) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Errorf("opening repository at %s: %w", root, err)
	}
	return &Repository{repo: repo, args: args, now: time.Now}, nil
}

// Init creates a fresh repository at root. Used by tests and first-run
// setups where no repository exists yet.
func Init(root string, args *config.GitArgs) (*Repository, error) {
	repo, err := git.PlainInit(root, false)
	if err != nil {
		return nil, errors.Errorf("initializing repository at %s: %w", root, err)
	}
	return &Repository{repo: repo, args: args, now: time.Now}, nil
}

// 💾 Commit implements Committer
func (r *Repository) Commit(ctx context.Context, message string, paths ...string) (bool, error) {
	logger := zerolog.Ctx(ctx)

	wt, err := r.repo.Worktree()
	if err != nil {
		return false, errors.Errorf("opening worktree: %w", err)
	}

	for _, path := range paths {
		// AddWithOptions with a glob picks up deletions too, unlike Add
		// on a bare directory path.
		err := wt.AddWithOptions(&git.AddOptions{Glob: path + "/*"})
		if errors.Is(err, git.ErrGlobNoMatches) {
			continue
		}
		if err != nil {
			return false, errors.Errorf("staging %s: %w", path, err)
		}
	}

	wtStatus, err := wt.Status()
	if err != nil {
		return false, errors.Errorf("reading worktree status: %w", err)
	}

	if stagedClean(wtStatus) {
		logger.Info().Msg("nothing to commit")
		return false, nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  r.args.AuthorName,
			Email: r.args.AuthorEmail,
			When:  r.now(),
		},
	})
	if err != nil {
		return false, errors.Errorf("committing: %w", err)
	}

	logger.Info().
		Str("commit", hash.String()).
		Str("message", message).
		Msg("committed cleaned blocklists")

	return true, nil
}

// 📤 Push implements Committer
func (r *Repository) Push(ctx context.Context) error {
	refspec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", r.args.Branch, r.args.Branch))
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: r.args.Remote,
		RefSpecs:   []gitconfig.RefSpec{refspec},
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		zerolog.Ctx(ctx).Info().Str("remote", r.args.Remote).Msg("remote already up to date")
		return nil
	}
	if err != nil {
		return errors.Errorf("pushing to %s: %w", r.args.Remote, err)
	}
	return nil
}

// stagedClean reports whether nothing is staged for commit
func stagedClean(wtStatus git.Status) bool {
	for _, fileStatus := range wtStatus {
		if fileStatus.Staging != git.Unmodified && fileStatus.Staging != git.Untracked {
			return false
		}
	}
	return true
}
