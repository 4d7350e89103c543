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

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/blocksweep/cmd/blocksweep/opts"
	"github.com/walteh/blocksweep/pkg/operation"
	"github.com/walteh/blocksweep/pkg/status"
	"github.com/walteh/blocksweep/pkg/vcs"
	"gitlab.com/tozd/go/errors"
)

// OptsBuilder creates the shared options once flags are parsed
type OptsBuilder func(ctx context.Context) (*opts.RootOpts, error)

// NewRunCmd creates the run command
func NewRunCmd(build OptsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Clean every blocklist, mirror the results, and commit",
		Long: `Run performs a full maintenance pass:
1. Check every entry of every source blocklist and drop the dead ones
2. Mirror the cleaned files into the backup directory
3. Commit the cleaned and backup trees when git integration is on`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			cleanOp := operation.NewCleanOperation(o.OperationOptions())
			syncOp := operation.NewSyncOperation(o.OperationOptions())

			runner := operation.NewRunner(o.Logger, o.Async)
			if err := runner.Run(ctx, cleanOp, syncOp); err != nil {
				return errors.Errorf("running maintenance pass: %w", err)
			}

			reportRun(ctx, o, cleanOp)

			if o.Config.Git != nil && o.Config.Git.Enabled {
				if err := commitRun(ctx, o); err != nil {
					return errors.Errorf("recording run in git: %w", err)
				}
			}

			return nil
		},
	}

	return cmd
}

// reportRun prints the per-file results and the run summary. Only the
// cleaned-tree entries are reported: after a full run the tracker also
// holds the backup mirrors, which would double every list file.
func reportRun(ctx context.Context, o *opts.RootOpts, cleanOp *operation.CleanOperation) {
	files, err := o.StatusMgr.ListFiles(ctx)
	if err != nil {
		o.Logger.Warn().Err(err).Msg("listing tracked files")
		return
	}
	files = cleanedFiles(files, o.Config.CleanedDir)

	var kept, removed, skipped int
	for _, info := range files {
		o.UserLogger.LogFileResult(info)
		kept += info.Kept
		removed += info.Removed
		skipped += info.Skipped
	}

	o.UserLogger.LogRemovedEntries(cleanOp.RemovedEntries())
	o.UserLogger.LogRunSummary(fmt.Sprintf(
		"Processed %d files: %d entries kept, %d removed, %d skipped",
		len(files), kept, removed, skipped))
}

// cleanedFiles selects the tracked entries living under the cleaned tree
func cleanedFiles(files []status.FileInfo, cleanedDir string) []status.FileInfo {
	prefix := cleanedDir + string(filepath.Separator)
	var out []status.FileInfo
	for _, info := range files {
		if strings.HasPrefix(info.Path, prefix) {
			out = append(out, info)
		}
	}
	return out
}

// commitRun stages the cleaned and backup trees and commits them
func commitRun(ctx context.Context, o *opts.RootOpts) error {
	repo, err := vcs.Open(o.Root, o.Config.Git)
	if err != nil {
		return err
	}

	committed, err := repo.Commit(ctx, o.Config.Git.CommitMessage,
		o.Config.CleanedDir, o.Config.BackupDir)
	if err != nil {
		return err
	}

	if committed && o.Config.Git.Push {
		if err := repo.Push(ctx); err != nil {
			return err
		}
	}

	return nil
}
