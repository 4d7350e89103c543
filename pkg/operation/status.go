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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/blocksweep/pkg/state"
	"github.com/walteh/blocksweep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 NewStatusOperation creates a new status operation
func NewStatusOperation(opts Options) *StatusOperation {
	return &StatusOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🔍 StatusOperation is a local check: it reports, without touching the
// network, whether the cleaned and backup trees still reflect the sources
// as of the last recorded run
type StatusOperation struct {
	BaseOperation

	dirty bool
}

// Name implements Operation
func (op *StatusOperation) Name() string { return "status" }

// Dirty reports whether anything drifted since the last run. Only valid
// after Execute.
func (op *StatusOperation) Dirty() bool { return op.dirty }

// 🏃 Execute runs the status operation
func (op *StatusOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	files, err := op.listSourceFiles(ctx, op.Config.SourceDir)
	if err != nil {
		return errors.Errorf("listing source files: %w", err)
	}

	st, err := state.Load(ctx, op.LockPath)
	if err != nil {
		return errors.Errorf("loading state: %w", err)
	}

	if st.ConfigHash != "" && st.ConfigHash != op.Config.Hash() {
		logger.Info().
			Str("state_hash", st.ConfigHash).
			Str("config_hash", op.Config.Hash()).
			Msg("config has changed since the last run")
		op.dirty = true
	}

	// Start tracking progress
	op.StatusMgr.StartOperation(ctx, len(files))
	defer op.StatusMgr.FinishOperation(ctx)

	present := make(map[string]struct{}, len(files))
	for i, name := range files {
		present[name] = struct{}{}
		fileStatus, err := op.checkFile(ctx, name, st)
		if err != nil {
			return errors.Errorf("checking file %s: %w", name, err)
		}
		if fileStatus != status.StatusUnchanged {
			op.dirty = true
		}
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	// Files recorded in the lock but gone from the source tree were deleted
	// since the last run
	for name, recorded := range st.Files {
		if _, ok := present[name]; ok {
			continue
		}
		op.dirty = true
		op.StatusMgr.TrackFile(ctx, op.sourcePath(name), status.FileInfo{
			Path:    op.sourcePath(name),
			Status:  status.StatusDeleted,
			Kept:    recorded.Kept,
			Removed: recorded.Removed,
			Skipped: recorded.Skipped,
		})
	}

	return nil
}

// checkFile compares one source file and its two copies against the lock
func (op *StatusOperation) checkFile(ctx context.Context, name string, st *state.State) (status.FileStatus, error) {
	sourceContent, err := op.StatusMgr.ReadFile(ctx, op.sourcePath(name))
	if err != nil {
		return status.StatusUnknown, errors.Errorf("reading source: %w", err)
	}

	recorded, known := st.Get(name)
	fileStatus := status.StatusUnchanged
	switch {
	case !known:
		fileStatus = status.StatusNew
	case recorded.SourceChecksum != status.Checksum(sourceContent):
		fileStatus = status.StatusModified
	default:
		fileStatus = op.checkCopies(ctx, name, recorded)
	}

	op.StatusMgr.TrackFile(ctx, op.sourcePath(name), status.FileInfo{
		Path:     op.sourcePath(name),
		Status:   fileStatus,
		Size:     int64(len(sourceContent)),
		Checksum: status.Checksum(sourceContent),
		Kept:     recorded.Kept,
		Removed:  recorded.Removed,
		Skipped:  recorded.Skipped,
	})
	return fileStatus, nil
}

// checkCopies verifies the cleaned file matches the lock and the backup
// matches the cleaned file exactly
func (op *StatusOperation) checkCopies(ctx context.Context, name string, recorded state.FileState) status.FileStatus {
	cleanedContent, err := op.StatusMgr.ReadFile(ctx, op.cleanedPath(name))
	if err != nil {
		return status.StatusModified
	}
	if status.Checksum(cleanedContent) != recorded.CleanedChecksum {
		return status.StatusModified
	}

	backupContent, err := op.StatusMgr.ReadFile(ctx, op.backupPath(name))
	if err != nil {
		return status.StatusModified
	}
	if status.Checksum(backupContent) != status.Checksum(cleanedContent) {
		return status.StatusModified
	}

	return status.StatusUnchanged
}
