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
	"github.com/walteh/blocksweep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🪞 NewSyncOperation creates a new sync operation
func NewSyncOperation(opts Options) *SyncOperation {
	return &SyncOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🪞 SyncOperation mirrors every file in the cleaned tree into the backup
// tree, unconditionally and byte-for-byte
type SyncOperation struct {
	BaseOperation
}

// Name implements Operation
func (op *SyncOperation) Name() string { return "sync" }

// 🏃 Execute runs the sync operation
func (op *SyncOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	names, err := op.StatusMgr.ListDir(ctx, op.Config.CleanedDir)
	if err != nil {
		return errors.Errorf("listing cleaned files: %w", err)
	}
	logger.Debug().Int("count", len(names)).Str("dir", op.Config.CleanedDir).Msg("mirroring cleaned files")

	if err := op.StatusMgr.CreateDir(ctx, op.Config.BackupDir); err != nil {
		return errors.Errorf("creating backup dir: %w", err)
	}

	// Start tracking progress
	op.StatusMgr.StartOperation(ctx, len(names))
	defer op.StatusMgr.FinishOperation(ctx)

	for i, name := range names {
		if err := op.mirrorFile(ctx, name); err != nil {
			return errors.Errorf("mirroring file %s: %w", name, err)
		}
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	return nil
}

// mirrorFile copies one cleaned file into the backup tree
func (op *SyncOperation) mirrorFile(ctx context.Context, name string) error {
	src := op.cleanedPath(name)
	dst := op.backupPath(name)

	srcContent, err := op.StatusMgr.ReadFile(ctx, src)
	if err != nil {
		return errors.Errorf("reading cleaned file: %w", err)
	}

	// Work out what the copy is about to do, for reporting only; the copy
	// itself happens regardless (full mirror semantics)
	fileStatus := status.StatusNew
	if existing, readErr := op.StatusMgr.ReadFile(ctx, dst); readErr == nil {
		if status.Checksum(existing) == status.Checksum(srcContent) {
			fileStatus = status.StatusUnchanged
		} else {
			fileStatus = status.StatusModified
		}
	}

	if err := op.StatusMgr.CopyFile(ctx, src, dst); err != nil {
		return errors.Errorf("copying to backup: %w", err)
	}

	op.StatusMgr.TrackFile(ctx, dst, status.FileInfo{
		Path:     dst,
		Status:   fileStatus,
		Size:     int64(len(srcContent)),
		Checksum: status.Checksum(srcContent),
	})
	return nil
}
