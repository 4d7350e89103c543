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
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/blocksweep/pkg/checker"
	"github.com/walteh/blocksweep/pkg/state"
	"github.com/walteh/blocksweep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧹 NewCleanOperation creates a new clean operation
func NewCleanOperation(opts Options) *CleanOperation {
	return &CleanOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🧹 CleanOperation filters every source list file through the checker and
// writes the survivors into the cleaned tree
type CleanOperation struct {
	BaseOperation

	removed []string
}

// Name implements Operation
func (op *CleanOperation) Name() string { return "clean" }

// 🏃 Execute runs the clean operation
func (op *CleanOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	files, err := op.listSourceFiles(ctx, op.Config.SourceDir)
	if err != nil {
		return errors.Errorf("listing source files: %w", err)
	}
	logger.Debug().Int("count", len(files)).Str("dir", op.Config.SourceDir).Msg("cleaning list files")

	// Load run state
	st, err := state.Load(ctx, op.LockPath)
	if err != nil {
		return errors.Errorf("loading state: %w", err)
	}

	if err := op.StatusMgr.CreateDir(ctx, op.Config.CleanedDir); err != nil {
		return errors.Errorf("creating cleaned dir: %w", err)
	}

	// Start tracking progress
	op.StatusMgr.StartOperation(ctx, len(files))
	defer op.StatusMgr.FinishOperation(ctx)

	for i, name := range files {
		fileState, err := op.cleanFile(ctx, name)
		if err != nil {
			return errors.Errorf("cleaning file %s: %w", name, err)
		}
		st.Put(name, fileState)
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	// Save run state
	st.LastRun = time.Now().UTC()
	st.ConfigHash = op.Config.Hash()
	if err := st.Save(ctx, op.LockPath); err != nil {
		return errors.Errorf("saving state: %w", err)
	}

	return nil
}

// 🗑️ RemovedEntries lists the entries dropped across all files, in order
func (op *CleanOperation) RemovedEntries() []string {
	return op.removed
}

// cleanFile filters one source file into the cleaned tree
func (op *CleanOperation) cleanFile(ctx context.Context, name string) (state.FileState, error) {
	content, err := op.StatusMgr.ReadFile(ctx, op.sourcePath(name))
	if err != nil {
		return state.FileState{}, errors.Errorf("reading source: %w", err)
	}

	cleaned, info := op.filterLines(ctx, string(content))

	// Only rewrite the cleaned file when its content actually changed, so
	// unchanged files keep their mod times across runs
	fileStatus := status.StatusNew
	newChecksum := status.Checksum([]byte(cleaned))
	if existing, readErr := op.StatusMgr.ReadFile(ctx, op.cleanedPath(name)); readErr == nil {
		if status.Checksum(existing) == newChecksum {
			fileStatus = status.StatusUnchanged
		} else {
			fileStatus = status.StatusModified
		}
	}
	if fileStatus != status.StatusUnchanged {
		if err := op.StatusMgr.WriteFile(ctx, op.cleanedPath(name), []byte(cleaned)); err != nil {
			return state.FileState{}, errors.Errorf("writing cleaned file: %w", err)
		}
	}

	info.Path = op.cleanedPath(name)
	info.Status = fileStatus
	info.Size = int64(len(cleaned))
	info.Checksum = newChecksum
	op.StatusMgr.TrackFile(ctx, info.Path, info)

	return state.FileState{
		SourceChecksum:  status.Checksum(content),
		CleanedChecksum: newChecksum,
		Kept:            info.Kept,
		Removed:         info.Removed,
		Skipped:         info.Skipped,
		LastCleaned:     time.Now().UTC(),
	}, nil
}

// filterLines applies the checker to every line of a file. With checking
// disabled it degrades to format-only cleaning: comments and blanks are
// stripped, everything else is kept as-is.
func (op *CleanOperation) filterLines(ctx context.Context, content string) (string, status.FileInfo) {
	lines := strings.Split(content, "\n")
	// A trailing newline yields one empty trailing element, not a blank line
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var info status.FileInfo
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if !op.Config.CheckEnabled() {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			kept = append(kept, line)
			info.Kept++
			continue
		}

		result, out := op.Checker.CheckLine(ctx, line)
		switch result {
		case checker.ResultPassthrough:
			kept = append(kept, out)
		case checker.ResultSkipped:
			kept = append(kept, out)
			info.Skipped++
		case checker.ResultKept:
			kept = append(kept, out)
			info.Kept++
		case checker.ResultRemoved:
			info.Removed++
			op.removed = append(op.removed, strings.TrimSpace(line))
		}
	}

	out := strings.Join(kept, "\n")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, info
}
