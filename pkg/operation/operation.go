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
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/blocksweep/pkg/checker"
	"github.com/walteh/blocksweep/pkg/config"
	"github.com/walteh/blocksweep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a single step of the pipeline
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔌 LineChecker decides the fate of a single raw line
type LineChecker interface {
	CheckLine(ctx context.Context, raw string) (checker.Result, string)
	Checked() int
}

// 🔧 Options contains configuration for operations
type Options struct {
	// Config is the blocksweep configuration
	Config *config.Config
	// Checker applies the liveness pipeline to lines
	Checker LineChecker
	// StatusMgr manages files and per-file results
	StatusMgr *status.Manager
	// LockPath is where run state is persisted
	LockPath string
	// Logger receives structured output
	Logger *zerolog.Logger
}

// 🏗️ BaseOperation provides the shared fields for all operations
type BaseOperation struct {
	Config    *config.Config
	Checker   LineChecker
	StatusMgr *status.Manager
	LockPath  string
	Logger    *zerolog.Logger
}

// 🏭 NewBaseOperation creates a new base operation
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{
		Config:    opts.Config,
		Checker:   opts.Checker,
		StatusMgr: opts.StatusMgr,
		LockPath:  opts.LockPath,
		Logger:    opts.Logger,
	}
}

// 📂 listSourceFiles returns the basenames of the list files to process,
// sorted, with the configured suffix and not matching any ignore pattern.
func (op *BaseOperation) listSourceFiles(ctx context.Context, dir string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	all, err := op.StatusMgr.ListDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range all {
		if !strings.HasSuffix(name, op.Config.FileSuffix) {
			continue
		}
		ignored, err := op.isIgnored(name)
		if err != nil {
			return nil, err
		}
		if ignored {
			logger.Debug().Str("file", name).Msg("file matches ignore pattern, skipping")
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// 🙈 isIgnored checks a file name against the configured ignore patterns
func (op *BaseOperation) isIgnored(name string) (bool, error) {
	for _, pattern := range op.Config.IgnorePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, errors.Errorf("matching ignore pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// sourcePath, cleanedPath and backupPath name the three homes of a list file
func (op *BaseOperation) sourcePath(name string) string {
	return filepath.Join(op.Config.SourceDir, name)
}

func (op *BaseOperation) cleanedPath(name string) string {
	return filepath.Join(op.Config.CleanedDir, name)
}

func (op *BaseOperation) backupPath(name string) string {
	return filepath.Join(op.Config.BackupDir, name)
}
