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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/blocksweep/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewSyncCmd creates the sync command
func NewSyncCmd(build OptsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the cleaned directory into the backup directory",
		Long: `Sync copies every file from the cleaned directory into the backup
directory, preserving modification times. It never touches the network and
is safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "sync").Logger().WithContext(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			syncOp := operation.NewSyncOperation(o.OperationOptions())
			runner := operation.NewRunner(o.Logger, o.Async)
			if err := runner.Run(ctx, syncOp); err != nil {
				return errors.Errorf("mirroring cleaned files: %w", err)
			}

			files, err := o.StatusMgr.ListFiles(ctx)
			if err != nil {
				return errors.Errorf("listing tracked files: %w", err)
			}
			for _, info := range files {
				o.UserLogger.LogFileResult(info)
			}

			return nil
		},
	}

	return cmd
}
