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

// NewCleanCmd creates the clean command
func NewCleanCmd(build OptsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the source blocklists into the cleaned directory",
		Long: `Clean checks every entry of every source blocklist and writes the
survivors to the cleaned directory. Comments and blank lines pass through,
entries that no longer resolve or respond are dropped. The backup mirror
and git are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "clean").Logger().WithContext(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			cleanOp := operation.NewCleanOperation(o.OperationOptions())
			runner := operation.NewRunner(o.Logger, o.Async)
			if err := runner.Run(ctx, cleanOp); err != nil {
				return errors.Errorf("cleaning blocklists: %w", err)
			}

			reportRun(ctx, o, cleanOp)
			return nil
		},
	}

	return cmd
}
