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
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/blocksweep/pkg/operation"
	"github.com/walteh/blocksweep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates the status command
func NewStatusCmd(build OptsBuilder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the cleaned and backup trees are up to date",
		Long: `Status compares the source blocklists against the last recorded run
without touching the network. It exits non-zero when anything drifted:
a source changed, a cleaned file was edited, or a backup no longer
matches its cleaned counterpart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			o, err := build(ctx)
			if err != nil {
				return err
			}

			statusOp := operation.NewStatusOperation(o.OperationOptions())
			if err := statusOp.Execute(ctx); err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			files, err := o.StatusMgr.ListFiles(ctx)
			if err != nil {
				return errors.Errorf("listing tracked files: %w", err)
			}
			for _, info := range files {
				fmt.Println(status.FormatFileLine(info))
			}

			if statusOp.Dirty() {
				return errors.New("cleaned or backup files are out of date, run `blocksweep run`")
			}

			o.UserLogger.LogRunSummary("Everything up to date")
			return nil
		},
	}

	return cmd
}
