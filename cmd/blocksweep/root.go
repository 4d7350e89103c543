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

package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/blocksweep/cmd/blocksweep/commands"
	"github.com/walteh/blocksweep/cmd/blocksweep/opts"
	"github.com/walteh/blocksweep/pkg/checker"
	"github.com/walteh/blocksweep/pkg/config"
	"github.com/walteh/blocksweep/pkg/state"
	"github.com/walteh/blocksweep/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// defaultConfigFile is looked for in the working directory when --config
// is not given
const defaultConfigFile = ".blocksweep.yaml"

var (
	// Flags
	configFile string
	debugFlag  bool
	async      bool
)

// NewRootCmd creates the blocksweep root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blocksweep",
		Short:         "Keep URL blocklists alive: drop dead entries, mirror the result, commit it",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	addRootFlags(cmd)

	// Bare `blocksweep` behaves like `blocksweep run`.
	runCmd := commands.NewRunCmd(newRootOpts)
	cmd.RunE = runCmd.RunE

	cmd.AddCommand(runCmd)
	cmd.AddCommand(commands.NewCleanCmd(newRootOpts))
	cmd.AddCommand(commands.NewSyncCmd(newRootOpts))
	cmd.AddCommand(commands.NewStatusCmd(newRootOpts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	logger := zerolog.Ctx(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	absConfig, err := filepath.Abs(configFile)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	root := filepath.Dir(absConfig)

	var check *checker.Checker
	if cfg.CheckEnabled() {
		check = checker.New(checker.Options{
			Timeout:       time.Duration(cfg.Check.TimeoutSeconds) * time.Second,
			UserAgent:     cfg.Check.UserAgent,
			DoHEndpoints:  cfg.Check.DoHEndpoints,
			MaxCNAMEDepth: cfg.Check.MaxCNAMEDepth,
		})
	}

	return &opts.RootOpts{
		Config:     cfg,
		Root:       root,
		Checker:    check,
		StatusMgr:  status.New(root, logger),
		UserLogger: status.NewUserLogger(ctx),
		LockPath:   state.LockPath(root),
		Logger:     logger,
		Async:      async,
	}, nil
}

// loadConfig reads the configured file. A missing file at the default path
// is not an error: the zero-config layout (domains/cleaned/backup in the
// working directory) runs on pure defaults.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if configFile == defaultConfigFile {
		if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
			zerolog.Ctx(ctx).Debug().Msg("no config file found, using defaults")
			return config.Default(), nil
		}
	}
	return config.Load(ctx, configFile)
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigFile, "config file path")
	cmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&async, "async", false, "run operations asynchronously")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
