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

package opts

import (
	"github.com/rs/zerolog"
	"github.com/walteh/blocksweep/pkg/config"
	"github.com/walteh/blocksweep/pkg/operation"
	"github.com/walteh/blocksweep/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Config is the loaded configuration
	Config *config.Config

	// Root is the directory the config file lives in; all configured
	// directories resolve relative to it
	Root string

	// Checker applies the liveness pipeline
	Checker operation.LineChecker

	// StatusMgr manages files and per-file results, rooted at Root
	StatusMgr *status.Manager

	// UserLogger prints the human-facing report
	UserLogger *status.UserLogger

	// LockPath is where run state is persisted
	LockPath string

	// Logger receives structured output
	Logger *zerolog.Logger

	// Async runs operations on their own goroutines
	Async bool
}

// OperationOptions builds the options every operation takes
func (o *RootOpts) OperationOptions() operation.Options {
	return operation.Options{
		Config:    o.Config,
		Checker:   o.Checker,
		StatusMgr: o.StatusMgr,
		LockPath:  o.LockPath,
		Logger:    o.Logger,
	}
}
