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

// Package state persists what the last blocksweep run saw and produced, so a
// later status check can tell whether anything drifted without re-probing
// the network.
package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// LockFileName is the well-known name of the state file
const LockFileName = ".blocksweep.lock"

// State is the top-level structure written to the lock file after each run
type State struct {
	LastRun time.Time `json:"last_run"`

	// ConfigHash detects whether the state was produced by the current config
	ConfigHash string `json:"config_hash"`

	// Files tracks each source file processed in the last run, keyed by its
	// basename under the source directory
	Files map[string]FileState `json:"files"`
}

// FileState records what one source file looked like and produced
type FileState struct {
	SourceChecksum  string    `json:"source_checksum"`
	CleanedChecksum string    `json:"cleaned_checksum"`
	Kept            int       `json:"kept"`
	Removed         int       `json:"removed"`
	Skipped         int       `json:"skipped"`
	LastCleaned     time.Time `json:"last_cleaned"`
}

// New returns an empty state
func New() *State {
	return &State{Files: make(map[string]FileState)}
}

// Load reads state from the lock file at path. A missing lock file is not an
// error; the first run starts from an empty state.
func Load(ctx context.Context, path string) (*State, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading state")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.Errorf("reading lock file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Errorf("parsing lock file: %w", err)
	}
	if st.Files == nil {
		st.Files = make(map[string]FileState)
	}
	return &st, nil
}

// Save writes the state to the lock file at path atomically
func (s *State) Save(ctx context.Context, path string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("writing state")

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp lock file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp lock file: %w", err)
	}
	return nil
}

// Put records the result for one source file
func (s *State) Put(name string, fs FileState) {
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	s.Files[name] = fs
}

// Get returns the recorded result for one source file
func (s *State) Get(name string) (FileState, bool) {
	fs, ok := s.Files[name]
	return fs, ok
}

// LockPath returns the conventional lock file location for a working tree
func LockPath(root string) string {
	return filepath.Join(root, LockFileName)
}
