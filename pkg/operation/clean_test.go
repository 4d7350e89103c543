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

package operation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/blocksweep/pkg/operation"
	"github.com/walteh/blocksweep/pkg/state"
	"github.com/walteh/blocksweep/pkg/status"
)

func TestCleanOperation(t *testing.T) {
	env := newTestEnv(t, map[string]bool{
		"live.example.com":              true,
		"https://ads.example.com/pixel": true,
	})
	env.writeSource(t, "blocklist.txt", strings.Join([]string{
		"# trackers",
		"",
		"live.example.com",
		"dead.example.com",
		"||rule.example.com^",
		"https://ads.example.com/pixel",
		"",
	}, "\n"))

	op := operation.NewCleanOperation(env.opts)
	require.NoError(t, op.Execute(env.ctx), "clean should succeed")

	cleaned := env.readFile(t, "cleaned", "blocklist.txt")
	assert.Equal(t, strings.Join([]string{
		"# trackers",
		"",
		"live.example.com",
		"||rule.example.com^",
		"https://ads.example.com/pixel",
		"",
	}, "\n"), cleaned, "dead entry should be dropped, everything else preserved in order")

	assert.Equal(t, []string{"dead.example.com"}, op.RemovedEntries(), "removed entries should be reported")

	// Cleaned output must be a subset of the source lines
	sourceLines := map[string]struct{}{}
	for _, line := range strings.Split(env.readFile(t, "domains", "blocklist.txt"), "\n") {
		sourceLines[strings.TrimSpace(line)] = struct{}{}
	}
	for _, line := range strings.Split(cleaned, "\n") {
		_, ok := sourceLines[strings.TrimSpace(line)]
		assert.True(t, ok, "cleaned line %q should come from the source", line)
	}
}

func TestCleanOperationRecordsState(t *testing.T) {
	env := newTestEnv(t, map[string]bool{"live.example.com": true})
	env.writeSource(t, "blocklist.txt", "live.example.com\ndead.example.com\n")

	op := operation.NewCleanOperation(env.opts)
	require.NoError(t, op.Execute(env.ctx), "clean should succeed")

	st, err := state.Load(env.ctx, env.opts.LockPath)
	require.NoError(t, err, "loading state should succeed")
	assert.Equal(t, env.cfg.Hash(), st.ConfigHash, "config hash should be recorded")
	assert.False(t, st.LastRun.IsZero(), "last run should be recorded")

	fs, ok := st.Get("blocklist.txt")
	require.True(t, ok, "file state should be recorded")
	assert.Equal(t, 1, fs.Kept, "kept count should be recorded")
	assert.Equal(t, 1, fs.Removed, "removed count should be recorded")
}

func TestCleanOperationAllDeadWritesEmptyFile(t *testing.T) {
	env := newTestEnv(t, nil)
	env.writeSource(t, "blocklist.txt", "dead-a.example.com\ndead-b.example.com\n")

	op := operation.NewCleanOperation(env.opts)
	require.NoError(t, op.Execute(env.ctx), "clean should succeed")

	assert.Empty(t, env.readFile(t, "cleaned", "blocklist.txt"), "all-dead source should produce an empty cleaned file")
	assert.Len(t, op.RemovedEntries(), 2, "both entries should be reported removed")
}

func TestCleanOperationSecondRunUnchanged(t *testing.T) {
	env := newTestEnv(t, map[string]bool{"live.example.com": true})
	env.writeSource(t, "blocklist.txt", "live.example.com\n")

	require.NoError(t, operation.NewCleanOperation(env.opts).Execute(env.ctx), "first clean should succeed")
	require.NoError(t, operation.NewCleanOperation(env.opts).Execute(env.ctx), "second clean should succeed")

	info, err := env.mgr.GetFileInfo(env.ctx, "cleaned/blocklist.txt")
	require.NoError(t, err, "cleaned file should be tracked")
	assert.Equal(t, status.StatusUnchanged, info.Status, "identical input should report unchanged")
}

func TestCleanOperationRespectsSuffixAndIgnores(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cfg.IgnorePatterns = []string{"draft-*"}
	env.writeSource(t, "blocklist.txt", "")
	env.writeSource(t, "draft-list.txt", "dead.example.com\n")
	env.writeSource(t, "notes.md", "not a list\n")

	op := operation.NewCleanOperation(env.opts)
	require.NoError(t, op.Execute(env.ctx), "clean should succeed")

	files, err := env.mgr.ListFiles(env.ctx)
	require.NoError(t, err, "listing tracked files should succeed")
	require.Len(t, files, 1, "only the matching file should be processed")
	assert.Equal(t, "cleaned/blocklist.txt", files[0].Path, "draft and non-txt files should be skipped")
}

func TestCleanOperationCheckDisabledStripsComments(t *testing.T) {
	env := newTestEnv(t, nil)
	enabled := false
	env.cfg.Check.Enabled = &enabled
	env.writeSource(t, "blocklist.txt", "# comment\n\nkeep.example.com\nalso-kept.example.com\n")

	op := operation.NewCleanOperation(env.opts)
	require.NoError(t, op.Execute(env.ctx), "clean should succeed")

	cleaned := env.readFile(t, "cleaned", "blocklist.txt")
	assert.Equal(t, "keep.example.com\nalso-kept.example.com\n", cleaned,
		"disabled checking should strip comments and blanks but probe nothing")
	assert.Equal(t, 0, env.check.Checked(), "no entry should be probed with checking disabled")
}

func TestCleanOperationMissingSourceDirFails(t *testing.T) {
	env := newTestEnv(t, nil)
	env.cfg.SourceDir = "does-not-exist"

	err := operation.NewCleanOperation(env.opts).Execute(env.ctx)
	require.Error(t, err, "a missing source dir should fail the run")
	assert.Contains(t, err.Error(), "listing", "error message should match")
}
