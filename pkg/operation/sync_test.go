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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/blocksweep/pkg/operation"
	"github.com/walteh/blocksweep/pkg/status"
)

func writeCleaned(t *testing.T, env *testEnv, name, content string) {
	t.Helper()
	dir := filepath.Join(env.root, env.cfg.CleanedDir)
	require.NoError(t, os.MkdirAll(dir, 0755), "creating cleaned dir should succeed")
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644),
		"writing cleaned fixture should succeed")
}

func TestSyncOperationMirrors(t *testing.T) {
	env := newTestEnv(t, nil)
	writeCleaned(t, env, "a.txt", "alpha.example.com\n")
	writeCleaned(t, env, "b.txt", "")

	op := operation.NewSyncOperation(env.opts)
	require.NoError(t, op.Execute(env.ctx), "sync should succeed")

	assert.Equal(t, "alpha.example.com\n", env.readFile(t, "backup", "a.txt"), "backup should match cleaned byte-for-byte")
	assert.Empty(t, env.readFile(t, "backup", "b.txt"), "empty files are mirrored too")

	info, err := env.mgr.GetFileInfo(env.ctx, "backup/a.txt")
	require.NoError(t, err, "mirrored file should be tracked")
	assert.Equal(t, status.StatusNew, info.Status, "first mirror should report new")
}

func TestSyncOperationIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	writeCleaned(t, env, "a.txt", "alpha.example.com\n")

	require.NoError(t, operation.NewSyncOperation(env.opts).Execute(env.ctx), "first sync should succeed")
	first := env.readFile(t, "backup", "a.txt")

	require.NoError(t, operation.NewSyncOperation(env.opts).Execute(env.ctx), "second sync should succeed")
	second := env.readFile(t, "backup", "a.txt")

	assert.Equal(t, first, second, "syncing twice should be idempotent")

	info, err := env.mgr.GetFileInfo(env.ctx, "backup/a.txt")
	require.NoError(t, err, "mirrored file should be tracked")
	assert.Equal(t, status.StatusUnchanged, info.Status, "second mirror should report unchanged")
}

func TestSyncOperationOverwritesStaleBackup(t *testing.T) {
	env := newTestEnv(t, nil)
	writeCleaned(t, env, "a.txt", "fresh.example.com\n")

	backupDir := filepath.Join(env.root, env.cfg.BackupDir)
	require.NoError(t, os.MkdirAll(backupDir, 0755), "creating backup dir should succeed")
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "a.txt"), []byte("stale.example.com\n"), 0644),
		"writing stale backup should succeed")

	require.NoError(t, operation.NewSyncOperation(env.opts).Execute(env.ctx), "sync should succeed")

	assert.Equal(t, "fresh.example.com\n", env.readFile(t, "backup", "a.txt"), "stale backup should be overwritten")

	info, err := env.mgr.GetFileInfo(env.ctx, "backup/a.txt")
	require.NoError(t, err, "mirrored file should be tracked")
	assert.Equal(t, status.StatusModified, info.Status, "overwrite should report modified")
}

func TestSyncOperationMissingCleanedDirFails(t *testing.T) {
	env := newTestEnv(t, nil)

	err := operation.NewSyncOperation(env.opts).Execute(env.ctx)
	require.Error(t, err, "a missing cleaned dir should fail the run")
	assert.Contains(t, err.Error(), "listing cleaned files", "error message should match")
}
