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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"run", "clean", "sync", "status", "version"} {
		assert.Contains(t, names, want, "root command should register %s", want)
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag, "config flag should be registered")
	assert.Equal(t, ".blocksweep.yaml", flag.DefValue, "config flag default should match")

	require.NotNil(t, cmd.PersistentFlags().Lookup("debug"), "debug flag should be registered")
	require.NotNil(t, cmd.PersistentFlags().Lookup("async"), "async flag should be registered")
}

// chdir moves into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err, "reading working directory should succeed")
	require.NoError(t, os.Chdir(dir), "changing directory should succeed")
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestNewRootOptsZeroConfig(t *testing.T) {
	chdir(t, t.TempDir())

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	o, err := newRootOpts(ctx)
	require.NoError(t, err, "a missing default config file should fall back to defaults")
	assert.Equal(t, "domains", o.Config.SourceDir, "source dir should default")
	assert.Equal(t, "cleaned", o.Config.CleanedDir, "cleaned dir should default")
	assert.Equal(t, "backup", o.Config.BackupDir, "backup dir should default")
}

func TestZeroConfigClean(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "domains"), 0755), "creating source dir should succeed")
	require.NoError(t, os.WriteFile(filepath.Join(root, "domains", "blocklist.txt"),
		[]byte("# trackers\n\n"), 0644), "writing source fixture should succeed")
	chdir(t, root)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"clean"})
	require.NoError(t, cmd.ExecuteContext(ctx), "a zero-config clean should succeed")

	content, err := os.ReadFile(filepath.Join(root, "cleaned", "blocklist.txt"))
	require.NoError(t, err, "cleaned file should be written")
	assert.Equal(t, "# trackers\n", string(content), "comments should pass through untouched")
}

func TestFormatVersion(t *testing.T) {
	out := FormatVersion()
	assert.Contains(t, out, "blocksweep version info", "version output should name the binary")
	assert.Contains(t, out, "Go:", "version output should include the Go version")
}
