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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_config",
			config: `
source_dir: lists
cleaned_dir: out
backup_dir: mirror
file_suffix: .list
ignore_patterns:
  - "*.bak"
  - "README*"
check:
  timeout_seconds: 5
  user_agent: test-agent/1.0
  doh_endpoints:
    - https://doh.example/dns-query
git:
  enabled: true
  commit_message: "weekly refresh"
  push: true
async: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "lists", cfg.SourceDir, "source dir should match")
				assert.Equal(t, "out", cfg.CleanedDir, "cleaned dir should match")
				assert.Equal(t, "mirror", cfg.BackupDir, "backup dir should match")
				assert.Equal(t, ".list", cfg.FileSuffix, "file suffix should match")
				assert.Len(t, cfg.IgnorePatterns, 2, "should have 2 ignore patterns")
				assert.Equal(t, 5, cfg.Check.TimeoutSeconds, "timeout should match")
				assert.Equal(t, "test-agent/1.0", cfg.Check.UserAgent, "user agent should match")
				assert.Len(t, cfg.Check.DoHEndpoints, 1, "should keep configured endpoint")
				assert.True(t, cfg.CheckEnabled(), "check should default to enabled")
				require.NotNil(t, cfg.Git, "git should not be nil")
				assert.Equal(t, "weekly refresh", cfg.Git.CommitMessage, "commit message should match")
				assert.Equal(t, "origin", cfg.Git.Remote, "remote should have default value")
				assert.Equal(t, "main", cfg.Git.Branch, "branch should have default value")
				assert.True(t, cfg.Git.Push, "push should be true")
				assert.True(t, cfg.Async, "async should be true")
			},
		},
		{
			name:   "empty_config_gets_defaults",
			config: "{}\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "domains", cfg.SourceDir, "source dir should have default value")
				assert.Equal(t, "cleaned", cfg.CleanedDir, "cleaned dir should have default value")
				assert.Equal(t, "backup", cfg.BackupDir, "backup dir should have default value")
				assert.Equal(t, ".txt", cfg.FileSuffix, "file suffix should have default value")
				assert.Equal(t, 10, cfg.Check.TimeoutSeconds, "timeout should have default value")
				assert.Len(t, cfg.Check.DoHEndpoints, 3, "should have 3 default resolvers")
				assert.True(t, cfg.CheckEnabled(), "check should default to enabled")
				assert.Nil(t, cfg.Git, "git should be nil when not configured")
			},
		},
		{
			name: "check_disabled",
			config: `
check:
  enabled: false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.CheckEnabled(), "check should be disabled")
			},
		},
		{
			name: "same_source_and_cleaned",
			config: `
source_dir: lists
cleaned_dir: lists
`,
			wantErr:     true,
			errContains: "source_dir and cleaned_dir must differ",
		},
		{
			name: "same_cleaned_and_backup",
			config: `
cleaned_dir: out
backup_dir: out
`,
			wantErr:     true,
			errContains: "cleaned_dir and backup_dir must differ",
		},
		{
			name: "negative_timeout",
			config: `
check:
  timeout_seconds: -1
`,
			wantErr:     true,
			errContains: "timeout_seconds must be positive",
		},
		{
			name:        "unknown_field",
			config:      "bogus_field: true\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp config file
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			err := os.WriteFile(path, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			logger := zerolog.New(zerolog.NewTestWriter(t))
			ctx := logger.WithContext(context.Background())

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error message should match")
				}
				return
			}

			require.NoError(t, err, "Load should succeed")
			require.NotNil(t, cfg, "config should not be nil")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadHCL(t *testing.T) {
	hclConfig := `
source_dir = "lists"
cleaned_dir = "out"
backup_dir = "mirror"

check {
  timeout_seconds = 3
}

git {
  enabled = true
  branch  = "master"
}
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.hcl")
	require.NoError(t, os.WriteFile(path, []byte(hclConfig), 0644), "writing config file should succeed")

	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cfg, err := Load(ctx, path)
	require.NoError(t, err, "Load should succeed")
	assert.Equal(t, "lists", cfg.SourceDir, "source dir should match")
	assert.Equal(t, "out", cfg.CleanedDir, "cleaned dir should match")
	assert.Equal(t, 3, cfg.Check.TimeoutSeconds, "timeout should match")
	require.NotNil(t, cfg.Git, "git block should be decoded")
	assert.True(t, cfg.Git.Enabled, "git should be enabled")
	assert.Equal(t, "master", cfg.Git.Branch, "branch should match")
	assert.Equal(t, "origin", cfg.Git.Remote, "remote should have default value")
}

func TestLoadMissingFile(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "Load should fail for missing file")
	assert.Contains(t, err.Error(), "reading config file", "error message should match")
}

func TestGetParser(t *testing.T) {
	assert.NotNil(t, GetParser("x.yaml"), "yaml should have a parser")
	assert.NotNil(t, GetParser("x.yml"), "yml should have a parser")
	assert.NotNil(t, GetParser("x.hcl"), "hcl should have a parser")
	assert.Nil(t, GetParser("x.toml"), "toml should have no parser")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "domains", cfg.SourceDir, "source dir should have default value")
	assert.Equal(t, "cleaned", cfg.CleanedDir, "cleaned dir should have default value")
	assert.Equal(t, "backup", cfg.BackupDir, "backup dir should have default value")
	assert.True(t, cfg.CheckEnabled(), "check should default to enabled")
}

func TestHash(t *testing.T) {
	a := Default()
	b := Default()
	assert.Equal(t, a.Hash(), b.Hash(), "identical configs should hash identically")

	b.SourceDir = "other"
	assert.NotEqual(t, a.Hash(), b.Hash(), "different configs should hash differently")
}
