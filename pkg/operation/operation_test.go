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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/walteh/blocksweep/pkg/checker"
	"github.com/walteh/blocksweep/pkg/config"
	"github.com/walteh/blocksweep/pkg/operation"
	"github.com/walteh/blocksweep/pkg/state"
	"github.com/walteh/blocksweep/pkg/status"
)

// 🧪 tableChecker classifies lines for real but answers liveness from a
// fixed table, keyed by the trimmed entry text
type tableChecker struct {
	live    map[string]bool
	checked map[string]struct{}
}

func newTableChecker(live map[string]bool) *tableChecker {
	return &tableChecker{live: live, checked: make(map[string]struct{})}
}

func (c *tableChecker) CheckLine(ctx context.Context, raw string) (checker.Result, string) {
	entry := checker.Classify(raw)
	switch entry.Kind {
	case checker.KindBlank, checker.KindComment:
		return checker.ResultPassthrough, entry.Raw
	case checker.KindUnparseable:
		return checker.ResultSkipped, entry.Raw
	}
	c.checked[strings.ToLower(entry.Text)] = struct{}{}
	if c.live[entry.Text] {
		return checker.ResultKept, entry.Text
	}
	return checker.ResultRemoved, ""
}

func (c *tableChecker) Checked() int { return len(c.checked) }

// 🧪 testEnv is the shared fixture for operation tests
type testEnv struct {
	ctx   context.Context
	root  string
	cfg   *config.Config
	check *tableChecker
	mgr   *status.Manager
	opts  operation.Options
}

func newTestEnv(t *testing.T, live map[string]bool) *testEnv {
	root := t.TempDir()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	cfg := config.Default()
	require.NoError(t, os.MkdirAll(filepath.Join(root, cfg.SourceDir), 0755), "creating source dir should succeed")

	check := newTableChecker(live)
	mgr := status.New(root, &logger)

	return &testEnv{
		ctx:   ctx,
		root:  root,
		cfg:   cfg,
		check: check,
		mgr:   mgr,
		opts: operation.Options{
			Config:    cfg,
			Checker:   check,
			StatusMgr: mgr,
			LockPath:  state.LockPath(root),
			Logger:    &logger,
		},
	}
}

func (e *testEnv) writeSource(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.root, e.cfg.SourceDir, name), []byte(content), 0644),
		"writing source fixture should succeed")
}

func (e *testEnv) readFile(t *testing.T, parts ...string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(append([]string{e.root}, parts...)...))
	require.NoError(t, err, "reading %v should succeed", parts)
	return string(content)
}
