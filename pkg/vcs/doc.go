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

// Package vcs records finished runs in git.
//
// A run that changed nothing produces no commit: the worktree status is
// inspected after staging, and a clean tree short-circuits. Pushing is
// optional and tolerates an up-to-date remote, so scheduled runs stay
// quiet when there is nothing to publish.
package vcs
