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

package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	countWidth  = 30 // Width for the kept/removed counts
	statusWidth = 12 // Width for status text
)

// 🎯 FormatFileLine formats one file result for the console report
func FormatFileLine(info FileInfo) string {
	// Determine prefix symbol
	var prefix string
	switch info.Status {
	case StatusNew:
		prefix = color.GreenString("✓")
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusDeleted:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	countPart := fmt.Sprintf("%-*s", countWidth,
		fmt.Sprintf("%d kept / %d removed / %d skipped", info.Kept, info.Removed, info.Skipped))
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status.String())

	// Build final string with indentation
	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		countPart,
		statusPart,
	)
}

// 📢 UserLogger provides user-friendly feedback about a run
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileResult logs one file result with appropriate emoji and formatting
func (u *UserLogger) LogFileResult(info FileInfo) {
	var printer *pterm.PrefixPrinter
	var action string
	switch {
	case info.Error != nil:
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
		action = "Failed"
	case info.Status == StatusNew:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
		action = "Created"
	case info.Status == StatusModified:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "🔄"})
		action = "Updated"
	case info.Status == StatusDeleted:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "🗑️"})
		action = "Deleted"
	default:
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
		action = "Unchanged"
	}

	msg := fmt.Sprintf("%s %s", action, info.Path)
	if info.Kept > 0 || info.Removed > 0 || info.Skipped > 0 {
		msg += fmt.Sprintf(" (%d kept, %d removed, %d skipped)", info.Kept, info.Removed, info.Skipped)
	}

	if info.Error != nil {
		printer.Println(msg)
		pterm.Error.Println(info.Error)
		u.log.Error().Err(info.Error).Msg(msg)
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg)
	}
}

// 📊 LogRunSummary logs the summary line for a whole run
func (u *UserLogger) LogRunSummary(description string) {
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Println(description)
	u.log.Info().Msg(description)
}

// 🗒️ LogRemovedEntries lists the entries dropped during a run
func (u *UserLogger) LogRemovedEntries(entries []string) {
	if len(entries) == 0 {
		return
	}
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "🧹"}).Printf("Removed %d unreachable entries\n", len(entries))
	for _, entry := range entries {
		pterm.Debug.Printf("  - %s\n", entry)
		u.log.Debug().Str("entry", entry).Msg("removed entry")
	}
}
