package status

import (
	"fmt"
)

// FileFormatter defines how file results and progress should be formatted
type FileFormatter interface {
	// FormatFileResult formats the result of cleaning or mirroring one file
	FormatFileResult(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileResult formats a file result message with emojis
func (f *DefaultFileFormatter) FormatFileResult(info FileInfo) string {
	counts := ""
	if info.Kept > 0 || info.Removed > 0 || info.Skipped > 0 {
		counts = fmt.Sprintf(" (%d kept, %d removed, %d skipped)", info.Kept, info.Removed, info.Skipped)
	}

	switch info.Status {
	case StatusNew:
		return fmt.Sprintf("✨ Created %s%s", info.Path, counts)
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s%s", info.Path, counts)
	case StatusDeleted:
		return fmt.Sprintf("🗑️  Removed %s", info.Path)
	case StatusUnchanged:
		return fmt.Sprintf("👍 Unchanged %s%s", info.Path, counts)
	default:
		return fmt.Sprintf("❌ Failed %s", info.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
