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

package checker

import (
	"net/url"
	"strings"
)

// 🏷️ EntryKind classifies a raw blocklist line
type EntryKind int

const (
	KindBlank       EntryKind = iota // Empty or whitespace-only line
	KindComment                      // Line starting with #
	KindDomain                       // Bare hostname, probed via http and https
	KindURL                          // Full URL with scheme, probed as-is
	KindUnparseable                  // Regex-ish rule or invalid hostname, never probed
)

// String returns a string representation of EntryKind
func (k EntryKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindDomain:
		return "domain"
	case KindURL:
		return "url"
	default:
		return "unparseable"
	}
}

// 📄 Entry is one classified blocklist line
type Entry struct {
	Raw        string    // The line exactly as read, including whitespace
	Text       string    // The trimmed entry text
	Kind       EntryKind // Classification result
	Candidates []string  // URLs to probe for this entry, empty unless domain/url
}

// invalidHostChars are characters that never appear in a plain hostname.
// Lines containing them are adblock-style rules, not domains.
const invalidHostChars = " \t\"'`<>|(){}[]"

// 🔍 Classify inspects a raw line and derives the URLs to probe for it
func Classify(raw string) Entry {
	text := strings.TrimSpace(raw)
	entry := Entry{Raw: raw, Text: text}

	if text == "" {
		entry.Kind = KindBlank
		return entry
	}
	if strings.HasPrefix(text, "#") {
		entry.Kind = KindComment
		return entry
	}

	if strings.Contains(text, "://") {
		u, err := url.Parse(text)
		if err != nil || u.Scheme == "" || u.Host == "" {
			entry.Kind = KindUnparseable
			return entry
		}
		entry.Kind = KindURL
		entry.Candidates = []string{text}
		return entry
	}

	if strings.HasPrefix(text, "/") ||
		strings.ContainsAny(text, invalidHostChars) ||
		!strings.Contains(text, ".") {
		entry.Kind = KindUnparseable
		return entry
	}

	entry.Kind = KindDomain
	entry.Candidates = []string{"http://" + text, "https://" + text}
	return entry
}
