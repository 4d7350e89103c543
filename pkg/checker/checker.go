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
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// 📊 Result is the verdict for a single line
type Result int

const (
	ResultKept        Result = iota // Entry probed and found alive
	ResultPassthrough               // Comment or blank line, copied verbatim
	ResultSkipped                   // Unparseable entry, kept without checking
	ResultRemoved                   // Entry dead, dropped from output
)

// String returns a string representation of Result
func (r Result) String() string {
	switch r {
	case ResultKept:
		return "kept"
	case ResultPassthrough:
		return "passthrough"
	case ResultSkipped:
		return "skipped"
	case ResultRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// 🔧 Options contains configuration for the checker
type Options struct {
	// Timeout applies per HTTP request, probes and DoH queries alike
	Timeout time.Duration
	// UserAgent is sent on every outgoing request
	UserAgent string
	// DoHEndpoints are the DNS-over-HTTPS resolvers to consult
	DoHEndpoints []string
	// MaxCNAMEDepth bounds CNAME chain chasing
	MaxCNAMEDepth int
}

// 🔎 Checker applies the liveness pipeline to raw blocklist lines, caching
// verdicts per entry so duplicate lines cost one check. Safe for concurrent
// use.
type Checker struct {
	prober   LivenessProber
	resolver DomainResolver

	mu       sync.Mutex
	verdicts map[string]bool
}

// 🏭 New creates a checker with HTTP-backed prober and resolver
func New(opts Options) *Checker {
	client := &http.Client{Timeout: opts.Timeout}
	return NewWithBackends(
		NewProber(client, opts.UserAgent),
		NewResolver(client, opts.DoHEndpoints, opts.UserAgent, opts.MaxCNAMEDepth),
	)
}

// 🏭 NewWithBackends creates a checker with explicit prober and resolver
func NewWithBackends(prober LivenessProber, resolver DomainResolver) *Checker {
	return &Checker{
		prober:   prober,
		resolver: resolver,
		verdicts: make(map[string]bool),
	}
}

// ✅ CheckLine classifies a raw line and returns its verdict together with
// the line to write to the cleaned file. The returned line is meaningless
// for ResultRemoved.
func (c *Checker) CheckLine(ctx context.Context, raw string) (Result, string) {
	logger := zerolog.Ctx(ctx)

	entry := Classify(raw)
	switch entry.Kind {
	case KindBlank, KindComment:
		return ResultPassthrough, entry.Raw
	case KindUnparseable:
		logger.Debug().Str("entry", entry.Text).Msg("entry does not look like a domain or URL, keeping unchecked")
		return ResultSkipped, entry.Raw
	}

	key := strings.ToLower(entry.Text)

	c.mu.Lock()
	live, cached := c.verdicts[key]
	c.mu.Unlock()

	if !cached {
		live = c.isLive(ctx, entry)
		c.mu.Lock()
		c.verdicts[key] = live
		c.mu.Unlock()
	}

	if live {
		return ResultKept, entry.Text
	}
	logger.Debug().Str("entry", entry.Text).Msg("entry unreachable, dropping")
	return ResultRemoved, ""
}

// Checked returns how many distinct entries were actually probed
func (c *Checker) Checked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.verdicts)
}

// isLive runs the full decision pipeline for a domain or URL entry
func (c *Checker) isLive(ctx context.Context, entry Entry) bool {
	if entry.Kind == KindURL {
		return c.anyResponds(ctx, entry.Candidates)
	}

	domain := strings.ToLower(entry.Text)
	resolution := c.resolver.Resolve(ctx, domain)
	if resolution.IndicatesPresence() {
		return true
	}

	// The zone exists but the bare name has no address records. Sites often
	// only publish the www host, so give that a chance before condemning.
	if resolution.HasAuthority {
		www := "www." + domain
		if c.anyResponds(ctx, []string{"http://" + www, "https://" + www}) {
			return true
		}
		if c.resolver.Resolve(ctx, www).IndicatesPresence() {
			return true
		}
	}

	return c.anyResponds(ctx, entry.Candidates)
}

func (c *Checker) anyResponds(ctx context.Context, targets []string) bool {
	for _, target := range targets {
		if c.prober.Responds(ctx, target) {
			return true
		}
	}
	return false
}
