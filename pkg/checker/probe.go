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
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// 🔌 LivenessProber reports whether a URL answers at all
type LivenessProber interface {
	Responds(ctx context.Context, target string) bool
}

// 📡 Prober checks URL liveness with a HEAD request, falling back to GET
// when the server rejects HEAD with 405. Any completed response counts as
// alive, whatever the status code; only transport failures count as dead.
type Prober struct {
	client    *http.Client
	userAgent string
}

// 🏭 NewProber creates a new prober
func NewProber(client *http.Client, userAgent string) *Prober {
	return &Prober{
		client:    client,
		userAgent: userAgent,
	}
}

// Responds implements LivenessProber
func (p *Prober) Responds(ctx context.Context, target string) bool {
	logger := zerolog.Ctx(ctx)

	resp, err := p.do(ctx, http.MethodHead, target)
	if err != nil {
		logger.Debug().Str("url", target).Err(err).Msg("probe failed")
		return false
	}
	drain(resp)

	if resp.StatusCode == http.StatusMethodNotAllowed {
		resp, err = p.do(ctx, http.MethodGet, target)
		if err != nil {
			logger.Debug().Str("url", target).Err(err).Msg("probe fallback failed")
			return false
		}
		drain(resp)
	}

	logger.Debug().Str("url", target).Int("status", resp.StatusCode).Msg("probe answered")
	return true
}

func (p *Prober) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	return p.client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
