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
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DNS wire record types as they appear in dns-json answers
const (
	recordTypeA     = 1
	recordTypeNS    = 2
	recordTypeCNAME = 5
	recordTypeSOA   = 6
	recordTypeAAAA  = 28
)

// dnsStatusNXDomain is RCODE 3; dnsStatusServFail is RCODE 2
const (
	dnsStatusServFail = 2
	dnsStatusNXDomain = 3
)

// sinkholeAddrs are typical DNS sinkhole answers. A domain resolving only to
// these is still registered somewhere, so it stays on the blocklist.
var sinkholeAddrs = map[string]struct{}{
	"0.0.0.0":   {},
	"127.0.0.1": {},
	"::":        {},
	"::1":       {},
}

// 🔌 DomainResolver resolves a domain to its DoH resolution summary
type DomainResolver interface {
	Resolve(ctx context.Context, domain string) Resolution
}

// 📊 Resolution summarizes what the DoH resolvers returned for a domain
type Resolution struct {
	Addresses    []string // A/AAAA answers, CNAME targets chased
	HasAuthority bool     // An NS or SOA record was seen for the zone
	Status       int      // Best (lowest) DNS RCODE across all queries
}

// HasNonSinkhole reports whether any answer points somewhere real
func (r Resolution) HasNonSinkhole() bool {
	for _, addr := range r.Addresses {
		if _, ok := sinkholeAddrs[addr]; !ok {
			return true
		}
	}
	return false
}

// SinkholeOnly reports whether all answers are sinkhole addresses
func (r Resolution) SinkholeOnly() bool {
	return len(r.Addresses) > 0 && !r.HasNonSinkhole()
}

// IndicatesPresence reports whether the domain should be treated as existing.
// Sinkhole-only answers count: the tracker is alive behind a local blocker.
func (r Resolution) IndicatesPresence() bool {
	return len(r.Addresses) > 0
}

// 🌐 Resolver queries a set of DNS-over-HTTPS endpoints and caches results
// per domain for the duration of a run. It is safe for concurrent use.
type Resolver struct {
	client    *http.Client
	endpoints []string
	userAgent string
	maxDepth  int

	mu    sync.Mutex
	cache map[string]Resolution
}

// 🏭 NewResolver creates a new resolver
func NewResolver(client *http.Client, endpoints []string, userAgent string, maxDepth int) *Resolver {
	return &Resolver{
		client:    client,
		endpoints: endpoints,
		userAgent: userAgent,
		maxDepth:  maxDepth,
		cache:     make(map[string]Resolution),
	}
}

// Resolve implements DomainResolver
func (r *Resolver) Resolve(ctx context.Context, domain string) Resolution {
	key := strings.ToLower(strings.TrimSuffix(domain, "."))

	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached
	}

	res := r.resolve(ctx, key, map[string]struct{}{})

	r.mu.Lock()
	r.cache[key] = res
	r.mu.Unlock()
	return res
}

// resolve walks the CNAME chain starting at domain. visited bounds the chase
// and breaks loops.
func (r *Resolver) resolve(ctx context.Context, domain string, visited map[string]struct{}) Resolution {
	if _, seen := visited[domain]; seen || len(visited) > r.maxDepth {
		return Resolution{Status: dnsStatusServFail}
	}
	visited[domain] = struct{}{}

	addresses := make(map[string]struct{})
	hasAuthority := false
	statuses := []int{}

	for _, endpoint := range r.endpoints {
		for _, recordType := range []string{"A", "AAAA", "CNAME"} {
			data := r.query(ctx, endpoint, domain, recordType)
			if data == nil {
				continue
			}
			statuses = append(statuses, data.Status)

			for _, answer := range data.Answer {
				value := strings.TrimSpace(answer.Data)
				if value == "" {
					continue
				}
				switch answer.Type {
				case recordTypeA, recordTypeAAAA:
					addresses[strings.TrimSuffix(value, ".")] = struct{}{}
				case recordTypeCNAME:
					target := strings.ToLower(strings.TrimSuffix(value, "."))
					if target == "" {
						continue
					}
					if _, seen := visited[target]; seen {
						continue
					}
					chased := r.resolve(ctx, target, visited)
					for _, addr := range chased.Addresses {
						addresses[addr] = struct{}{}
					}
					if chased.HasAuthority {
						hasAuthority = true
					}
				}
			}

			if !hasAuthority && data.Status != dnsStatusNXDomain {
				for _, authority := range data.Authority {
					if authority.Type == recordTypeNS || authority.Type == recordTypeSOA {
						hasAuthority = true
						break
					}
				}
			}
		}
	}

	status := dnsStatusServFail
	if len(statuses) > 0 {
		status = statuses[0]
		for _, s := range statuses[1:] {
			if s < status {
				status = s
			}
		}
	}

	sorted := make([]string, 0, len(addresses))
	for addr := range addresses {
		sorted = append(sorted, addr)
	}
	sort.Strings(sorted)

	return Resolution{
		Addresses:    sorted,
		HasAuthority: hasAuthority,
		Status:       status,
	}
}

// dohRecord is one answer or authority record in a dns-json response
type dohRecord struct {
	Type int    `json:"type"`
	Data string `json:"data"`
}

// dohResponse is the subset of the dns-json format we care about
type dohResponse struct {
	Status    int         `json:"Status"`
	Answer    []dohRecord `json:"Answer"`
	Authority []dohRecord `json:"Authority"`
}

// query performs one DoH lookup. Failures of any kind return nil; a resolver
// being down must not change a verdict on its own.
func (r *Resolver) query(ctx context.Context, endpoint, domain, recordType string) *dohResponse {
	logger := zerolog.Ctx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Debug().Str("endpoint", endpoint).Err(err).Msg("building DoH request")
		return nil
	}

	q := url.Values{}
	q.Set("name", domain)
	q.Set("type", recordType)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/dns-json")

	resp, err := r.client.Do(req)
	if err != nil {
		logger.Debug().Str("endpoint", endpoint).Str("domain", domain).Err(err).Msg("DoH query failed")
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		logger.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("DoH query rejected")
		return nil
	}

	var data dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Debug().Str("endpoint", endpoint).Err(err).Msg("decoding DoH response")
		return nil
	}
	return &data
}
