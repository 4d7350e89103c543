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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🌐 CheckArgs configures the liveness check applied to list entries
type CheckArgs struct {
	// Enabled controls whether entries are probed at all (default true)
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" hcl:"enabled,optional"`
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" hcl:"timeout_seconds,optional"`
	// UserAgent is sent on probes and DoH queries
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" hcl:"user_agent,optional"`
	// DoHEndpoints are the DNS-over-HTTPS resolvers to consult
	DoHEndpoints []string `json:"doh_endpoints,omitempty" yaml:"doh_endpoints,omitempty" hcl:"doh_endpoints,optional"`
	// MaxCNAMEDepth bounds CNAME chain chasing
	MaxCNAMEDepth int `json:"max_cname_depth,omitempty" yaml:"max_cname_depth,omitempty" hcl:"max_cname_depth,optional"`
}

// 📦 GitArgs configures the commit step after a run
type GitArgs struct {
	Enabled       bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" hcl:"enabled,optional"`
	CommitMessage string `json:"commit_message,omitempty" yaml:"commit_message,omitempty" hcl:"commit_message,optional"`
	Remote        string `json:"remote,omitempty" yaml:"remote,omitempty" hcl:"remote,optional"`
	Branch        string `json:"branch,omitempty" yaml:"branch,omitempty" hcl:"branch,optional"`
	AuthorName    string `json:"author_name,omitempty" yaml:"author_name,omitempty" hcl:"author_name,optional"`
	AuthorEmail   string `json:"author_email,omitempty" yaml:"author_email,omitempty" hcl:"author_email,optional"`
	Push          bool   `json:"push,omitempty" yaml:"push,omitempty" hcl:"push,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	SourceDir      string     `json:"source_dir" yaml:"source_dir" hcl:"source_dir,optional"`
	CleanedDir     string     `json:"cleaned_dir" yaml:"cleaned_dir" hcl:"cleaned_dir,optional"`
	BackupDir      string     `json:"backup_dir" yaml:"backup_dir" hcl:"backup_dir,optional"`
	FileSuffix     string     `json:"file_suffix,omitempty" yaml:"file_suffix,omitempty" hcl:"file_suffix,optional"`
	IgnorePatterns []string   `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"` // Glob patterns for source files to skip
	Check          *CheckArgs `json:"check,omitempty" yaml:"check,omitempty" hcl:"check,block"`
	Git            *GitArgs   `json:"git,omitempty" yaml:"git,omitempty" hcl:"git,block"`
	Async          bool       `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🏭 Default returns a configuration with all defaults applied, matching the
// layout the automation historically used (domains/cleaned/backup).
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	// Set defaults
	if cfg.SourceDir == "" {
		cfg.SourceDir = "domains"
	}
	if cfg.CleanedDir == "" {
		cfg.CleanedDir = "cleaned"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "backup"
	}
	if cfg.FileSuffix == "" {
		cfg.FileSuffix = ".txt"
	}
	if cfg.Check == nil {
		cfg.Check = &CheckArgs{}
	}
	if cfg.Check.Enabled == nil {
		enabled := true
		cfg.Check.Enabled = &enabled
	}
	if cfg.Check.TimeoutSeconds == 0 {
		cfg.Check.TimeoutSeconds = 10
	}
	if cfg.Check.TimeoutSeconds < 0 {
		return errors.Errorf("check.timeout_seconds must be positive, got %d", cfg.Check.TimeoutSeconds)
	}
	if cfg.Check.UserAgent == "" {
		cfg.Check.UserAgent = "Mozilla/5.0 (compatible; blocksweep/1.0)"
	}
	if len(cfg.Check.DoHEndpoints) == 0 {
		cfg.Check.DoHEndpoints = []string{
			"https://cloudflare-dns.com/dns-query",
			"https://dns.google/resolve",
			"https://dns.quad9.net/dns-query",
		}
	}
	if cfg.Check.MaxCNAMEDepth == 0 {
		cfg.Check.MaxCNAMEDepth = 5
	}
	if cfg.Git != nil {
		if cfg.Git.CommitMessage == "" {
			cfg.Git.CommitMessage = "chore: refresh cleaned blocklists"
		}
		if cfg.Git.Remote == "" {
			cfg.Git.Remote = "origin"
		}
		if cfg.Git.Branch == "" {
			cfg.Git.Branch = "main"
		}
		if cfg.Git.AuthorName == "" {
			cfg.Git.AuthorName = "blocksweep"
		}
		if cfg.Git.AuthorEmail == "" {
			cfg.Git.AuthorEmail = "blocksweep@users.noreply.github.com"
		}
	}

	// Clean up paths
	cfg.SourceDir = filepath.Clean(cfg.SourceDir)
	cfg.CleanedDir = filepath.Clean(cfg.CleanedDir)
	cfg.BackupDir = filepath.Clean(cfg.BackupDir)

	// The three trees must be distinct or a run would overwrite its own input
	if cfg.SourceDir == cfg.CleanedDir {
		return errors.Errorf("source_dir and cleaned_dir must differ: %s", cfg.SourceDir)
	}
	if cfg.CleanedDir == cfg.BackupDir {
		return errors.Errorf("cleaned_dir and backup_dir must differ: %s", cfg.CleanedDir)
	}
	if cfg.SourceDir == cfg.BackupDir {
		return errors.Errorf("source_dir and backup_dir must differ: %s", cfg.SourceDir)
	}

	return nil
}

// 🌡️ CheckEnabled reports whether liveness checking is on
func (cfg *Config) CheckEnabled() bool {
	return cfg.Check == nil || cfg.Check.Enabled == nil || *cfg.Check.Enabled
}

// #️⃣ Hash returns a stable hash of the configuration
func (cfg *Config) Hash() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s -> %s", cfg.SourceDir, cfg.CleanedDir, cfg.BackupDir)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
