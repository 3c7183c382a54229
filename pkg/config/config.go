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

// Package config holds the cleaner configuration and its file loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is the complete cleaner configuration. Every field maps 1:1 to
// a CLI flag; flags override whatever the file provided.
type Config struct {
	// Source is the directory to clean (default: the user's Downloads).
	Source string `json:"source,omitempty" yaml:"source,omitempty" hcl:"source,optional"`

	// Target is the root of the organized tree (default: <source>/Cleaned).
	Target string `json:"target,omitempty" yaml:"target,omitempty" hcl:"target,optional"`

	// DryRun previews every action without mutating anything.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`

	// NoTempClean skips the partial-download removal phase.
	NoTempClean bool `json:"no_temp_clean,omitempty" yaml:"no_temp_clean,omitempty" hcl:"no_temp_clean,optional"`

	// NoDuplicates skips duplicate detection.
	NoDuplicates bool `json:"no_duplicates,omitempty" yaml:"no_duplicates,omitempty" hcl:"no_duplicates,optional"`

	// MergePDFs concatenates the organized PDFs into one file after the run.
	MergePDFs bool `json:"merge_pdfs,omitempty" yaml:"merge_pdfs,omitempty" hcl:"merge_pdfs,optional"`

	// IgnorePatterns are doublestar globs matched against file names; a hit
	// excludes the file from every phase.
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`

	// Verbose prints per-file progress lines.
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
}

// 🔍 Validate applies defaults, cleans paths, and rejects invalid globs.
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Errorf("resolving home directory for default source: %w", err)
		}
		cfg.Source = filepath.Join(home, "Downloads")
	}
	cfg.Source = filepath.Clean(cfg.Source)

	if cfg.Target == "" {
		cfg.Target = filepath.Join(cfg.Source, "Cleaned")
	}
	cfg.Target = filepath.Clean(cfg.Target)

	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	return nil
}

// 📝 String returns a short description of the configured run.
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", cfg.Source, cfg.Target)
}
