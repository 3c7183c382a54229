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

// Package pipeline orchestrates the ordered cleanup phases: temp-file
// removal, duplicate quarantine, categorization and the optional PDF merge.
package pipeline

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/downclean/pkg/classify"
	"github.com/walteh/downclean/pkg/config"
	"github.com/walteh/downclean/pkg/fsops"
	"github.com/walteh/downclean/pkg/hash"
	"github.com/walteh/downclean/pkg/history"
	"github.com/walteh/downclean/pkg/merge"
	"github.com/walteh/downclean/pkg/report"
)

// tempExtensions are stale partial-download artifacts removed by phase 1.
var tempExtensions = map[string]struct{}{
	".crdownload": {},
	".part":       {},
	".tmp":        {},
	".partial":    {},
	".download":   {},
	".temp":       {},
}

// 🧹 Cleaner runs the cleanup phases over one source directory. Each phase
// re-lists the directory, so a file handled in phase N is naturally absent
// from phase N+1.
type Cleaner struct {
	fs       afero.Fs
	cfg      *config.Config
	mover    *fsops.Mover
	merger   merge.Merger
	reporter *report.Reporter
	store    *history.Store
}

// 📋 RunResult is the outcome of one pipeline run. Stats are owned by the
// result, not by any process-wide state.
type RunResult struct {
	Stats      history.Stats
	Operations []history.Operation
	Preview    bool
}

// 🏭 New creates a cleaner. The merger is an injected capability; pass an
// UnavailableMerger when PDF merging is not wired up.
func New(fs afero.Fs, cfg *config.Config, merger merge.Merger, reporter *report.Reporter) *Cleaner {
	return &Cleaner{
		fs:       fs,
		cfg:      cfg,
		mover:    fsops.New(fs, cfg.DryRun),
		merger:   merger,
		reporter: reporter,
		store:    history.NewStore(fs, filepath.Join(cfg.Source, history.FileName)),
	}
}

// Store exposes the history store backing this cleaner's source directory.
func (c *Cleaner) Store() *history.Store {
	return c.store
}

// 🏃 Run executes the phases in order and persists the session. The only
// fatal error is a missing source directory; per-file failures are counted
// and the run continues.
func (c *Cleaner) Run(ctx context.Context) (RunResult, error) {
	logger := zerolog.Ctx(ctx)

	exists, err := afero.DirExists(c.fs, c.cfg.Source)
	if err != nil {
		return RunResult{}, errors.Errorf("checking source directory: %w", err)
	}
	if !exists {
		return RunResult{}, errors.Errorf("source path does not exist: %s", c.cfg.Source)
	}

	logger.Info().
		Str("source", c.cfg.Source).
		Str("target", c.cfg.Target).
		Bool("dry_run", c.cfg.DryRun).
		Msg("starting cleanup run")

	var (
		log   history.Log
		stats history.Stats
	)

	c.cleanTempFiles(ctx, &log, &stats)
	c.quarantineDuplicates(ctx, &log, &stats)
	c.categorize(ctx, &log, &stats)
	c.mergePDFs(ctx, &log, &stats)

	result := RunResult{
		Stats:      stats,
		Operations: log.Operations(),
		Preview:    c.cfg.DryRun,
	}

	// Preview runs never touch the store; neither do runs that did nothing.
	if !c.cfg.DryRun && log.Len() > 0 {
		session := history.NewSession(log.Operations(), stats)
		if err := c.store.Append(ctx, session); err != nil {
			// The filesystem work already happened; losing the session
			// record is an accepted degradation.
			c.reporter.Warningf("cleanup finished but history was not recorded: %v", err)
		}
	}

	return result, nil
}

// listFiles returns the names of regular files at the source root in sorted
// order, excluding the history file and anything matching an ignore pattern.
func (c *Cleaner) listFiles(ctx context.Context) []string {
	logger := zerolog.Ctx(ctx)

	infos, err := afero.ReadDir(c.fs, c.cfg.Source)
	if err != nil {
		logger.Error().Err(err).Str("source", c.cfg.Source).Msg("listing source directory")
		return nil
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || info.Name() == history.FileName {
			continue
		}
		if c.ignored(ctx, info.Name()) {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names
}

func (c *Cleaner) ignored(ctx context.Context, name string) bool {
	for _, pattern := range c.cfg.IgnorePatterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Err(err).Msg("skipping bad ignore pattern")
			continue
		}
		if matched {
			c.reporter.FileChange(report.FileSkipped, name, "ignored by pattern")
			return true
		}
	}
	return false
}

func isTemp(name string) bool {
	_, ok := tempExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Phase 1: delete stale partial-download artifacts.
func (c *Cleaner) cleanTempFiles(ctx context.Context, log *history.Log, stats *history.Stats) {
	if c.cfg.NoTempClean {
		return
	}
	c.reporter.Phase("Cleaning Temporary Files")

	for _, name := range c.listFiles(ctx) {
		if !isTemp(name) {
			continue
		}
		path := filepath.Join(c.cfg.Source, name)
		if err := c.mover.Delete(ctx, path); err != nil {
			stats.Errors++
			c.reporter.FileChange(report.FileFailed, name, err.Error())
			continue
		}
		log.AppendDelete(path)
		stats.TempRemoved++
		c.reporter.FileChange(report.FileDeleted, name, "temp file")
	}
}

// Phase 2: group remaining files by content digest and quarantine every
// group member after the first one encountered in iteration order.
func (c *Cleaner) quarantineDuplicates(ctx context.Context, log *history.Log, stats *history.Stats) {
	if c.cfg.NoDuplicates {
		return
	}
	c.reporter.Phase("Scanning for Duplicates")

	groups := map[hash.Digest][]string{}
	var order []hash.Digest
	for _, name := range c.listFiles(ctx) {
		if isTemp(name) {
			continue
		}
		path := filepath.Join(c.cfg.Source, name)
		digest, err := hash.File(c.fs, path)
		if err != nil {
			// Unreadable files drop out of the comparison, nothing more.
			stats.Errors++
			c.reporter.FileChange(report.FileFailed, name, err.Error())
			continue
		}
		if _, seen := groups[digest]; !seen {
			order = append(order, digest)
		}
		groups[digest] = append(groups[digest], path)
	}

	for _, digest := range order {
		members := groups[digest]
		if len(members) < 2 {
			continue
		}
		// The first file encountered stays put; the rest are duplicates.
		for _, dup := range members[1:] {
			dest := filepath.Join(c.cfg.Target, string(classify.Duplicates), filepath.Base(dup))
			effective, err := c.mover.Move(ctx, dup, dest)
			if err != nil {
				stats.Errors++
				c.reporter.FileChange(report.FileFailed, filepath.Base(dup), err.Error())
				continue
			}
			log.AppendMove(dup, effective)
			stats.DuplicatesFound++
			c.reporter.FileChange(report.FileDuplicate, filepath.Base(dup), "same content as "+filepath.Base(members[0]))
		}
	}
}

// Phase 3: move everything left at the source root into its category folder.
func (c *Cleaner) categorize(ctx context.Context, log *history.Log, stats *history.Stats) {
	c.reporter.Phase("Categorizing Files")

	for _, name := range c.listFiles(ctx) {
		if isTemp(name) {
			continue
		}
		category := classify.Classify(strings.ToLower(filepath.Ext(name)))
		source := filepath.Join(c.cfg.Source, name)
		dest := filepath.Join(c.cfg.Target, string(category), name)

		effective, err := c.mover.Move(ctx, source, dest)
		if err != nil {
			stats.Errors++
			c.reporter.FileChange(report.FileFailed, name, err.Error())
			continue
		}
		log.AppendMove(source, effective)
		stats.Categorized++
		c.reporter.FileChange(report.FileMoved, name, string(category))
	}
}

// Phase 4 (opt-in): concatenate the organized PDFs, lexicographic order,
// into one timestamped file, deleting the originals only after success.
func (c *Cleaner) mergePDFs(ctx context.Context, log *history.Log, stats *history.Stats) {
	if !c.cfg.MergePDFs {
		return
	}
	c.reporter.Phase("Merging PDFs")

	pdfDir := filepath.Join(c.cfg.Target, string(classify.PDFs))
	inputs, err := afero.Glob(c.fs, filepath.Join(pdfDir, "*.pdf"))
	if err != nil {
		stats.Errors++
		c.reporter.Errorf("listing PDFs: %v", err)
		return
	}
	sort.Strings(inputs)

	if len(inputs) < 2 {
		zerolog.Ctx(ctx).Debug().Int("pdfs", len(inputs)).Msg("not enough PDFs to merge")
		return
	}

	output := filepath.Join(pdfDir, "merged_"+time.Now().Format("20060102_150405")+".pdf")

	if !c.cfg.DryRun {
		if err := c.merger.Merge(ctx, inputs, output); err != nil {
			if errors.Is(err, merge.ErrUnavailable) {
				c.reporter.Warningf("PDF merging is unavailable; skipping merge phase")
				return
			}
			stats.Errors++
			c.reporter.Errorf("merging PDFs: %v", err)
			return
		}
	}

	// Originals are consumed only once the merged file exists. Each removal
	// is logged as a delete, which undo will report as irreversible.
	for _, input := range inputs {
		if err := c.mover.Delete(ctx, input); err != nil {
			stats.Errors++
			c.reporter.FileChange(report.FileFailed, filepath.Base(input), err.Error())
			continue
		}
		log.AppendDelete(input)
	}
	stats.PDFsMerged = len(inputs)
	c.reporter.Successf("merged %d PDFs into %s", len(inputs), filepath.Base(output))
}
