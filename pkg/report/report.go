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

// Package report renders user-facing progress and summaries, mirroring
// every line into zerolog for debugging.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/downclean/pkg/history"
)

// 🎨 ChangeType classifies a per-file console line
type ChangeType int

const (
	FileMoved ChangeType = iota
	FileDeleted
	FileDuplicate
	FileSkipped
	FileFailed
)

// 📢 Reporter writes user-facing output. Per-file lines only appear in
// verbose mode; headers, warnings and summaries always print.
type Reporter struct {
	mu      sync.Mutex
	console io.Writer
	verbose bool
	zlog    zerolog.Logger

	moved   *pterm.PrefixPrinter
	deleted *pterm.PrefixPrinter
	dup     *pterm.PrefixPrinter
	skipped *pterm.PrefixPrinter
	failed  *pterm.PrefixPrinter
}

// 🏭 New creates a reporter over the given console writer.
func New(console io.Writer, verbose bool, zlog zerolog.Logger) *Reporter {
	return &Reporter{
		console: console,
		verbose: verbose,
		zlog:    zlog,
		moved:   pterm.Success.WithPrefix(pterm.Prefix{Text: "→"}).WithWriter(console),
		deleted: pterm.Warning.WithPrefix(pterm.Prefix{Text: "✗"}).WithWriter(console),
		dup:     pterm.Info.WithPrefix(pterm.Prefix{Text: "≡"}).WithWriter(console),
		skipped: pterm.Debug.WithPrefix(pterm.Prefix{Text: "-"}).WithWriter(console),
		failed:  pterm.Error.WithPrefix(pterm.Prefix{Text: "!"}).WithWriter(console),
	}
}

// 📝 Header prints the tool banner line.
func (r *Reporter) Header(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("downclean")
	fmt.Fprintf(r.console, "\n%s %s\n", name, color.New(color.Faint).Sprint("• "+msg))
	r.zlog.Info().Msg(msg)
}

// 📝 Phase announces a pipeline phase in verbose mode.
func (r *Reporter) Phase(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zlog.Info().Str("phase", name).Msg("starting phase")
	if !r.verbose {
		return
	}
	fmt.Fprintf(r.console, "\n%s\n", color.New(color.Bold).Sprintf("=== %s ===", name))
}

// 📝 FileChange logs one per-file outcome.
func (r *Reporter) FileChange(kind ChangeType, path, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := r.zlog.Info().Str("path", path)
	if detail != "" {
		event = event.Str("detail", detail)
	}

	msg := path
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", path, detail)
	}

	var printer *pterm.PrefixPrinter
	switch kind {
	case FileMoved:
		printer = r.moved
		event.Msg("moved")
	case FileDeleted:
		printer = r.deleted
		event.Msg("deleted")
	case FileDuplicate:
		printer = r.dup
		event.Msg("duplicate moved")
	case FileSkipped:
		printer = r.skipped
		event.Msg("skipped")
	case FileFailed:
		printer = r.failed
		event.Msg("failed")
	}

	// Failures always print; everything else is verbose-only detail.
	if r.verbose || kind == FileFailed {
		printer.Println(msg)
	}
}

// 📝 Warningf prints a warning regardless of verbosity.
func (r *Reporter) Warningf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	r.zlog.Warn().Msg(msg)
}

// 📝 Errorf prints an error regardless of verbosity.
func (r *Reporter) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	r.zlog.Error().Msg(msg)
}

// 📝 Successf prints a success line regardless of verbosity.
func (r *Reporter) Successf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.console, "✓ %s\n", color.New(color.FgGreen).Sprint(msg))
	r.zlog.Info().Msg(msg)
}

// 📊 RunSummary prints the final counters for a cleanup run.
func (r *Reporter) RunSummary(stats history.Stats, preview, mergeEnabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mode := ""
	if preview {
		mode = "[DRY RUN] "
	}
	rule := color.New(color.Faint).Sprint("──────────────────────────────────")
	fmt.Fprintf(r.console, "\n%s\n%sCLEANUP SUMMARY\n%s\n", rule, mode, rule)
	fmt.Fprintf(r.console, "Files categorized:   %d\n", stats.Categorized)
	fmt.Fprintf(r.console, "Temp files removed:  %d\n", stats.TempRemoved)
	fmt.Fprintf(r.console, "Duplicates moved:    %d\n", stats.DuplicatesFound)
	if mergeEnabled {
		fmt.Fprintf(r.console, "PDFs merged:         %d\n", stats.PDFsMerged)
	}
	fmt.Fprintf(r.console, "Errors encountered:  %d\n%s\n", stats.Errors, rule)

	if preview {
		fmt.Fprintln(r.console, "\nThis was a dry run. No files were moved; run without --dry-run to apply.")
	}

	r.zlog.Info().
		Int("categorized", stats.Categorized).
		Int("temp_removed", stats.TempRemoved).
		Int("duplicates_found", stats.DuplicatesFound).
		Int("pdfs_merged", stats.PDFsMerged).
		Int("errors", stats.Errors).
		Bool("preview", preview).
		Msg("run summary")
}

// 📊 UndoSummary prints the final counters for an undo run.
func (r *Reporter) UndoSummary(reversed, failed, irreversible int, preview bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mode := ""
	if preview {
		mode = "[DRY RUN] "
	}
	rule := color.New(color.Faint).Sprint("──────────────────────────────────")
	fmt.Fprintf(r.console, "\n%s\n%sUNDO SUMMARY\n%s\n", rule, mode, rule)
	fmt.Fprintf(r.console, "Successfully reversed:  %d\n", reversed)
	fmt.Fprintf(r.console, "Could not reverse:      %d\n", failed)
	fmt.Fprintf(r.console, "Deletes (permanent):    %d\n%s\n", irreversible, rule)

	if preview {
		fmt.Fprintln(r.console, "\nThis was a dry run. Nothing was moved and the history is unchanged.")
	}

	r.zlog.Info().
		Int("reversed", reversed).
		Int("failed", failed).
		Int("irreversible", irreversible).
		Bool("preview", preview).
		Msg("undo summary")
}
