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

// Package undo reverses the most recent cleanup session.
package undo

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/downclean/pkg/fsops"
	"github.com/walteh/downclean/pkg/history"
	"github.com/walteh/downclean/pkg/report"
)

// 🔄 Engine replays the last persisted session in reverse. Undo is strictly
// LIFO: only the most recent session is ever a candidate, and it is removed
// from the store only once its replay completes (partial success included —
// undo is best-effort and not itself undoable).
type Engine struct {
	fs       afero.Fs
	store    *history.Store
	mover    *fsops.Mover
	reporter *report.Reporter
	preview  bool
}

// 📋 Summary reports the outcome of one undo invocation.
type Summary struct {
	SessionID    string
	SessionTime  time.Time
	Reversed     int // moves put back in place
	Failed       int // moves whose logged destination no longer exists
	Irreversible int // deletes; content is unrecoverable by definition
	Preview      bool
}

// 🏭 New creates an undo engine over the given store. With preview set,
// nothing on disk or in the store is touched.
func New(fs afero.Fs, store *history.Store, reporter *report.Reporter, preview bool) *Engine {
	return &Engine{
		fs:       fs,
		store:    store,
		mover:    fsops.New(fs, preview),
		reporter: reporter,
		preview:  preview,
	}
}

// 🏃 Undo selects the last session, replays its operations in strict reverse
// order, and (outside preview) removes the session from the store.
func (e *Engine) Undo(ctx context.Context) (Summary, error) {
	logger := zerolog.Ctx(ctx)

	sessions, err := e.store.Load(ctx)
	if err != nil {
		return Summary{}, errors.Errorf("reading history: %w", err)
	}
	if len(sessions) == 0 {
		return Summary{}, history.ErrNoHistory
	}

	session := sessions[len(sessions)-1]
	summary := Summary{
		SessionID:   session.ID,
		SessionTime: session.Timestamp,
		Preview:     e.preview,
	}

	logger.Info().
		Str("session_id", session.ID).
		Time("session_time", session.Timestamp).
		Int("operations", len(session.Operations)).
		Bool("preview", e.preview).
		Msg("undoing last cleanup session")

	ops := session.Operations
	for i := len(ops) - 1; i >= 0; i-- {
		e.reverse(ctx, ops[i], &summary)
	}

	if !e.preview {
		// The session comes off the store even when some reversals failed;
		// a retry is a fresh operator decision, not a hidden loop.
		if err := e.store.Pop(ctx); err != nil {
			return summary, errors.Errorf("removing undone session from history: %w", err)
		}
	}

	return summary, nil
}

func (e *Engine) reverse(ctx context.Context, op history.Operation, summary *Summary) {
	switch op.Action {
	case history.ActionMove:
		e.reverseMove(ctx, op, summary)
	case history.ActionDelete:
		summary.Irreversible++
		e.reporter.FileChange(report.FileFailed, op.Source, "deleted content cannot be restored")
	default:
		// Unknown actions in a hand-edited history file are reported as
		// plain failures rather than crashing the replay.
		summary.Failed++
		e.reporter.FileChange(report.FileFailed, op.Source, "unknown action "+string(op.Action))
	}
}

func (e *Engine) reverseMove(ctx context.Context, op history.Operation, summary *Summary) {
	if e.preview {
		summary.Reversed++
		e.reporter.FileChange(report.FileMoved, op.Destination, "would move back to "+op.Source)
		return
	}

	exists, err := afero.Exists(e.fs, op.Destination)
	if err != nil || !exists {
		// Something else moved or deleted the file since it was logged.
		summary.Failed++
		e.reporter.FileChange(report.FileFailed, op.Destination, "no longer at logged destination")
		return
	}

	// Move back exactly where it came from; the mover recreates missing
	// directories and refuses to overwrite whatever now holds that name.
	effective, err := e.mover.Move(ctx, op.Destination, op.Source)
	if err != nil {
		summary.Failed++
		e.reporter.FileChange(report.FileFailed, op.Destination, err.Error())
		return
	}

	summary.Reversed++
	e.reporter.FileChange(report.FileMoved, op.Destination, "restored to "+filepath.Dir(effective))
}
