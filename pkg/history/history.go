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

// Package history records committed filesystem mutations as undoable
// sessions, persisted in a single JSON file next to the cleaned directory.
package history

import (
	"time"

	"github.com/google/uuid"
)

// FileName is the hidden history file kept inside the source directory.
const FileName = ".cleanup_history.json"

// Action discriminates the operation variants.
type Action string

const (
	ActionMove   Action = "move"
	ActionDelete Action = "delete"
)

// 📜 Operation is an immutable record of one committed mutation. Once
// appended to a session it is never edited, only read back for undo.
type Operation struct {
	Action      Action    `json:"action"`
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"` // moves only
	Timestamp   time.Time `json:"timestamp"`
}

// 📊 Stats are the counters for one pipeline run. They live on the run
// result and end up embedded in the persisted session, never anywhere else.
type Stats struct {
	Categorized     int `json:"categorized"`
	TempRemoved     int `json:"temp_removed"`
	DuplicatesFound int `json:"duplicates_found"`
	PDFsMerged      int `json:"pdfs_merged"`
	Errors          int `json:"errors"`
}

// 📦 Session is the full record of one pipeline run. Sessions are appended
// to the store in chronological order and only ever removed last-in
// first-out, by a completed undo of that exact session.
type Session struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"session_timestamp"`
	Operations []Operation `json:"operations"`
	Stats      Stats       `json:"stats"`
}

// NewSession stamps a fresh session around the given operations.
func NewSession(ops []Operation, stats Stats) Session {
	return Session{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Operations: ops,
		Stats:      stats,
	}
}

// 📝 Log is the in-memory ordered operation list for the current run.
type Log struct {
	ops []Operation
}

// AppendMove records a committed move with the destination actually used,
// which may differ from the requested one after disambiguation.
func (l *Log) AppendMove(source, effectiveDestination string) {
	l.ops = append(l.ops, Operation{
		Action:      ActionMove,
		Source:      source,
		Destination: effectiveDestination,
		Timestamp:   time.Now().UTC(),
	})
}

// AppendDelete records a committed delete. Deletes are irreversible; undo
// can only report them.
func (l *Log) AppendDelete(source string) {
	l.ops = append(l.ops, Operation{
		Action:    ActionDelete,
		Source:    source,
		Timestamp: time.Now().UTC(),
	})
}

// Operations returns the recorded operations in execution order.
func (l *Log) Operations() []Operation {
	return l.ops
}

// Len returns the number of recorded operations.
func (l *Log) Len() int {
	return len(l.ops)
}
