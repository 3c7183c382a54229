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

package history

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ErrNoHistory is returned when the store file is absent or holds no
// sessions and a session is requested.
var ErrNoHistory = errors.New("no cleanup history found")

// 💾 Store persists the session list as one JSON file. Both Append and Pop
// read the whole list and rewrite it wholesale; there is no locking against
// a concurrent process, which is an accepted limitation at this scale.
// TODO(walteh): revisit with per-session records if anyone ever runs two
// cleaners against the same directory on purpose.
type Store struct {
	fs   afero.Fs
	path string
}

// 🏭 NewStore creates a store over the history file at path.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the location of the history file.
func (s *Store) Path() string {
	return s.path
}

// 📖 Load reads all persisted sessions in chronological order. A missing
// file is an empty history; a file that exists but cannot be parsed is an
// error for the caller to classify.
func (s *Store) Load(ctx context.Context) ([]Session, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading history file: %w", err)
	}

	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Errorf("parsing history file %s: %w", s.path, err)
	}
	return sessions, nil
}

// ➕ Append adds a session to the end of the persisted list and rewrites the
// file. A corrupt existing file makes the append fail; the caller treats
// that as a degraded-but-accepted outcome since the filesystem work already
// happened.
func (s *Store) Append(ctx context.Context, session Session) error {
	logger := zerolog.Ctx(ctx)

	sessions, err := s.Load(ctx)
	if err != nil {
		return errors.Errorf("loading existing history: %w", err)
	}

	sessions = append(sessions, session)
	if err := s.write(sessions); err != nil {
		return err
	}

	logger.Debug().
		Str("path", s.path).
		Str("session_id", session.ID).
		Int("operations", len(session.Operations)).
		Msg("session appended to history")
	return nil
}

// ➖ Pop removes the most recent session and rewrites the file.
func (s *Store) Pop(ctx context.Context) error {
	sessions, err := s.Load(ctx)
	if err != nil {
		return errors.Errorf("loading history: %w", err)
	}
	if len(sessions) == 0 {
		return ErrNoHistory
	}

	return s.write(sessions[:len(sessions)-1])
}

func (s *Store) write(sessions []Session) error {
	// Indented JSON keeps the file human-diffable.
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling history: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0644); err != nil {
		return errors.Errorf("writing history file: %w", err)
	}
	return nil
}
