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

// Package fsops performs conflict-safe file relocation and deletion.
package fsops

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🚚 Mover relocates and deletes single files. It never overwrites an
// existing file: destination collisions are resolved by appending an
// incrementing numeric suffix before the extension.
type Mover struct {
	fs     afero.Fs
	dryRun bool
}

// 🏭 New creates a mover over the given filesystem. With dryRun set, both
// operations become no-ops that still report the path they would have used.
func New(fs afero.Fs, dryRun bool) *Mover {
	return &Mover{fs: fs, dryRun: dryRun}
}

// DryRun reports whether the mover mutates the filesystem.
func (m *Mover) DryRun() bool {
	return m.dryRun
}

// 🔀 Move relocates source to destination, disambiguating the destination
// name if needed, and returns the path actually used so the caller can log
// it accurately.
func (m *Mover) Move(ctx context.Context, source, destination string) (string, error) {
	logger := zerolog.Ctx(ctx)

	effective, err := m.disambiguate(destination)
	if err != nil {
		return "", errors.Errorf("resolving destination for %s: %w", source, err)
	}

	if m.dryRun {
		logger.Debug().Str("source", source).Str("destination", effective).Msg("dry-run move")
		return effective, nil
	}

	if err := m.fs.MkdirAll(filepath.Dir(effective), 0755); err != nil {
		return "", errors.Errorf("creating destination directory: %w", err)
	}

	if err := m.rename(source, effective); err != nil {
		return "", errors.Errorf("moving %s to %s: %w", source, effective, err)
	}

	logger.Debug().Str("source", source).Str("destination", effective).Msg("moved file")
	return effective, nil
}

// 🗑️ Delete permanently removes the file at path. There are no trash
// semantics; the content is unrecoverable afterwards.
func (m *Mover) Delete(ctx context.Context, path string) error {
	logger := zerolog.Ctx(ctx)

	if m.dryRun {
		logger.Debug().Str("path", path).Msg("dry-run delete")
		return nil
	}

	if err := m.fs.Remove(path); err != nil {
		return errors.Errorf("deleting %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("deleted file")
	return nil
}

// disambiguate returns the first non-existing variant of path, appending
// _1, _2, … before the extension until a free name is found.
func (m *Mover) disambiguate(path string) (string, error) {
	exists, err := afero.Exists(m.fs, path)
	if err != nil {
		return "", errors.Errorf("checking destination: %w", err)
	}
	if !exists {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", base, counter, ext)
		exists, err := afero.Exists(m.fs, candidate)
		if err != nil {
			return "", errors.Errorf("checking destination: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

// rename moves src to dst, falling back to copy-then-remove when the rename
// fails (typically a cross-device move).
func (m *Mover) rename(src, dst string) error {
	if err := m.fs.Rename(src, dst); err == nil {
		return nil
	}

	in, err := m.fs.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := m.fs.Create(dst)
	if err != nil {
		return errors.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	if err := m.fs.Remove(src); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}
	return nil
}
