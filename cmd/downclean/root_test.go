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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/downclean/pkg/history"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func seedFiles(t *testing.T, dir string, names map[string]string) {
	t.Helper()
	for name, content := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err, "seeding %s", name)
	}
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		args        []string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, source, target string)
	}{
		{
			name: "basic_run",
			files: map[string]string{
				"photo.jpg":           "jpeg-bytes",
				"report.pdf":          "pdf-bytes",
				"download.crdownload": "partial",
			},
			validate: func(t *testing.T, source, target string) {
				assert.FileExists(t, filepath.Join(target, "Images", "photo.jpg"), "image should be categorized")
				assert.FileExists(t, filepath.Join(target, "PDFs", "report.pdf"), "pdf should be categorized")
				assert.NoFileExists(t, filepath.Join(source, "download.crdownload"), "temp file should be deleted")
				assert.FileExists(t, filepath.Join(source, history.FileName), "history should be written")
			},
		},
		{
			name: "dry_run_touches_nothing",
			files: map[string]string{
				"photo.jpg": "jpeg-bytes",
			},
			args: []string{"--dry-run"},
			validate: func(t *testing.T, source, target string) {
				assert.FileExists(t, filepath.Join(source, "photo.jpg"), "preview must not move files")
				assert.NoFileExists(t, filepath.Join(source, history.FileName), "preview must not record history")
			},
		},
		{
			name:        "missing_source",
			args:        []string{"--path", filepath.Join(os.TempDir(), "downclean-does-not-exist")},
			wantErr:     true,
			errContains: "does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := t.TempDir()
			target := filepath.Join(source, "Cleaned")
			seedFiles(t, source, tt.files)

			args := append([]string{"--path", source, "--target", target}, tt.args...)
			if tt.name == "missing_source" {
				args = tt.args
			}

			err := execute(t, args...)
			if tt.wantErr {
				require.Error(t, err, "command should fail")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error message")
				}
				return
			}
			require.NoError(t, err, "command should succeed")

			if tt.validate != nil {
				tt.validate(t, source, target)
			}
		})
	}
}

func TestUndoCommand(t *testing.T) {
	t.Run("no_history_is_fatal", func(t *testing.T) {
		source := t.TempDir()
		err := execute(t, "undo", "--path", source)
		require.Error(t, err, "undo without history should fail")
		assert.ErrorIs(t, err, history.ErrNoHistory, "error kind")
	})

	t.Run("restores_last_session", func(t *testing.T) {
		source := t.TempDir()
		target := filepath.Join(source, "Cleaned")
		seedFiles(t, source, map[string]string{"photo.jpg": "jpeg-bytes"})

		require.NoError(t, execute(t, "--path", source, "--target", target), "cleanup run")
		require.NoFileExists(t, filepath.Join(source, "photo.jpg"), "file should have moved")

		require.NoError(t, execute(t, "undo", "--path", source), "undo run")
		assert.FileExists(t, filepath.Join(source, "photo.jpg"), "file should be restored")

		err := execute(t, "undo", "--path", source)
		require.Error(t, err, "second undo has nothing left to pop")
		assert.ErrorIs(t, err, history.ErrNoHistory, "error kind")
	})

	t.Run("preview_keeps_history", func(t *testing.T) {
		source := t.TempDir()
		target := filepath.Join(source, "Cleaned")
		seedFiles(t, source, map[string]string{"photo.jpg": "jpeg-bytes"})

		require.NoError(t, execute(t, "--path", source, "--target", target), "cleanup run")
		require.NoError(t, execute(t, "undo", "--dry-run", "--path", source), "preview undo")

		assert.NoFileExists(t, filepath.Join(source, "photo.jpg"), "preview must not move files back")
		require.NoError(t, execute(t, "undo", "--path", source), "real undo still has the session")
		assert.FileExists(t, filepath.Join(source, "photo.jpg"), "file should be restored")
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		source := t.TempDir()
		require.NoError(t, execute(t, "history", "--path", source), "history on empty dir")
	})

	t.Run("lists_sessions", func(t *testing.T) {
		source := t.TempDir()
		target := filepath.Join(source, "Cleaned")
		seedFiles(t, source, map[string]string{"photo.jpg": "jpeg-bytes"})

		require.NoError(t, execute(t, "--path", source, "--target", target), "cleanup run")
		require.NoError(t, execute(t, "history", "--path", source), "history after a run")
	})
}

func TestBuildConfigFlagPrecedence(t *testing.T) {
	source := t.TempDir()
	configPath := filepath.Join(source, "conf.yaml")
	configContent := `
source: ` + source + `
no_duplicates: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644), "writing config file")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", configPath, "--no-duplicates=false", "--dry-run"})
	// Execute so cobra marks which flags were explicitly changed.
	require.NoError(t, cmd.ExecuteContext(context.Background()), "run with config file")
}
