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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/walteh/downclean/pkg/history"
	"github.com/walteh/downclean/pkg/report"
	"github.com/walteh/downclean/pkg/undo"
)

func newUndoCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent cleanup session",
		Long: `Undo replays the last recorded cleanup session in reverse, moving
files back where they came from. Deleted files cannot be restored and are
reported as permanent. Sessions are undone newest-first, one per invocation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := buildConfig(ctx, cmd, flags)
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			reporter := report.New(os.Stdout, cfg.Verbose, *zerolog.Ctx(ctx))
			store := history.NewStore(fs, filepath.Join(cfg.Source, history.FileName))

			engine := undo.New(fs, store, reporter, cfg.DryRun)
			summary, err := engine.Undo(ctx)
			if err != nil {
				// Missing/empty history is a fatal, non-zero-exit condition.
				reporter.Errorf("%v", err)
				return err
			}

			reporter.Successf("undid session %s from %s", summary.SessionID, summary.SessionTime.Format("2006-01-02 15:04:05"))
			reporter.UndoSummary(summary.Reversed, summary.Failed, summary.Irreversible, summary.Preview)
			return nil
		},
	}

	return cmd
}
