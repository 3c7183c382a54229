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
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/walteh/downclean/pkg/history"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded cleanup sessions",
		Long: `History lists the cleanup sessions recorded in the source directory's
history file, newest first. Each entry shows when the session ran, how many
operations it recorded, and its counters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := buildConfig(ctx, cmd, flags)
			if err != nil {
				return err
			}

			store := history.NewStore(afero.NewOsFs(), filepath.Join(cfg.Source, history.FileName))
			sessions, err := store.Load(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(os.Stdout, "No cleanup history recorded.")
				return nil
			}

			bold := color.New(color.Bold)
			faint := color.New(color.Faint)
			for i := len(sessions) - 1; i >= 0; i-- {
				s := sessions[i]
				ops := len(s.Operations)
				fmt.Fprintf(os.Stdout, "%s  %s  %s\n",
					bold.Sprint(s.Timestamp.Format("2006-01-02 15:04:05")),
					faint.Sprint(s.ID),
					faint.Sprintf("%d operations", ops))
				fmt.Fprintf(os.Stdout, "    categorized=%d temp_removed=%d duplicates=%d pdfs_merged=%d errors=%d\n",
					s.Stats.Categorized, s.Stats.TempRemoved, s.Stats.DuplicatesFound,
					s.Stats.PDFsMerged, s.Stats.Errors)
			}
			return nil
		},
	}

	return cmd
}
