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

// Package merge defines the injected document-merge capability used by the
// optional PDF merge phase.
package merge

import (
	"context"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"gitlab.com/tozd/go/errors"
)

// ErrUnavailable signals that no merge capability is present. The pipeline
// treats it as a warning, never a run failure.
var ErrUnavailable = errors.New("document merge capability unavailable")

// 🎯 Merger concatenates ordered documents into one output file.
type Merger interface {
	// Merge writes inputs, in the given order, into output. Implementations
	// must not remove the inputs; the caller deletes them only after a
	// successful merge.
	Merge(ctx context.Context, inputs []string, output string) error
}

// 📄 PDFCPUMerger merges PDFs with pdfcpu. It operates on the real
// filesystem, so the pipeline only invokes it outside preview mode.
type PDFCPUMerger struct{}

func NewPDFCPUMerger() *PDFCPUMerger {
	return &PDFCPUMerger{}
}

func (m *PDFCPUMerger) Merge(ctx context.Context, inputs []string, output string) error {
	if err := api.MergeCreateFile(inputs, output, false, nil); err != nil {
		return errors.Errorf("merging %d documents into %s: %w", len(inputs), output, err)
	}
	return nil
}

// 🚫 UnavailableMerger always reports the capability as missing.
type UnavailableMerger struct{}

func NewUnavailableMerger() *UnavailableMerger {
	return &UnavailableMerger{}
}

func (m *UnavailableMerger) Merge(ctx context.Context, inputs []string, output string) error {
	return ErrUnavailable
}
