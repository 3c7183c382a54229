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

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want Category
	}{
		{name: "jpeg_is_image", ext: ".jpg", want: Images},
		{name: "heic_is_image", ext: ".heic", want: Images},
		{name: "txt_is_document", ext: ".txt", want: Documents},
		{name: "pdf_is_pdf", ext: ".pdf", want: PDFs},
		{name: "zip_is_archive", ext: ".zip", want: Archives},
		{name: "exe_is_installer", ext: ".exe", want: Installers},
		{name: "mkv_is_video", ext: ".mkv", want: Video},
		{name: "flac_is_audio", ext: ".flac", want: Audio},
		{name: "go_is_code", ext: ".go", want: Code},
		{name: "unknown_is_others", ext: ".xyz", want: Others},
		{name: "empty_is_others", ext: "", want: Others},
		{name: "no_dot_is_others", ext: "jpg", want: Others},

		// .dmg sits in both the Archives and Installers sets; the table is
		// scanned in declaration order so Archives wins.
		{name: "dmg_resolves_to_archives", ext: ".dmg", want: Archives},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ext)
			assert.Equal(t, tt.want, got, "category should match")
		})
	}
}

func TestCategoriesOrder(t *testing.T) {
	want := []Category{Images, Documents, PDFs, Archives, Installers, Video, Audio, Code, Others}
	assert.Equal(t, want, Categories(), "lookup order must stay fixed")
}

func TestClassifyIsCaseSensitive(t *testing.T) {
	// Callers lower-case before calling; the table itself does no folding.
	assert.Equal(t, Others, Classify(".JPG"), "upper-cased input is not normalized here")
}
