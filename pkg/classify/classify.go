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

// Package classify maps file extensions to destination categories.
package classify

// 🏷️ Category is the name of a destination subfolder
type Category string

const (
	Images     Category = "Images"
	Documents  Category = "Documents"
	PDFs       Category = "PDFs"
	Archives   Category = "Archives"
	Installers Category = "Installers"
	Video      Category = "Video"
	Audio      Category = "Audio"
	Code       Category = "Code"
	Others     Category = "Others"

	// Duplicates is not part of the lookup table; duplicate files are
	// routed there regardless of extension.
	Duplicates Category = "Duplicates"
)

// categoryTable is consulted in declaration order; the first set containing
// the extension wins. Extensions present in more than one set (.dmg is in
// both Archives and Installers) therefore resolve to the earlier category.
var categoryTable = []struct {
	name       Category
	extensions map[string]struct{}
}{
	{Images, extSet(".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico", ".tiff", ".heic")},
	{Documents, extSet(".doc", ".docx", ".txt", ".rtf", ".odt", ".pages", ".tex", ".wpd", ".wps")},
	{PDFs, extSet(".pdf")},
	{Archives, extSet(".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".iso", ".dmg")},
	{Installers, extSet(".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".appimage")},
	{Video, extSet(".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpg", ".mpeg")},
	{Audio, extSet(".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a", ".opus")},
	{Code, extSet(".py", ".js", ".java", ".cpp", ".c", ".h", ".cs", ".php", ".rb", ".go", ".rs",
		".swift", ".kt", ".ts", ".jsx", ".tsx", ".html", ".css", ".scss", ".json", ".xml",
		".yaml", ".yml", ".sh", ".bat", ".ps1")},
}

func extSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[e] = struct{}{}
	}
	return set
}

// 🔍 Classify returns the category for a lower-cased extension including the
// leading dot (e.g. ".jpg"). Unrecognized extensions resolve to Others.
func Classify(ext string) Category {
	for _, entry := range categoryTable {
		if _, ok := entry.extensions[ext]; ok {
			return entry.name
		}
	}
	return Others
}

// Categories returns the category names in lookup order, Others last.
func Categories() []Category {
	names := make([]Category, 0, len(categoryTable)+1)
	for _, entry := range categoryTable {
		names = append(names, entry.name)
	}
	return append(names, Others)
}
