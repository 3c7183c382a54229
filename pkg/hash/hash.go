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

// Package hash computes content digests for duplicate detection.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// chunkSize bounds memory use regardless of file size.
const chunkSize = 4096

// Digest is the hex-encoded SHA-256 of a file's bytes. It is only ever used
// as a grouping key within a single run.
type Digest string

// 🔍 File streams the file at path through SHA-256 in fixed-size chunks.
// I/O errors are returned to the caller, which is expected to count them and
// exclude the file from duplicate comparison rather than abort.
func File(fs afero.Fs, path string) (Digest, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Errorf("reading file: %w", err)
		}
	}

	return Digest(hex.EncodeToString(h.Sum(nil))), nil
}
