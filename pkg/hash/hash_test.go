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

package hash

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "/a.txt", []byte("hello"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/b.txt", []byte("hello"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/c.txt", []byte("world"), 0644))

	a, err := File(fs, "/a.txt")
	require.NoError(t, err, "hashing should succeed")
	b, err := File(fs, "/b.txt")
	require.NoError(t, err, "hashing should succeed")
	c, err := File(fs, "/c.txt")
	require.NoError(t, err, "hashing should succeed")

	assert.Equal(t, a, b, "identical content should produce identical digests")
	assert.NotEqual(t, a, c, "different content should produce different digests")
	assert.Len(t, string(a), 64, "digest should be hex sha256")

	// Known vector, so the digest stays stable across releases.
	assert.Equal(t, Digest("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"), a)
}

func TestFileLargerThanChunk(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("x"), chunkSize*3+17)
	require.NoError(t, afero.WriteFile(fs, "/big.bin", content, 0644))

	got, err := File(fs, "/big.bin")
	require.NoError(t, err)

	fs2 := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs2, "/big.bin", content, 0644))
	again, err := File(fs2, "/big.bin")
	require.NoError(t, err)

	assert.Equal(t, got, again, "chunked digest should be deterministic")
}

func TestFileMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := File(fs, "/nope.txt")
	assert.Error(t, err, "missing file should surface an error, not panic")
}
