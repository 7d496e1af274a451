// Copyright 2024 The go-osdeps Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License
//
// SPDX-License-Identifier: Apache-2.0
//

package install

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTarball(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "foo-1.0/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}))
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "foo-1.0/configure",
		Mode: 0755,
		Size: int64(len("#!/bin/sh\n")),
	}))
	_, err := tw.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "foo-1.0/config",
		Typeflag: tar.TypeSymlink,
		Linkname: "configure",
	}))
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	dir := t.TempDir()
	tarballPath := filepath.Join(dir, "foo-1.0.tar.gz")
	require.NoError(t, os.WriteFile(tarballPath, buf.Bytes(), 0644))

	dest := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(dest, 0755))
	require.NoError(t, extractTarball(tarballPath, dest))

	contents, err := os.ReadFile(filepath.Join(dest, "foo-1.0", "configure"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(contents))

	info, err := os.Stat(filepath.Join(dest, "foo-1.0", "configure"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	link, err := os.Readlink(filepath.Join(dest, "foo-1.0", "config"))
	require.NoError(t, err)
	assert.Equal(t, "configure", link)
}

func TestExtractTarballRejectsEscapingEntry(t *testing.T) {
	dir := t.TempDir()
	tarballPath := filepath.Join(dir, "evil.tar.gz")
	require.NoError(t, os.WriteFile(tarballPath, buildTarball(t, map[string]string{
		"../escape.txt": "outside",
	}), 0644))

	dest := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(dest, 0755))
	err := extractTarball(tarballPath, dest)
	assert.ErrorContains(t, err, "escapes the extraction directory")
	// nothing may land next to the extraction directory
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestExtractTarballRejectsEscapingSymlink(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "foo-1.0/passwd",
		Typeflag: tar.TypeSymlink,
		Linkname: "/etc/passwd",
	}))
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	dir := t.TempDir()
	tarballPath := filepath.Join(dir, "evil.tar.gz")
	require.NoError(t, os.WriteFile(tarballPath, buf.Bytes(), 0644))

	dest := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(dest, 0755))
	err := extractTarball(tarballPath, dest)
	assert.ErrorContains(t, err, "escapes the extraction directory")
}

func TestExtractTarballAllowsDotPrefix(t *testing.T) {
	// tarballs commonly carry "./"-prefixed entries; those stay local
	dir := t.TempDir()
	tarballPath := filepath.Join(dir, "ok.tar.gz")
	require.NoError(t, os.WriteFile(tarballPath, buildTarball(t, map[string]string{
		"./foo-1.0/Makefile": "all:\n",
	}), 0644))

	dest := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(dest, 0755))
	require.NoError(t, extractTarball(tarballPath, dest))
	assert.FileExists(t, filepath.Join(dest, "foo-1.0", "Makefile"))
}

func TestExtractTarballNotGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))
	assert.Error(t, extractTarball(path, dir))
}
