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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osdeps/go-osdeps/depsources"
)

const fullManifest = `
uri: http://example.org/foo-1.0.tar.gz
alternate-uri: http://mirror.example.org/foo-1.0.tar.gz
md5sum: fd6cfa618cf8f27fa1b2e2e029c3e2cd
install-script: |
  #!/bin/bash
  make && make install
check-presence-script: |
  #!/bin/bash
  which foo
exec-path: foo-1.0
depends: [libbar-dev]
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(fullManifest))
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/foo-1.0.tar.gz", m.URI)
	assert.Equal(t, "http://mirror.example.org/foo-1.0.tar.gz", m.AlternateURI)
	assert.Equal(t, "fd6cfa618cf8f27fa1b2e2e029c3e2cd", m.MD5Sum)
	assert.Contains(t, m.InstallScript, "make && make install")
	assert.Contains(t, m.CheckPresenceScript, "which foo")
	assert.Equal(t, "foo-1.0", m.ExecPath)
	assert.Equal(t, []string{"libbar-dev"}, m.Depends)
}

func TestParseManifestDefaults(t *testing.T) {
	// exec-path defaults to the extraction root
	m, err := ParseManifest([]byte("uri: http://example.org/foo.tar.gz\n"))
	require.NoError(t, err)
	assert.Equal(t, ".", m.ExecPath)
	assert.Empty(t, m.MD5Sum)
	assert.Empty(t, m.Depends)
}

func TestParseManifestMissingURI(t *testing.T) {
	_, err := ParseManifest([]byte("md5sum: abcd\n"))
	assert.ErrorIs(t, err, depsources.ErrInvalidManifest{})
	// an invalid manifest is still invalid data for callers up the stack
	assert.ErrorIs(t, err, depsources.ErrInvalidData{})
}

func TestParseManifestNotYaml(t *testing.T) {
	_, err := ParseManifest([]byte("{{{"))
	assert.ErrorIs(t, err, depsources.ErrInvalidManifest{})
	assert.ErrorContains(t, err, "failed to parse yaml")
}

func TestSourceInstallString(t *testing.T) {
	m, err := ParseManifest([]byte("uri: http://example.org/foo.tar.gz\n"))
	require.NoError(t, err)
	si := NewSourceInstall(m, "http://example.org/foo.rdmanifest")
	assert.Equal(t, "source: http://example.org/foo.rdmanifest", si.String())
}
