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
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	ok, output, err := ExecRunner{}.Run("#!/bin/sh\necho hello\n", t.TempDir())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello\n", string(output))
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	// a script exiting non-zero is a result, not a runner error
	ok, output, err := ExecRunner{}.Run("#!/bin/sh\necho failing\nexit 3\n", t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "failing\n", string(output))
}

func TestExecRunnerWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	dir := t.TempDir()
	ok, output, err := ExecRunner{}.Run("#!/bin/sh\npwd\n", dir)
	require.NoError(t, err)
	assert.True(t, ok)
	// compare on the base name: the temp root may be reached through a
	// symlink and pwd reports the resolved path
	assert.Contains(t, string(output), filepath.Base(dir))
}
