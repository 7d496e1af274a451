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
	"errors"
	"os"
	"os/exec"
)

// ScriptRunner executes check/install scripts. Shell execution is the
// one impure, platform-coupled piece of the pipeline, so it sits behind
// this narrow contract and the state machine stays unit-testable with a
// fake.
type ScriptRunner interface {
	// Run writes script to a scoped temp file, executes it in dir and
	// returns whether it exited zero plus the captured combined output.
	// err reports setup problems, not script failure.
	Run(script, dir string) (ok bool, output []byte, err error)
}

// ExecRunner runs scripts through a temp file and os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(script, dir string) (bool, []byte, error) {
	f, err := os.CreateTemp("", "osdep-script-*")
	if err != nil {
		return false, nil, err
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return false, nil, err
	}
	if err := f.Close(); err != nil {
		return false, nil, err
	}
	if err := os.Chmod(path, 0700); err != nil {
		return false, nil, err
	}

	cmd := exec.Command(path)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, output, nil
		}
		return false, output, err
	}
	return true, output, nil
}
