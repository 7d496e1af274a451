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

package depsources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/osdeps/go-osdeps/internal/fsutil"
)

// ParseSourcesData parses the sources file format:
//
//	# comments and empty lines allowed
//	<type> <url> [tag...]
//
// e.g. "yaml http://foo/deps.yaml trusty ubuntu". Sources are returned
// in file order. The origin is recorded on every source for debugging.
func ParseSourcesData(data []byte, origin string) ([]*DataSource, error) {
	var sources []*DataSource
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, ErrInvalidData{Msg: fmt.Sprintf("invalid line:\n%s", line), Origin: origin}
		}
		kind, err := ParseSourceKind(fields[0])
		if err != nil {
			return nil, ErrInvalidData{Msg: fmt.Sprintf("line:\n\t%s\n%s", line, err), Origin: origin}
		}
		source, err := NewDataSource(kind, fields[1], fields[2:], origin)
		if err != nil {
			return nil, ErrInvalidData{Msg: fmt.Sprintf("line:\n\t%s\n%s", line, err), Origin: origin}
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// ParseSourcesFile parses a single sources-list file on disk.
func ParseSourcesFile(path string) ([]*DataSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidData{Msg: fmt.Sprintf("I/O error reading sources file: %s", err), Origin: path}
	}
	return ParseSourcesData(data, path)
}

// ParseSourcesList parses every *.list file in dir, in sorted filename
// order, concatenating their entries. The ordering is deterministic
// regardless of filesystem enumeration order since both precedence and
// display order depend on it. A missing dir is a valid empty state.
func ParseSourcesList(dir string) ([]*DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		ok, err := fsutil.IsListFile(e)
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var sources []*DataSource
	for _, name := range names {
		parsed, err := ParseSourcesFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sources = append(sources, parsed...)
	}
	return sources, nil
}
