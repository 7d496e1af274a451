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

// Package install resolves per-dependency recipe manifests (rdmanifests)
// and runs the source-build installation pipeline they describe.
package install

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/osdeps/go-osdeps/depsources"
)

// Manifest is the dependency-recipe document describing a source-based
// installation: where the tarball lives, how to verify it, and the
// scripts that check for and perform the install.
type Manifest struct {
	URI                 string   `yaml:"uri"`
	AlternateURI        string   `yaml:"alternate-uri"`
	MD5Sum              string   `yaml:"md5sum"`
	InstallScript       string   `yaml:"install-script"`
	CheckPresenceScript string   `yaml:"check-presence-script"`
	ExecPath            string   `yaml:"exec-path"`
	Depends             []string `yaml:"depends"`
}

// ParseManifest parses rdmanifest contents. A document that does not
// parse, or that lacks the required uri field, is an invalid manifest,
// which is a different condition from failing to download one.
func ParseManifest(contents []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(contents, &m); err != nil {
		return nil, depsources.ErrInvalidManifest{Msg: fmt.Sprintf("failed to parse yaml: %s", err)}
	}
	if m.URI == "" {
		return nil, depsources.ErrInvalidManifest{Msg: "uri required for source installs"}
	}
	if m.ExecPath == "" {
		m.ExecPath = "."
	}
	return &m, nil
}

// SourceInstall is a resolved installable unit: a manifest plus the URL
// it was actually loaded from (primary or mirror).
type SourceInstall struct {
	Manifest    *Manifest
	ManifestURL string
}

// NewSourceInstall pairs a parsed manifest with its origin URL.
func NewSourceInstall(m *Manifest, manifestURL string) *SourceInstall {
	return &SourceInstall{Manifest: m, ManifestURL: manifestURL}
}

func (s *SourceInstall) String() string {
	return fmt.Sprintf("source: %s", s.ManifestURL)
}
