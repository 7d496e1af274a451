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

// Package depsources models remote dependency-mapping data sources: where
// they live, which platforms they apply to, and how the on-disk sources
// list that declares them is parsed.
package depsources

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// SourceKind is the declared type of a data source.
type SourceKind string

const (
	// KindYaml is a plain YAML dependency-mapping document.
	KindYaml SourceKind = "yaml"
	// KindGbpDistro is a distro-aggregation source that is converted into
	// the same document shape during update.
	KindGbpDistro SourceKind = "gbpdistro"
)

// ParseSourceKind validates a declared source type string.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case KindYaml:
		return KindYaml, nil
	case KindGbpDistro:
		return KindGbpDistro, nil
	}
	return "", ErrInvalidData{Msg: fmt.Sprintf("source type must be one of [%s, %s], got %q", KindYaml, KindGbpDistro, s)}
}

// DataSource describes a single remote mapping-data source. It is
// immutable after construction, all fields are reachable through
// accessors only.
type DataSource struct {
	kind   SourceKind
	url    string
	tags   []string
	origin string
}

// NewDataSource validates and builds a DataSource. The URL must carry a
// scheme, a host and a non-root path. The origin records where the
// declaration came from (filename, index path) for debugging.
func NewDataSource(kind SourceKind, rawURL string, tags []string, origin string) (*DataSource, error) {
	if _, err := ParseSourceKind(string(kind)); err != nil {
		return nil, err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" || parsed.Path == "" || parsed.Path == "/" {
		return nil, ErrInvalidData{Msg: fmt.Sprintf("url must be a fully-specified URL with scheme, hostname, and path: %s", rawURL)}
	}
	return &DataSource{
		kind:   kind,
		url:    rawURL,
		tags:   slices.Clone(tags),
		origin: origin,
	}, nil
}

// Kind returns the declared source type.
func (s *DataSource) Kind() SourceKind { return s.kind }

// URL returns the data location.
func (s *DataSource) URL() string { return s.url }

// Tags returns a copy of the platform tags scoping this source.
func (s *DataSource) Tags() []string { return slices.Clone(s.tags) }

// Origin returns the debug provenance of the declaration.
func (s *DataSource) Origin() string { return s.origin }

// Equal reports whether two sources carry identical fields.
func (s *DataSource) Equal(other *DataSource) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.kind == other.kind &&
		s.url == other.url &&
		slices.Equal(s.tags, other.tags) &&
		s.origin == other.origin
}

func (s *DataSource) String() string {
	if s.origin != "" {
		return fmt.Sprintf("[%s]:\n%s %s %s", s.origin, s.kind, s.url, strings.Join(s.tags, " "))
	}
	return fmt.Sprintf("%s %s %s", s.kind, s.url, strings.Join(s.tags, " "))
}

// CachedDataSource pairs a DataSource with the mapping document loaded
// from its cache entry. It is not a DataSource subtype, it holds the
// descriptor and delegates the read-only accessors to it.
type CachedDataSource struct {
	source *DataSource
	data   map[string]any
}

// NewCachedDataSource wraps source with its cached mapping data. A nil
// data means the source has never been fetched successfully, which is a
// valid state.
func NewCachedDataSource(source *DataSource, data map[string]any) *CachedDataSource {
	return &CachedDataSource{source: source, data: data}
}

// Source returns the wrapped descriptor.
func (c *CachedDataSource) Source() *DataSource { return c.source }

// Data returns the cached mapping document, nil if never cached.
func (c *CachedDataSource) Data() map[string]any { return c.data }

// Kind returns the declared source type.
func (c *CachedDataSource) Kind() SourceKind { return c.source.Kind() }

// URL returns the data location.
func (c *CachedDataSource) URL() string { return c.source.URL() }

// Tags returns a copy of the platform tags scoping this source.
func (c *CachedDataSource) Tags() []string { return c.source.Tags() }

// Origin returns the debug provenance of the declaration.
func (c *CachedDataSource) Origin() string { return c.source.Origin() }

func (c *CachedDataSource) String() string {
	return fmt.Sprintf("%s\n%v", c.source, c.data)
}

// Matcher decides whether a data source applies to the current platform.
type Matcher struct {
	tags map[string]bool
}

// NewMatcher builds a Matcher from the current platform tags (distro
// codename, OS name, OS codename). Tag derivation happens outside this
// package, empty entries are dropped here.
func NewMatcher(tags []string) Matcher {
	m := Matcher{tags: make(map[string]bool, len(tags))}
	for _, t := range tags {
		if t != "" {
			m.tags[t] = true
		}
	}
	return m
}

// Matches reports whether every tag on the source is present in the
// matcher's tag set. A source with no tags matches any platform.
func (m Matcher) Matches(source *DataSource) bool {
	for _, t := range source.Tags() {
		if !m.tags[t] {
			return false
		}
	}
	return true
}

// Tags returns the matcher's tag set in sorted order.
func (m Matcher) Tags() []string {
	out := make([]string, 0, len(m.tags))
	for t := range m.tags {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
