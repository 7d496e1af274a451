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

package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/cache"
)

// fakeViewDatabase records SetViewData calls, keyed by view name.
type fakeViewDatabase struct {
	views map[string]fakeView
}

type fakeView struct {
	data         map[string]any
	dependencies []string
	origin       string
}

func newFakeViewDatabase() *fakeViewDatabase {
	return &fakeViewDatabase{views: make(map[string]fakeView)}
}

func (db *fakeViewDatabase) IsLoaded(viewName string) bool {
	_, ok := db.views[viewName]
	return ok
}

func (db *fakeViewDatabase) SetViewData(viewName string, data map[string]any, dependencies []string, origin string) {
	db.views[viewName] = fakeView{data: data, dependencies: dependencies, origin: origin}
}

func testSources(t *testing.T) []*depsources.CachedDataSource {
	t.Helper()
	a, err := depsources.NewDataSource(depsources.KindYaml, "http://example.org/a.yaml", nil, "")
	require.NoError(t, err)
	b, err := depsources.NewDataSource(depsources.KindYaml, "http://example.org/b.yaml", []string{"ubuntu"}, "")
	require.NoError(t, err)
	return []*depsources.CachedDataSource{
		depsources.NewCachedDataSource(a, map[string]any{"boost": "libboost-dev"}),
		depsources.NewCachedDataSource(b, map[string]any{"eigen": "libeigen3-dev"}),
	}
}

func TestGetLoadableViews(t *testing.T) {
	l := New(testSources(t))
	assert.Equal(t, []string{"http://example.org/a.yaml", "http://example.org/b.yaml"}, l.GetLoadableViews())
	assert.Empty(t, l.GetLoadableResources())
}

func TestGetViewDependencies(t *testing.T) {
	l := New(testSources(t))
	all := l.GetLoadableViews()

	// concrete source views are leaves
	for _, view := range all {
		assert.Empty(t, l.GetViewDependencies(view))
	}
	// the aggregate view, and any other non-source name, depends on every
	// source view
	assert.Equal(t, all, l.GetViewDependencies(AllViewKey))
	assert.Equal(t, all, l.GetViewDependencies("some-composite-view"))
}

func TestLoadView(t *testing.T) {
	l := New(testSources(t))
	db := newFakeViewDatabase()

	require.NoError(t, l.LoadView("http://example.org/a.yaml", db))
	view, ok := db.views["http://example.org/a.yaml"]
	require.True(t, ok)
	assert.Equal(t, map[string]any{"boost": "libboost-dev"}, view.data)
	assert.Empty(t, view.dependencies)
	assert.Equal(t, "http://example.org/a.yaml", view.origin)
}

func TestLoadViewIdempotent(t *testing.T) {
	l := New(testSources(t))
	db := newFakeViewDatabase()
	db.views["http://example.org/a.yaml"] = fakeView{data: map[string]any{"boost": "already-loaded"}}

	// already-loaded views are left untouched
	require.NoError(t, l.LoadView("http://example.org/a.yaml", db))
	assert.Equal(t, map[string]any{"boost": "already-loaded"}, db.views["http://example.org/a.yaml"].data)
}

func TestLoadViewUnknown(t *testing.T) {
	l := New(testSources(t))
	err := l.LoadView("http://example.org/unknown.yaml", newFakeViewDatabase())
	assert.ErrorIs(t, err, depsources.ErrResourceNotFound{Name: "http://example.org/unknown.yaml"})
}

func TestResourceLookupsReportNotFound(t *testing.T) {
	l := New(testSources(t))

	_, err := l.GetDependencyKeys("boost")
	assert.ErrorIs(t, err, depsources.ErrResourceNotFound{Name: "boost"})

	_, err = l.GetViewKey("boost")
	assert.ErrorIs(t, err, depsources.ErrResourceNotFound{Name: "boost"})
}

func TestNewDefaultFiltersByTags(t *testing.T) {
	dir := t.TempDir()
	sources := testSources(t)
	var descriptors []*depsources.DataSource
	for _, s := range sources {
		_, err := cache.WriteEntry(dir, s.URL(), s.Data())
		require.NoError(t, err)
		descriptors = append(descriptors, s.Source())
	}
	require.NoError(t, cache.WriteIndex(dir, descriptors))

	l, err := NewDefault(depsources.NewMatcher([]string{"debian"}), dir)
	require.NoError(t, err)
	// the ubuntu-tagged source is filtered out for a debian platform
	assert.Equal(t, []string{"http://example.org/a.yaml"}, l.GetLoadableViews())
}
