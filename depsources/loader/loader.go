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

// Package loader composes cached data sources into named views with
// precedence and exposes them through the contract the external
// dependency database consumes.
package loader

import (
	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/cache"
)

// AllViewKey names the synthetic aggregate view that depends on every
// concrete source view.
const AllViewKey = "sources.list"

// ViewDatabase is the external dependency database a loader registers
// view data into.
type ViewDatabase interface {
	// IsLoaded reports whether viewName has already been registered.
	IsLoaded(viewName string) bool
	// SetViewData registers a view's mapping data, its dependency edges
	// and its origin.
	SetViewData(viewName string, data map[string]any, dependencies []string, origin string)
}

// Loader is the pluggable contract the dependency database drives.
// Not-found conditions are typed (depsources.ErrResourceNotFound) so
// callers can fall through to another loader.
type Loader interface {
	LoadView(viewName string, db ViewDatabase) error
	GetLoadableViews() []string
	GetLoadableResources() []string
	GetViewDependencies(viewName string) []string
	GetDependencyKeys(resourceName string) ([]string, error)
	GetViewKey(resourceName string) (string, error)
}

// SourcesListLoader implements the Loader contract over cached sources.
// It is a bit degenerate on purpose: it owns view data only, never
// concrete resource-to-view mappings, so every resource-name-based call
// reports not-found. A composing loader layers resource lookups on top
// by making all of its views depend on all of the views here.
type SourcesListLoader struct {
	sources []*depsources.CachedDataSource
}

var _ Loader = (*SourcesListLoader)(nil)

// New builds a loader over an explicit list of cached sources.
func New(sources []*depsources.CachedDataSource) *SourcesListLoader {
	return &SourcesListLoader{sources: sources}
}

// NewDefault loads the cache index from cacheDir, loads each referenced
// entry, filters by matcher and retains source order.
func NewDefault(matcher depsources.Matcher, cacheDir string) (*SourcesListLoader, error) {
	log := depsources.GetLogger()
	log.Info("using matcher", "tags", matcher.Tags())

	cached, err := cache.LoadCachedSources(cacheDir)
	if err != nil {
		return nil, err
	}
	log.Info("loaded sources", "count", len(cached))

	var retained []*depsources.CachedDataSource
	for _, c := range cached {
		if matcher.Matches(c.Source()) {
			retained = append(retained, c)
		}
	}
	log.Info("sources match current tags", "count", len(retained))
	return New(retained), nil
}

// LoadView loads view data into db. If the view has already been loaded
// this does nothing. Unknown concrete view names (other than the
// aggregate rule below) report not-found.
func (l *SourcesListLoader) LoadView(viewName string, db ViewDatabase) error {
	if db.IsLoaded(viewName) {
		return nil
	}
	source, err := l.GetSource(viewName)
	if err != nil {
		return err
	}
	depsources.GetLogger().Info("loading view with sources-list loader", "view", viewName)
	db.SetViewData(viewName, source.Data(), l.GetViewDependencies(viewName), viewName)
	return nil
}

// GetLoadableViews returns one view name per retained source, nothing
// else: the aggregate view is implicit, reachable only through
// GetViewDependencies on a name that is not a concrete source.
func (l *SourcesListLoader) GetLoadableViews() []string {
	views := make([]string, 0, len(l.sources))
	for _, s := range l.sources {
		views = append(views, s.URL())
	}
	return views
}

// GetLoadableResources is always empty for this loader.
func (l *SourcesListLoader) GetLoadableResources() []string {
	return nil
}

// GetViewDependencies implements precedence through dependency edges: a
// concrete source view is a leaf, while any other name, the aggregate
// key included, depends on every view this loader provides.
func (l *SourcesListLoader) GetViewDependencies(viewName string) []string {
	if viewName != AllViewKey {
		for _, s := range l.sources {
			if s.URL() == viewName {
				return nil
			}
		}
	}
	return l.GetLoadableViews()
}

// GetSource returns the cached source whose URL is viewName.
func (l *SourcesListLoader) GetSource(viewName string) (*depsources.CachedDataSource, error) {
	for _, s := range l.sources {
		if s.URL() == viewName {
			return s, nil
		}
	}
	return nil, depsources.ErrResourceNotFound{Name: viewName}
}

// GetDependencyKeys always reports not-found: this loader defines no
// concrete resources with dependency keys.
func (l *SourcesListLoader) GetDependencyKeys(resourceName string) ([]string, error) {
	return nil, depsources.ErrResourceNotFound{Name: resourceName}
}

// GetViewKey always reports not-found: this loader cannot map resource
// names to views.
func (l *SourcesListLoader) GetViewKey(resourceName string) (string, error) {
	return "", depsources.ErrResourceNotFound{Name: resourceName}
}
