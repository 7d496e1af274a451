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
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/config"
	"github.com/osdeps/go-osdeps/depsources/fetcher"
)

// Resolver turns dependency-mapping arguments (a mapping with at least a
// "uri" key pointing at an rdmanifest) into resolved installable units.
// Resolved manifests are cached in memory for the process lifetime,
// keyed by the URL that actually succeeded, so a manifest referenced by
// several dependency keys is fetched at most once per run.
type Resolver struct {
	fetcher fetcher.Fetcher
	cfg     *config.Config

	// mu guards cache as one lookup-or-insert critical section so two
	// concurrent resolutions of the same manifest cannot both download.
	mu    sync.Mutex
	cache map[string][]*SourceInstall
}

// NewResolver creates a Resolver using f for manifest downloads.
func NewResolver(f fetcher.Fetcher, cfg *config.Config) *Resolver {
	return &Resolver{
		fetcher: f,
		cfg:     cfg,
		cache:   make(map[string][]*SourceInstall),
	}
}

// Resolve fetches and parses the rdmanifest referenced by args. Download
// and manifest-format failures both surface as invalid data: from the
// caller's perspective the mapping entry could not be resolved.
func (r *Resolver) Resolve(ctx context.Context, args map[string]any) ([]*SourceInstall, error) {
	url, ok := stringArg(args, "uri")
	if !ok {
		return nil, depsources.ErrInvalidData{Msg: "'uri' key required for source installs"}
	}
	altURL, _ := stringArg(args, "alternate-uri")
	md5sum, _ := stringArg(args, "md5sum")

	r.mu.Lock()
	defer r.mu.Unlock()
	if resolved, ok := r.cache[url]; ok {
		return resolved, nil
	}
	if altURL != "" {
		if resolved, ok := r.cache[altURL]; ok {
			return resolved, nil
		}
	}

	depsources.GetLogger().Info("downloading manifest", "url", url, "mirror", altURL)
	manifest, downloadURL, err := r.downloadManifest(ctx, url, altURL, md5sum)
	if err != nil {
		return nil, depsources.ErrInvalidData{Msg: err.Error()}
	}
	resolved := []*SourceInstall{NewSourceInstall(manifest, downloadURL)}
	r.cache[downloadURL] = resolved
	return resolved, nil
}

// DependsOn returns the dependency keys of args: the explicit "depends"
// list merged with the depends declared inside the resolved manifest.
// Manifest-level dependencies are additive, not a replacement.
func (r *Resolver) DependsOn(ctx context.Context, args map[string]any) ([]string, error) {
	var deps []string
	if raw, ok := args["depends"].([]any); ok {
		for _, d := range raw {
			if s, ok := d.(string); ok {
				deps = append(deps, s)
			}
		}
	}
	resolved, err := r.Resolve(ctx, args)
	if err != nil {
		return nil, err
	}
	for _, si := range resolved {
		deps = append(deps, si.Manifest.Depends...)
	}
	return deps, nil
}

// downloadManifest fetches the rdmanifest from url, retrying the mirror
// if the primary yields nothing. The returned URL is the location that
// actually produced the manifest. When both locations fail the error
// names both.
func (r *Resolver) downloadManifest(ctx context.Context, url, altURL, md5sum string) (*Manifest, string, error) {
	downloadURL := url
	errPrefix := fmt.Sprintf("failed to load an rdmanifest from %s", url)
	contents, fetchErr := r.fetchVerified(ctx, downloadURL, md5sum)
	if len(contents) == 0 && altURL != "" {
		errPrefix = fmt.Sprintf("failed to load an rdmanifest from either %s or %s", url, altURL)
		downloadURL = altURL
		contents, fetchErr = r.fetchVerified(ctx, downloadURL, md5sum)
	}
	if len(contents) == 0 {
		if fetchErr == nil {
			fetchErr = depsources.ErrDownload{Msg: "empty contents"}
		}
		return nil, "", fmt.Errorf("%s: %w", errPrefix, fetchErr)
	}
	manifest, err := ParseManifest(contents)
	if err != nil {
		return nil, "", err
	}
	return manifest, downloadURL, nil
}

// fetchVerified downloads a file and, when md5sum is set, validates the
// received bytes against it.
func (r *Resolver) fetchVerified(ctx context.Context, url, md5sum string) ([]byte, error) {
	contents, err := r.fetcher.DownloadFile(ctx, url, r.cfg.MaxDocumentLength, r.cfg.DownloadTimeout)
	if err != nil {
		return nil, err
	}
	if md5sum != "" {
		sum := md5.Sum(contents)
		if actual := hex.EncodeToString(sum[:]); actual != md5sum {
			return nil, depsources.ErrChecksumMismatch{Msg: fmt.Sprintf("md5sum didn't match for %s. Expected %s got %s", url, md5sum, actual)}
		}
	}
	return contents, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
