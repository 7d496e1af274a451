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
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/config"
	"github.com/osdeps/go-osdeps/depsources/fetcher"
)

// InstallerName is the fixed installer identifier reported in
// installation failures.
const InstallerName = "source"

// Installer executes resolved source installs: presence check, tarball
// fetch with mirror fallback, checksum verification, extraction, script
// execution and guaranteed cleanup of the working directory.
type Installer struct {
	fetcher  fetcher.Fetcher
	runner   ScriptRunner
	cfg      *config.Config
	workRoot string
}

// NewInstaller creates an Installer. Working directories are created
// under the system temp dir.
func NewInstaller(f fetcher.Fetcher, r ScriptRunner, cfg *config.Config) *Installer {
	return &Installer{fetcher: f, runner: r, cfg: cfg}
}

// Install runs the full pipeline for one resolved unit. The working
// directory is removed on every exit path, success or failure: a failed
// install must never leave residue behind that a later presence check or
// retry could misread.
func (ins *Installer) Install(ctx context.Context, si *SourceInstall) error {
	m := si.Manifest
	log := depsources.GetLogger()

	// Presence check first: a satisfied dependency never touches the
	// network.
	if m.CheckPresenceScript != "" {
		ok, _, err := ins.runner.Run(m.CheckPresenceScript, "")
		if err != nil {
			return depsources.ErrInstallFailed{Installer: InstallerName, Msg: fmt.Sprintf("failed to run presence check: %s", err)}
		}
		if ok {
			log.Info("dependency already present, skipping install", "manifest", si.ManifestURL)
			return nil
		}
	}

	workDir, err := os.MkdirTemp(ins.workRoot, "osdep-install-")
	if err != nil {
		return depsources.ErrInstallFailed{Installer: InstallerName, Msg: fmt.Sprintf("failed to create working directory: %s", err)}
	}
	defer func() {
		log.Info("cleaning up working directory", "dir", workDir)
		os.RemoveAll(workDir)
	}()

	tarballPath, err := ins.fetchTarball(ctx, workDir, m)
	if err != nil {
		return err
	}

	// Disk-image artifacts are not unpackable by archive logic; this is
	// a narrow exemption, not general format detection.
	if !strings.HasSuffix(tarballPath, ".dmg") {
		log.Info("extracting tarball", "path", tarballPath)
		if err := extractTarball(tarballPath, workDir); err != nil {
			return depsources.ErrInstallFailed{Installer: InstallerName, Msg: fmt.Sprintf("failed to extract %s: %s", tarballPath, err)}
		}
	} else {
		log.Info("bypassing tarball extraction as it is a dmg")
	}

	log.Info("running installation script")
	ok, output, err := ins.runner.Run(m.InstallScript, filepath.Join(workDir, m.ExecPath))
	if err != nil {
		return depsources.ErrInstallFailed{Installer: InstallerName, Msg: fmt.Sprintf("failed to run installation script: %s", err)}
	}
	if !ok {
		log.Error(nil, "installation script failed", "output", string(output))
		return depsources.ErrInstallFailed{Installer: InstallerName, Msg: "installation script returned with error code"}
	}
	log.Info("successfully executed script")
	return nil
}

// fetchTarball downloads the unit's tarball into workDir and verifies it
// against the declared checksum. A mismatch (or failed fetch) on the
// primary falls back to the mirror when one is declared; when both
// mismatch the error reports both observed digests against the expected
// one. With no checksum declared the fetched bytes are accepted as-is.
func (ins *Installer) fetchTarball(ctx context.Context, workDir string, m *Manifest) (string, error) {
	log := depsources.GetLogger()
	log.Info("fetching tarball", "uri", m.URI)
	data, fetchErr := ins.fetcher.DownloadFile(ctx, m.URI, ins.cfg.MaxDocumentLength, ins.cfg.DownloadTimeout)

	if m.MD5Sum == "" {
		if fetchErr != nil {
			return "", depsources.ErrInstallFailed{Installer: InstallerName, Msg: fmt.Sprintf("failed to fetch tarball %s: %s", m.URI, fetchErr)}
		}
		log.Info("no md5sum defined for tarball, not checking")
		return ins.writeTarball(workDir, m.URI, data)
	}

	log.Info("checking md5sum on tarball")
	hash1 := observedDigest(data, fetchErr)
	if fetchErr == nil && hash1 == m.MD5Sum {
		return ins.writeTarball(workDir, m.URI, data)
	}

	if m.AlternateURI == "" {
		return "", depsources.ErrInstallFailed{
			Installer: InstallerName,
			Msg:       fmt.Sprintf("md5sum check on %s failed. Expected %s got %s", m.URI, m.MD5Sum, hash1),
		}
	}

	log.Info("primary tarball failed checksum, trying mirror", "mirror", m.AlternateURI)
	data, fetchErr = ins.fetcher.DownloadFile(ctx, m.AlternateURI, ins.cfg.MaxDocumentLength, ins.cfg.DownloadTimeout)
	hash2 := observedDigest(data, fetchErr)
	if fetchErr == nil && hash2 == m.MD5Sum {
		return ins.writeTarball(workDir, m.AlternateURI, data)
	}
	return "", depsources.ErrInstallFailed{
		Installer: InstallerName,
		Msg:       fmt.Sprintf("md5sum check on %s and %s failed. Expected %s got %s and %s", m.URI, m.AlternateURI, m.MD5Sum, hash1, hash2),
	}
}

// writeTarball stores fetched bytes under the URL's base filename.
func (ins *Installer) writeTarball(workDir, rawURL string, data []byte) (string, error) {
	name := tarballName(rawURL)
	target := filepath.Join(workDir, name)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", depsources.ErrInstallFailed{Installer: InstallerName, Msg: fmt.Sprintf("failed to write tarball: %s", err)}
	}
	return target, nil
}

// observedDigest reports what the verification step saw: the md5 hex
// digest of the received bytes, or the download failure when there are
// none.
func observedDigest(data []byte, fetchErr error) string {
	if fetchErr != nil {
		return fmt.Sprintf("download failure (%s)", fetchErr)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func tarballName(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		return path.Base(parsed.Path)
	}
	return path.Base(rawURL)
}

// InstallFromFile parses a local rdmanifest and installs it.
func (ins *Installer) InstallFromFile(ctx context.Context, manifestPath string) error {
	contents, err := os.ReadFile(manifestPath)
	if err != nil {
		return depsources.ErrInvalidData{Msg: err.Error(), Origin: manifestPath}
	}
	m, err := ParseManifest(contents)
	if err != nil {
		return err
	}
	return ins.Install(ctx, NewSourceInstall(m, manifestPath))
}

// InstallFromURL downloads an rdmanifest and installs it.
func (ins *Installer) InstallFromURL(ctx context.Context, manifestURL string) error {
	contents, err := ins.fetcher.DownloadFile(ctx, manifestURL, ins.cfg.MaxDocumentLength, ins.cfg.DownloadTimeout)
	if err != nil {
		return err
	}
	m, err := ParseManifest(contents)
	if err != nil {
		return err
	}
	return ins.Install(ctx, NewSourceInstall(m, manifestURL))
}
