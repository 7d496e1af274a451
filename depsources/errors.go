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
	"fmt"
)

// Error taxonomy shared across the module. Names start with 'Err' and the
// subset relations between conditions are expressed through Is() so that
// callers can branch on the broad category.

// ErrInvalidData - malformed sources-list line, missing required manifest
// field, or a fetched document with the wrong top-level structure. Fatal
// to the specific operation, never silently defaulted.
type ErrInvalidData struct {
	Msg    string
	Origin string
}

func (e ErrInvalidData) Error() string {
	if e.Origin != "" {
		return fmt.Sprintf("invalid data in %s: %s", e.Origin, e.Msg)
	}
	return fmt.Sprintf("invalid data: %s", e.Msg)
}

// Any ErrInvalidData matches the ErrInvalidData category
func (e ErrInvalidData) Is(target error) bool {
	_, ok := target.(ErrInvalidData)
	return ok
}

// ErrInvalidManifest - a downloaded dependency-recipe document that fails
// structural parsing, distinct from a download failure.
type ErrInvalidManifest struct {
	Msg string
}

func (e ErrInvalidManifest) Error() string {
	return fmt.Sprintf("invalid manifest: %s", e.Msg)
}

// ErrInvalidManifest is a subset of ErrInvalidData
func (e ErrInvalidManifest) Is(target error) bool {
	switch target.(type) {
	case ErrInvalidData, ErrInvalidManifest:
		return true
	}
	return false
}

// ErrDownload - an error occurred while attempting to download a file
type ErrDownload struct {
	Msg string
}

func (e ErrDownload) Error() string {
	return fmt.Sprintf("download error: %s", e.Msg)
}

// Any ErrDownload matches the ErrDownload category
func (e ErrDownload) Is(target error) bool {
	_, ok := target.(ErrDownload)
	return ok
}

// ErrDownloadHTTP - returned by Fetcher implementations for HTTP errors
type ErrDownloadHTTP struct {
	StatusCode int
	URL        string
}

func (e ErrDownloadHTTP) Error() string {
	return fmt.Sprintf("failed to download %s, http status code: %d", e.URL, e.StatusCode)
}

// ErrDownloadHTTP is a subset of ErrDownload
func (e ErrDownloadHTTP) Is(target error) bool {
	switch target.(type) {
	case ErrDownload, ErrDownloadHTTP:
		return true
	}
	return false
}

// ErrChecksumMismatch - downloaded bytes did not match the declared
// digest, after exhausting any declared mirror.
type ErrChecksumMismatch struct {
	Msg string
}

func (e ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("checksum mismatch: %s", e.Msg)
}

// ErrChecksumMismatch is a subset of ErrDownload
func (e ErrChecksumMismatch) Is(target error) bool {
	switch target.(type) {
	case ErrDownload, ErrChecksumMismatch:
		return true
	}
	return false
}

// ErrInstallFailed - a single dependency's installation failed (script
// exit, extraction error). Cleanup of the working directory has already
// happened when this surfaces.
type ErrInstallFailed struct {
	Installer string
	Msg       string
}

func (e ErrInstallFailed) Error() string {
	return fmt.Sprintf("installer [%s] failed: %s", e.Installer, e.Msg)
}

// Any ErrInstallFailed matches the ErrInstallFailed category
func (e ErrInstallFailed) Is(target error) bool {
	_, ok := target.(ErrInstallFailed)
	return ok
}

// ErrResourceNotFound - the requested view or resource is outside what a
// loader owns. Callers should treat this as "try another loader", not as
// a hard error.
type ErrResourceNotFound struct {
	Name string
}

func (e ErrResourceNotFound) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Name)
}

// Any ErrResourceNotFound matches the ErrResourceNotFound category
func (e ErrResourceNotFound) Is(target error) bool {
	_, ok := target.(ErrResourceNotFound)
	return ok
}
