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

// Package fetcher provides the network fetch primitive the rest of the
// module depends on: raw bytes or a download error, nothing else.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/osdeps/go-osdeps/depsources"
)

// Fetcher interface
type Fetcher interface {
	DownloadFile(ctx context.Context, urlPath string, maxLength int64, timeout time.Duration) ([]byte, error)
}

// DefaultFetcher implements Fetcher over HTTP with a bounded retry for
// transient failures. Client errors (4xx) are permanent.
type DefaultFetcher struct {
	httpUserAgent string
	maxTries      uint
}

// NewDefaultFetcher returns a DefaultFetcher with the given User-Agent.
func NewDefaultFetcher(userAgent string) *DefaultFetcher {
	return &DefaultFetcher{httpUserAgent: userAgent, maxTries: 3}
}

// DownloadFile downloads a file from urlPath, errors out if it failed,
// its length is larger than maxLength or the timeout is reached.
func (d *DefaultFetcher) DownloadFile(ctx context.Context, urlPath string, maxLength int64, timeout time.Duration) ([]byte, error) {
	operation := func() ([]byte, error) {
		return d.downloadOnce(ctx, urlPath, maxLength, timeout)
	}
	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(d.maxTries))
	if err != nil {
		// Re-raise transport errors as the download condition, keeping
		// already-typed errors as they are.
		if errors.Is(err, depsources.ErrDownload{}) {
			return nil, err
		}
		return nil, depsources.ErrDownload{Msg: fmt.Sprintf("failed to download %s: %s", urlPath, err)}
	}
	return data, nil
}

func (d *DefaultFetcher) downloadOnce(ctx context.Context, urlPath string, maxLength int64, timeout time.Duration) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	// Use in case of multiple sessions.
	if d.httpUserAgent != "" {
		req.Header.Set("User-Agent", d.httpUserAgent)
	}
	// Execute the request.
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	// Handle HTTP status codes.
	if res.StatusCode != http.StatusOK {
		httpErr := depsources.ErrDownloadHTTP{StatusCode: res.StatusCode, URL: urlPath}
		// Retrying a client error will not change the outcome.
		if res.StatusCode >= 400 && res.StatusCode < 500 {
			return nil, backoff.Permanent(httpErr)
		}
		return nil, httpErr
	}
	var length int64
	// Get content length from header (might not be accurate, -1 or not set).
	if header := res.Header.Get("Content-Length"); header != "" {
		length, err = strconv.ParseInt(header, 10, 0)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		// Error if the reported size is greater than what is expected.
		if length > maxLength {
			return nil, backoff.Permanent(depsources.ErrDownload{Msg: fmt.Sprintf("download failed for %s, length %d is larger than expected %d", urlPath, length, maxLength)})
		}
	}
	// Although the size has been checked above, use a LimitReader in case
	// the reported size is inaccurate, or size is -1 which indicates an
	// unknown length. We read maxLength + 1 in order to check if the read data
	// surpased our set limit.
	data, err := io.ReadAll(io.LimitReader(res.Body, maxLength+1))
	if err != nil {
		return nil, err
	}
	// Error if the received size is greater than what is expected.
	length = int64(len(data))
	if length > maxLength {
		return nil, backoff.Permanent(depsources.ErrDownload{Msg: fmt.Sprintf("download failed for %s, length %d is larger than expected %d", urlPath, length, maxLength)})
	}

	return data, nil
}
