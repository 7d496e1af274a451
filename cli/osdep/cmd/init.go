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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/osdeps/go-osdeps/depsources/fetcher"
	"github.com/osdeps/go-osdeps/depsources/updater"
)

const defaultListName = "20-default.list"

var (
	initForce      bool
	initSourcesURL string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the sources-list directory with the default sources list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return InitCmd(cmd)
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing default sources list")
	initCmd.Flags().StringVar(&initSourcesURL, "sources-url", "", "override URL of the default sources list")
	rootCmd.AddCommand(initCmd)
}

func InitCmd(cmd *cobra.Command) error {
	setupLogging()
	cfg := buildConfig()
	if initSourcesURL != "" {
		cfg.DefaultSourcesURL = initSourcesURL
	}

	target := filepath.Join(cfg.SourcesListDir, defaultListName)
	if _, err := os.Stat(target); err == nil && !initForce {
		return fmt.Errorf("default sources list already exists: %s (use --force to overwrite)", target)
	}

	data, err := updater.DownloadDefaultSourcesList(cmd.Context(), fetcher.NewDefaultFetcher(userAgent), cfg)
	if err != nil {
		return fmt.Errorf("failed to download default sources list: %w", err)
	}
	if err := os.MkdirAll(cfg.SourcesListDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\nRun 'osdep update' to populate the cache.\n", target)
	return nil
}
