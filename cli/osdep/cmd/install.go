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

	"github.com/spf13/cobra"

	"github.com/osdeps/go-osdeps/depsources/fetcher"
	"github.com/osdeps/go-osdeps/install"
)

var installCmd = &cobra.Command{
	Use:     "install <rdmanifest-url-or-file>",
	Aliases: []string{"i"},
	Short:   "Install a source-based dependency from an rdmanifest",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return InstallCmd(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func InstallCmd(cmd *cobra.Command, manifest string) error {
	setupLogging()
	cfg := buildConfig()

	installer := install.NewInstaller(fetcher.NewDefaultFetcher(userAgent), install.ExecRunner{}, cfg)

	var err error
	if _, statErr := os.Stat(manifest); statErr == nil {
		err = installer.InstallFromFile(cmd.Context(), manifest)
	} else {
		err = installer.InstallFromURL(cmd.Context(), manifest)
	}
	if err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}
	fmt.Printf("Successfully installed %s\n", manifest)
	return nil
}
