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
	"strings"

	"github.com/spf13/cobra"

	"github.com/osdeps/go-osdeps/depsources/fetcher"
	"github.com/osdeps/go-osdeps/install"
)

var (
	resolveAlternateURI string
	resolveMD5Sum       string
)

var resolveCmd = &cobra.Command{
	Use:     "resolve <rdmanifest-url>",
	Aliases: []string{"r"},
	Short:   "Resolve an rdmanifest into its installable unit",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ResolveCmd(cmd, args[0])
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveAlternateURI, "alternate-uri", "", "mirror URL for the rdmanifest")
	resolveCmd.Flags().StringVar(&resolveMD5Sum, "md5sum", "", "expected md5sum of the rdmanifest")
	rootCmd.AddCommand(resolveCmd)
}

func ResolveCmd(cmd *cobra.Command, uri string) error {
	setupLogging()
	cfg := buildConfig()

	resolver := install.NewResolver(fetcher.NewDefaultFetcher(userAgent), cfg)
	args := map[string]any{"uri": uri}
	if resolveAlternateURI != "" {
		args["alternate-uri"] = resolveAlternateURI
	}
	if resolveMD5Sum != "" {
		args["md5sum"] = resolveMD5Sum
	}

	resolved, err := resolver.Resolve(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", uri, err)
	}
	for _, si := range resolved {
		m := si.Manifest
		fmt.Printf("manifest: %s\n", si.ManifestURL)
		fmt.Printf("  tarball: %s\n", m.URI)
		if m.AlternateURI != "" {
			fmt.Printf("  mirror: %s\n", m.AlternateURI)
		}
		if m.MD5Sum != "" {
			fmt.Printf("  md5sum: %s\n", m.MD5Sum)
		}
		fmt.Printf("  exec-path: %s\n", m.ExecPath)
		if len(m.Depends) > 0 {
			fmt.Printf("  depends: %s\n", strings.Join(m.Depends, ", "))
		}
	}
	return nil
}
