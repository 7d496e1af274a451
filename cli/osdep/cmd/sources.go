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

	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/loader"
)

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Aliases: []string{"s"},
	Short:   "List the cached data sources retained for the current platform tags",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return SourcesCmd()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func SourcesCmd() error {
	setupLogging()
	cfg := buildConfig()

	matcher := depsources.NewMatcher(PlatformTags)
	l, err := loader.NewDefault(matcher, cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to load cached sources: %w", err)
	}

	views := l.GetLoadableViews()
	if len(views) == 0 {
		fmt.Println("no cached sources match; run 'osdep init' and 'osdep update' first")
		return nil
	}
	for _, view := range views {
		source, err := l.GetSource(view)
		if err != nil {
			return err
		}
		status := "cached"
		if source.Data() == nil {
			status = "never fetched"
		}
		tags := strings.Join(source.Tags(), " ")
		if tags == "" {
			tags = "(all platforms)"
		}
		fmt.Printf("%s\t%s\t%s\n", view, tags, status)
	}
	return nil
}
