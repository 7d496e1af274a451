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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osdeps/go-osdeps/depsources/fetcher"
	"github.com/osdeps/go-osdeps/depsources/updater"
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"u"},
	Short:   "Re-fetch every configured data source and rebuild the cache",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return UpdateCmd(cmd)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func UpdateCmd(cmd *cobra.Command) error {
	setupLogging()
	cfg := buildConfig()

	up := updater.New(cfg, fetcher.NewDefaultFetcher(userAgent))
	results, err := up.Update(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to update sources: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			log.Errorf("error updating %s: %s", res.Source.URL(), res.Err)
			continue
		}
		log.Infof("updated %s -> %s", res.Source.URL(), res.CachePath)
		fmt.Printf("Hit %s\n", res.Source.URL())
	}
	fmt.Printf("updated cache in %s (%d sources, %d failed)\n", cfg.CacheDir, len(results), failed)
	if failed == len(results) && failed > 0 {
		return fmt.Errorf("all %d sources failed to update", failed)
	}
	return nil
}
