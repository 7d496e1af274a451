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
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-logr/stdr"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/config"
)

const userAgent = "osdep"

var (
	Verbosity    bool
	PlatformTags []string
	SourcesDir   string
	CacheDir     string
)

var rootCmd = &cobra.Command{
	Use:   "osdep",
	Short: "osdep - resolve abstract dependency keys into installable artifacts",
	Long: `osdep resolves platform-independent dependency keys into concrete,
installable artifacts for the current operating environment.

Mapping data is fetched from tag-scoped remote sources declared in
*.list files, cached content-addressed on disk, and composed into a
single precedence-ordered view. Source-based dependencies are installed
through rdmanifest recipes.`,
	Run: func(cmd *cobra.Command, args []string) {
		// show the help message if no command has been used
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&Verbosity, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringSliceVarP(&PlatformTags, "tags", "t", nil, "platform tags (distro codename, OS name, OS codename)")
	rootCmd.PersistentFlags().StringVar(&SourcesDir, "sources-dir", "", "override sources-list directory")
	rootCmd.PersistentFlags().StringVar(&CacheDir, "cache-dir", "", "override sources cache directory")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging wires the library logger and the CLI verbosity level.
func setupLogging() {
	if Verbosity {
		log.SetLevel(log.DebugLevel)
		stdr.SetVerbosity(1)
		depsources.SetLogger(stdr.New(stdlog.New(os.Stderr, "osdep", stdlog.LstdFlags)))
	}
}

// buildConfig resolves paths from flags, falling back to the XDG base
// directories. This is the only place environment conventions are read;
// everything below the CLI receives the resolved Config.
func buildConfig() *config.Config {
	cfg := config.New()
	cfg.SourcesListDir = SourcesDir
	if cfg.SourcesListDir == "" {
		cfg.SourcesListDir = filepath.Join(xdg.ConfigHome, "osdep", "sources.list.d")
	}
	cfg.CacheDir = CacheDir
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(xdg.CacheHome, "osdep", "sources.cache")
	}
	return cfg
}
