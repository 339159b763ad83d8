/*
 * SPDX-FileCopyrightText: Copyright (c) 2003 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NVIDIA/objroute"
)

var version = "dev"

// app holds the state shared by the commands.
type app struct {
	config *viper.Viper
	logger *zap.Logger
}

// newRootCommand creates the command tree with its own configuration.
func newRootCommand() *cobra.Command {
	a := &app{config: viper.New(), logger: zap.NewNop()}

	var cfgFile string
	cmd := &cobra.Command{
		Use:          "objroute",
		Short:        "Inspect constructor catalogs and resolution plans",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cfgFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.StringP("manifest", "m", "", "catalog manifest file")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("strict", false, "fail when no candidate matches")
	_ = a.config.BindPFlags(flags)

	a.config.SetEnvPrefix("OBJROUTE")
	a.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.config.AutomaticEnv()

	cmd.AddCommand(newCatalogCommand(a), newExplainCommand(a))
	return cmd
}

// init reads the config file and creates the logger.
func (a *app) init(cfgFile string) error {
	if cfgFile != "" {
		a.config.SetConfigFile(cfgFile)
		if err := a.config.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level, err := zapcore.ParseLevel(a.config.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	var zapConfig zap.Config
	if level == zapcore.DebugLevel {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	return nil
}

// loadCatalog builds the catalog of the configured manifest.
// Unknown targets are opaque: described members never construct them.
func (a *app) loadCatalog() (*objroute.Manifest, *objroute.Catalog, error) {
	path := a.config.GetString("manifest")
	if path == "" {
		return nil, nil, errors.New("no manifest specified")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	manifest, err := objroute.LoadManifest(file)
	if err != nil {
		return nil, nil, err
	}

	types := objroute.NewTypeRegistry()
	if _, err := types.Lookup(manifest.Target); err != nil {
		types.Register(manifest.Target, reflect.TypeOf((*any)(nil)).Elem())
	}

	catalog, err := manifest.Catalog(types, objroute.WithLogger(a.logger))
	if err != nil {
		return nil, nil, err
	}

	a.logger.Debug("manifest loaded",
		zap.String("path", path),
		zap.String("target", manifest.Target),
	)
	return manifest, catalog, nil
}
