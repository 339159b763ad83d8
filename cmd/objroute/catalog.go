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
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/objroute"
)

func newCatalogCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the candidates of a manifest grouped by arity",
		Long: `Print the candidates of a manifest grouped by arity.

Candidates are listed in declaration order, which is the order the
resolver tries them in.

Examples:
  objroute catalog --manifest user.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), manifest, catalog)
			return nil
		},
	}
}

// printCatalog writes the catalog layout.
func printCatalog(out io.Writer, manifest *objroute.Manifest, catalog *objroute.Catalog) {
	_, _ = fmt.Fprintf(out, "path:      %s\n", manifest.Path)
	_, _ = fmt.Fprintf(out, "target:    %s\n", manifest.Target)
	if catalog.IsSingleton() {
		_, _ = fmt.Fprintf(out, "mode:      singleton\n")
		_, _ = fmt.Fprintf(out, "provider:  %s\n", catalog.Provider())
		return
	}

	_, _ = fmt.Fprintf(out, "mode:      instance\n")
	if noArgs := catalog.NoArgs(); len(noArgs) > 0 {
		_, _ = fmt.Fprintf(out, "no-args:   %s\n", joinCandidates(noArgs))
	}
	for _, arity := range catalog.Arities() {
		_, _ = fmt.Fprintf(out, "arity %d:   %s\n", arity, joinCandidates(catalog.Bucket(arity)))
	}
}

func joinCandidates(candidates []*objroute.Candidate) string {
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		names = append(names, candidate.String())
	}
	return strings.Join(names, ", ")
}
