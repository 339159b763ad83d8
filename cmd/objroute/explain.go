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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/objroute"
)

func newExplainCommand(a *app) *cobra.Command {
	var rawArgs string
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain which candidate an argument vector resolves to",
		Long: `Explain which candidate an argument vector resolves to.

Arguments are given as a YAML (or JSON) list. A null element is a
missing argument: it matches any parameter and resolves to the default
value of the parameter type.

Examples:
  objroute explain --manifest user.yaml --args '["gopher", 13]'
  objroute explain --manifest user.yaml --args '[null, 13]' --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var args []any
			if err := yaml.Unmarshal([]byte(rawArgs), &args); err != nil {
				return fmt.Errorf("failed to decode arguments: %w", err)
			}

			_, catalog, err := a.loadCatalog()
			if err != nil {
				return err
			}

			resolver, err := objroute.NewResolver(catalog, objroute.WithLogger(a.logger))
			if err != nil {
				return err
			}

			plan := resolver.Plan(args...)
			printPlan(cmd.OutOrStdout(), plan)

			if a.config.GetBool("strict") {
				return plan.Err()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rawArgs, "args", "a", "[]", "argument vector as a YAML list")
	return cmd
}

// printPlan writes the plan decision.
func printPlan(out io.Writer, plan *objroute.Plan) {
	candidate := "-"
	if plan.Candidate != nil {
		candidate = plan.Candidate.String()
	}
	_, _ = fmt.Fprintf(out, "plan:      %s\n", plan.ID)
	_, _ = fmt.Fprintf(out, "outcome:   %s\n", plan.Outcome)
	_, _ = fmt.Fprintf(out, "candidate: %s\n", candidate)
	_, _ = fmt.Fprintf(out, "arity:     %d\n", plan.Arity)
	_, _ = fmt.Fprintf(out, "args:      %v\n", plan.Values())
}
