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

package objroute

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome tells what a plan constructs.
type Outcome int

// A plan calls a candidate, falls back to zero-argument or all-default
// construction, or constructs nothing.
const (
	OutcomeNoMatch Outcome = iota
	OutcomeCandidate
	OutcomeZeroArg
	OutcomeDefaults
)

// String returns outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCandidate:
		return "candidate"
	case OutcomeZeroArg:
		return "zero-arg"
	case OutcomeDefaults:
		return "defaults"
	default:
		return "no-match"
	}
}

// Plan is the decision taken for one argument vector.
// Plans are produced fresh for every resolution and never cached.
type Plan struct {
	// ID identifies the plan in logs and events.
	ID uuid.UUID

	// Target is the type to construct.
	Target reflect.Type

	// Outcome of the resolution.
	Outcome Outcome

	// Candidate to call; nil when nothing is called or when a zero-argument
	// plan allocates the target directly.
	Candidate *Candidate

	// Args are the resolved candidate arguments.
	Args []reflect.Value

	// Arity of the argument vector.
	Arity int

	// ArgTypes are the dynamic types of the supplied arguments,
	// nil for missing ones.
	ArgTypes []reflect.Type
}

// Constructs reports whether executing the plan produces an instance.
func (p *Plan) Constructs() bool {
	return p.Outcome != OutcomeNoMatch
}

// Err returns a NoMatchError when the plan constructs nothing.
func (p *Plan) Err() error {
	if p.Constructs() {
		return nil
	}
	return &NoMatchError{Target: p.Target, Arity: p.Arity, Types: p.ArgTypes}
}

// Values returns the resolved arguments as interfaces.
func (p *Plan) Values() []any {
	values := make([]any, 0, len(p.Args))
	for _, arg := range p.Args {
		values = append(values, arg.Interface())
	}
	return values
}

// Resolver selects and invokes the candidate of a catalog for an argument vector.
//
// A resolver keeps no state between resolutions and may be used
// concurrently.
type Resolver struct {
	catalog    *Catalog
	assignable Assignability
	defaults   DefaultTable
	strict     bool
	options    *options
}

// NewResolver returns a resolver over the catalog.
func NewResolver(catalog *Catalog, opts ...Option) (*Resolver, error) {
	if catalog == nil {
		return nil, errors.New("invalid resolver catalog: no catalog specified")
	}
	return newResolver(catalog, newOptions(opts))
}

// newResolver returns a resolver with prepared options.
func newResolver(catalog *Catalog, o *options) (*Resolver, error) {
	defaults, err := NewDefaultTable(o.defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare default values: %w", err)
	}
	return &Resolver{
		catalog:    catalog,
		assignable: o.assignable,
		defaults:   defaults,
		strict:     o.strict,
		options:    o,
	}, nil
}

// Catalog returns the resolver catalog.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Plan decides what to construct for the argument vector.
// A nil vector is treated as an empty one.
func (r *Resolver) Plan(args ...any) *Plan {
	plan := r.plan(args)
	plan.ID = uuid.New()
	plan.Target = r.catalog.target
	plan.Arity = len(args)
	plan.ArgTypes = argTypes(args)

	if plan.Constructs() {
		r.options.logger.Debug("plan resolved",
			zap.Stringer("plan", plan.ID),
			zap.Stringer("target", plan.Target),
			zap.Stringer("outcome", plan.Outcome),
			zap.Int("arity", plan.Arity))
		r.options.trigger(NewEvent(PlanResolved, plan))
	} else {
		r.options.logger.Debug("no candidate matched",
			zap.Stringer("plan", plan.ID),
			zap.Stringer("target", plan.Target),
			zap.Int("arity", plan.Arity))
		r.options.trigger(NewEvent(PlanNoMatch, plan.Target, plan.Arity))
	}

	return plan
}

// Instantiate resolves the argument vector and constructs the instance.
//
// When no candidate matches it returns a nil instance and a nil error,
// unless strict matching is enabled.
func (r *Resolver) Instantiate(args ...any) (any, error) {
	plan := r.Plan(args...)
	if err := plan.Err(); err != nil && r.strict {
		return nil, err
	}
	return r.Construct(plan)
}

// Construct executes a plan.
func (r *Resolver) Construct(plan *Plan) (any, error) {
	switch {
	case plan.Outcome == OutcomeNoMatch:
		return nil, nil
	case plan.Candidate == nil:
		return allocate(plan.Target), nil
	default:
		return invoke(plan.Candidate, plan.Args)
	}
}

// plan runs the resolution state machine.
func (r *Resolver) plan(args []any) *Plan {
	if r.catalog.mode == catalogModeSingleton {
		return r.planSingleton(args)
	}

	// Constructors without parameters take empty vectors.
	if len(args) == 0 && len(r.catalog.noArgs) > 0 {
		return &Plan{Outcome: OutcomeZeroArg, Candidate: r.catalog.noArgs[0]}
	}

	// Nothing to choose from: construct without arguments.
	if len(r.catalog.buckets) == 0 {
		plan := &Plan{Outcome: OutcomeZeroArg}
		if len(r.catalog.noArgs) > 0 {
			plan.Candidate = r.catalog.noArgs[0]
		}
		return plan
	}

	// First declared match of the arity wins.
	for _, candidate := range r.catalog.buckets[len(args)] {
		if r.matches(candidate.inTypes, args) {
			return &Plan{
				Outcome:   OutcomeCandidate,
				Candidate: candidate,
				Args:      r.resolveArgs(candidate.inTypes, args),
			}
		}
	}

	return &Plan{Outcome: OutcomeNoMatch}
}

// planSingleton resolves through the singleton provider, which always constructs.
func (r *Resolver) planSingleton(args []any) *Plan {
	provider := r.catalog.provider
	if provider.Arity() == 0 {
		return &Plan{Outcome: OutcomeCandidate, Candidate: provider}
	}
	if len(args) == provider.Arity() && r.matches(provider.inTypes, args) {
		return &Plan{
			Outcome:   OutcomeCandidate,
			Candidate: provider,
			Args:      r.resolveArgs(provider.inTypes, args),
		}
	}
	return &Plan{
		Outcome:   OutcomeDefaults,
		Candidate: provider,
		Args:      r.resolveArgs(provider.inTypes, nil),
	}
}

// matches checks every argument position against the declared types.
// The injected check may only narrow assignability, values are never cast.
func (r *Resolver) matches(inTypes []reflect.Type, args []any) bool {
	for index, inType := range inTypes {
		if isMissing(args[index]) {
			continue
		}
		if !reflect.TypeOf(args[index]).AssignableTo(inType) || !r.assignable(inType, args[index]) {
			return false
		}
	}
	return true
}

// resolveArgs returns supplied values, or defaults for missing positions.
// Positions past the end of args are missing.
func (r *Resolver) resolveArgs(inTypes []reflect.Type, args []any) []reflect.Value {
	values := make([]reflect.Value, 0, len(inTypes))
	for index, inType := range inTypes {
		if index >= len(args) || isMissing(args[index]) {
			values = append(values, r.defaults.Value(inType))
			continue
		}
		values = append(values, reflect.ValueOf(args[index]))
	}
	return values
}

// allocate returns a fresh zero instance of the target.
// Pointer targets get a newly allocated element.
func allocate(target reflect.Type) any {
	if target.Kind() == reflect.Ptr {
		return reflect.New(target.Elem()).Interface()
	}
	return reflect.Zero(target).Interface()
}

// argTypes returns dynamic types of the arguments, nil for missing ones.
func argTypes(args []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(args))
	for _, arg := range args {
		types = append(types, reflect.TypeOf(arg))
	}
	return types
}
