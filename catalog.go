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
	"slices"

	"go.uber.org/zap"
)

// catalogMode tells how a catalog resolves instances.
type catalogMode int

// A catalog resolves through arity buckets or through its singleton provider.
const (
	catalogModeInstance catalogMode = iota
	catalogModeSingleton
)

// Catalog describes the candidates eligible to construct a target type.
//
// A catalog is built once by BuildCatalog and is read-only afterwards,
// so it may be shared between goroutines without synchronization.
type Catalog struct {
	// Target type.
	target reflect.Type

	// Catalog mode.
	mode catalogMode

	// Singleton provider.
	// Only for singleton catalogs.
	provider *Candidate

	// Constructors without parameters, in declaration order.
	// Only for instance catalogs.
	noArgs []*Candidate

	// Constructors bucketed by arity, in declaration order.
	// Only for instance catalogs.
	buckets map[int][]*Candidate
}

// BuildCatalog builds the catalog of target from its declared members.
//
// The first singleton provider found wins: the scan stops there and every
// instance constructor is ignored. Otherwise instance constructors are
// grouped by arity in declaration order. Constructors with a variadic tail
// are skipped. Unmarked members are ignored.
//
// The returned error only reports members that could not be loaded.
func BuildCatalog(target reflect.Type, members []*Member, opts ...Option) (*Catalog, error) {
	if target == nil {
		return nil, errors.New("invalid catalog target: no type specified")
	}
	return buildCatalog(target, members, newOptions(opts))
}

// CatalogOf builds the catalog of the T type.
func CatalogOf[T any](members []*Member, opts ...Option) (*Catalog, error) {
	return BuildCatalog(reflect.TypeOf((*T)(nil)).Elem(), members, opts...)
}

// buildCatalog builds the catalog with prepared options.
func buildCatalog(target reflect.Type, members []*Member, o *options) (*Catalog, error) {
	catalog := &Catalog{
		target:  target,
		mode:    catalogModeInstance,
		buckets: make(map[int][]*Candidate),
	}

	// Look for the singleton provider first.
	for index, member := range members {
		if member == nil || member.memberKind != MemberSingletonProvider {
			continue
		}
		candidate, err := member.load(target, index)
		if err != nil {
			return nil, fmt.Errorf("failed to load singleton provider: %w", err)
		}
		catalog.mode = catalogModeSingleton
		catalog.provider = candidate
		break
	}

	// Bucket instance constructors by arity.
	if catalog.mode == catalogModeInstance {
		for index, member := range members {
			if member == nil || member.memberKind != MemberInstanceConstructor {
				continue
			}
			candidate, err := member.load(target, index)
			if err != nil {
				return nil, fmt.Errorf("failed to load constructor: %w", err)
			}

			switch {
			case candidate.Arity() == 0:
				catalog.noArgs = append(catalog.noArgs, candidate)
			case candidate.variadic:
				o.logger.Debug("skipping variadic constructor",
					zap.Stringer("target", target),
					zap.Stringer("candidate", candidate))
				o.trigger(NewEvent(CandidateSkipped, target, candidate.Name(), "variadic tail"))
			default:
				catalog.buckets[candidate.Arity()] = append(catalog.buckets[candidate.Arity()], candidate)
			}
		}
	}

	o.logger.Debug("catalog built",
		zap.Stringer("target", target),
		zap.Bool("singleton", catalog.IsSingleton()),
		zap.Ints("arities", catalog.Arities()))
	o.trigger(NewEvent(CatalogBuilt, target, catalog.IsSingleton(), len(catalog.Candidates())))

	return catalog, nil
}

// Target returns the catalog target type.
func (c *Catalog) Target() reflect.Type {
	return c.target
}

// IsSingleton reports whether the catalog resolves through a singleton provider.
func (c *Catalog) IsSingleton() bool {
	return c.mode == catalogModeSingleton
}

// Provider returns the singleton provider, or nil for instance catalogs.
func (c *Catalog) Provider() *Candidate {
	return c.provider
}

// NoArgs returns the constructors without parameters in declaration order.
func (c *Catalog) NoArgs() []*Candidate {
	return slices.Clone(c.noArgs)
}

// Arities returns the sorted arities having at least one constructor.
func (c *Catalog) Arities() []int {
	arities := make([]int, 0, len(c.buckets))
	for arity := range c.buckets {
		arities = append(arities, arity)
	}
	slices.Sort(arities)
	return arities
}

// Bucket returns the constructors of the arity in declaration order.
func (c *Catalog) Bucket(arity int) []*Candidate {
	return slices.Clone(c.buckets[arity])
}

// Candidates returns every candidate of the catalog ordered by declaration.
func (c *Catalog) Candidates() []*Candidate {
	if c.mode == catalogModeSingleton {
		return []*Candidate{c.provider}
	}
	candidates := slices.Clone(c.noArgs)
	for _, bucket := range c.buckets {
		candidates = append(candidates, bucket...)
	}
	slices.SortFunc(candidates, func(a, b *Candidate) int {
		return a.index - b.index
	})
	return candidates
}
