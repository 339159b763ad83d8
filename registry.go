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
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// registry contains every registered route and the resolvers of their targets.
type registry struct {
	mutex   sync.RWMutex
	options *options

	// path -> route
	routes map[string]*route

	// Registration order of paths.
	paths []string

	// target type -> resolver of its catalog
	targets map[reflect.Type]*Resolver

	// path -> *Resolver
	resolvers *gocache.Cache
}

// route is a registered path bound to a target.
type route struct {
	path   string
	target reflect.Type
}

// newRegistry returns an empty route registry.
func newRegistry(o *options) *registry {
	return &registry{
		options:   o,
		routes:    make(map[string]*route),
		targets:   make(map[reflect.Type]*Resolver),
		resolvers: gocache.New(gocache.NoExpiration, 0),
	}
}

// registerRoute validates the route and builds its target catalog once.
func (r *registry) registerRoute(definition *Route) error {
	if definition == nil {
		return errors.New("invalid route: no route specified")
	}
	if definition.target == nil {
		return fmt.Errorf("invalid route '%s': no target specified", definition.path)
	}
	if definition.path == "" {
		return &EmptyPathError{Target: definition.target}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, ok := r.routes[definition.path]; ok {
		return fmt.Errorf("route path duplicate: '%s' is bound to '%s'", definition.path, existing.target)
	}

	// A target is cataloged once, further routes may only alias it.
	resolver, cataloged := r.targets[definition.target]
	if cataloged {
		if len(definition.members) > 0 {
			return fmt.Errorf("route '%s': target '%s' is already cataloged", definition.path, definition.target)
		}
	} else {
		catalog, err := buildCatalog(definition.target, definition.members, r.options)
		if err != nil {
			return fmt.Errorf("route '%s': %w", definition.path, err)
		}
		resolver, err = newResolver(catalog, r.options)
		if err != nil {
			return fmt.Errorf("route '%s': %w", definition.path, err)
		}
		r.targets[definition.target] = resolver
	}

	r.routes[definition.path] = &route{
		path:   definition.path,
		target: definition.target,
	}
	r.resolvers.Set(definition.path, resolver, gocache.NoExpiration)
	r.paths = append(r.paths, definition.path)

	r.options.logger.Debug("route registered",
		zap.String("path", definition.path),
		zap.Stringer("target", definition.target))

	return nil
}

// findResolver returns the resolver bound to the path.
func (r *registry) findResolver(path string) (*Resolver, error) {
	r.mutex.RLock()
	found, ok := r.routes[path]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownRoute, path)
	}

	cached, ok := r.resolvers.Get(path)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' has no catalog", ErrUnknownRoute, path)
	}
	resolver, ok := cached.(*Resolver)
	if !ok {
		return nil, fmt.Errorf("unexpected catalog cache entry for '%s': %T", path, cached)
	}
	if resolver.catalog.target != found.target {
		return nil, fmt.Errorf("route '%s': catalog of '%s' bound to '%s'", path, resolver.catalog.target, found.target)
	}
	return resolver, nil
}

// listPaths returns registered paths in registration order.
func (r *registry) listPaths() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return slices.Clone(r.paths)
}
