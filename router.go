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
	"fmt"
	"reflect"
	"runtime/debug"
)

// Route binds a path to a target type and its declared members.
type Route struct {
	path    string
	target  reflect.Type
	members []*Member
}

// NewRoute declares a route to the target type.
//
// A route without members aliases the catalog of an earlier route to the
// same target, or falls back to zero-argument construction when the
// target has not been cataloged yet.
func NewRoute(path string, target reflect.Type, members ...*Member) *Route {
	return &Route{path: path, target: target, members: members}
}

// RouteOf declares a route to the T type.
//
// Example:
//
//	objroute.RouteOf[*User]("user",
//	    objroute.NewConstructor(NewUser),
//	    objroute.NewConstructor(NewUserWithAge),
//	)
func RouteOf[T any](path string, members ...*Member) *Route {
	return NewRoute(path, reflect.TypeOf((*T)(nil)).Elem(), members...)
}

// Router defines object router interface.
type Router interface {
	// Instance constructs the instance routed by the path.
	// It returns a nil instance when no candidate matches the arguments,
	// unless strict matching is enabled.
	Instance(path string, args ...any) (any, error)

	// Plan decides what the path would construct for the arguments.
	Plan(path string, args ...any) (*Plan, error)

	// Catalog returns the catalog of the path target.
	Catalog(path string) (*Catalog, error)

	// IsSingleton reports whether the path resolves through a singleton provider.
	IsSingleton(path string) (bool, error)

	// Paths returns registered paths in registration order.
	Paths() []string

	// Events returns events broker instance.
	Events() Events
}

// New returns new router instance with a set of routes.
// Route configuration errors, including empty paths, are reported here.
func New(routes []*Route, opts ...Option) (result Router, err error) {
	o := newOptions(opts)
	if o.events == nil {
		o.events = NewEvents()
	}

	router := &router{
		events:   o.events,
		registry: newRegistry(o),
	}

	for _, definition := range routes {
		if err := router.registry.registerRoute(definition); err != nil {
			return nil, fmt.Errorf("failed to register route: %w", err)
		}
	}

	return router, nil
}

// Instance constructs the instance routed by the path.
func Instance[T any](r Router, path string, args ...any) (T, error) {
	var zero T
	instance, err := r.Instance(path, args...)
	if err != nil || instance == nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("route '%s' produced '%T', not '%T'", path, instance, zero)
	}
	return typed, nil
}

// router implements object router.
type router struct {
	// Events broker.
	events Events

	// Routes registry.
	registry *registry
}

// Instance constructs the instance routed by the path.
func (r *router) Instance(path string, args ...any) (any, error) {
	// Trigger panic events of member functions.
	defer func() {
		if recovered := recover(); recovered != nil {
			_ = r.events.Trigger(NewEvent(UnhandledPanic, recovered, string(debug.Stack())))
			panic(recovered)
		}
	}()

	resolver, err := r.registry.findResolver(path)
	if err != nil {
		return nil, err
	}

	instance, err := resolver.Instantiate(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate route '%s': %w", path, err)
	}

	return instance, nil
}

// Plan decides what the path would construct for the arguments.
func (r *router) Plan(path string, args ...any) (*Plan, error) {
	resolver, err := r.registry.findResolver(path)
	if err != nil {
		return nil, err
	}
	return resolver.Plan(args...), nil
}

// Catalog returns the catalog of the path target.
func (r *router) Catalog(path string) (*Catalog, error) {
	resolver, err := r.registry.findResolver(path)
	if err != nil {
		return nil, err
	}
	return resolver.Catalog(), nil
}

// IsSingleton reports whether the path resolves through a singleton provider.
func (r *router) IsSingleton(path string) (bool, error) {
	catalog, err := r.Catalog(path)
	if err != nil {
		return false, err
	}
	return catalog.IsSingleton(), nil
}

// Paths returns registered paths in registration order.
func (r *router) Paths() []string {
	return r.registry.listPaths()
}

// Events returns events broker instance.
func (r *router) Events() Events {
	return r.events
}
