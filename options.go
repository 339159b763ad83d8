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
	"reflect"

	"go.uber.org/zap"
)

// Option configures catalogs, resolvers and routers.
type Option func(*options)

// options holds the shared configuration of the package components.
type options struct {
	logger     *zap.Logger
	events     Events
	assignable Assignability
	defaults   map[reflect.Type]any
	strict     bool
}

// newOptions applies opts over the package defaults.
func newOptions(opts []Option) *options {
	o := &options{
		logger:     zap.NewNop(),
		assignable: IsAssignable,
		defaults:   map[reflect.Type]any{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// trigger sends the event to the configured broker, if any.
func (o *options) trigger(event Event) {
	if o.events == nil {
		return
	}
	if err := o.events.Trigger(event); err != nil {
		o.logger.Warn("event handler failed",
			zap.String("event", event.Name()),
			zap.Error(err))
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEvents sets the events broker receiving build and resolution events.
func WithEvents(events Events) Option {
	return func(o *options) {
		o.events = events
	}
}

// WithAssignability adds a per-position type check used by resolvers.
// It narrows the matching: a value must also be assignable to the declared
// type. Missing arguments pass regardless of the function.
func WithAssignability(fn Assignability) Option {
	return func(o *options) {
		if fn != nil {
			o.assignable = fn
		}
	}
}

// WithDefault overrides the default value substituted for a missing
// argument declared with typ. The value must be assignable to typ.
func WithDefault(typ reflect.Type, value any) Option {
	return func(o *options) {
		o.defaults[typ] = value
	}
}

// WithStrictMatch makes resolvers report a NoMatchError instead of
// silently producing no instance.
func WithStrictMatch() Option {
	return func(o *options) {
		o.strict = true
	}
}
