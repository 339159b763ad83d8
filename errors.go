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
)

var (
	// ErrInvalidMember is wrapped by every member load failure.
	ErrInvalidMember = errors.New("invalid member")

	// ErrEmptyPath is wrapped when a route is declared without a path.
	ErrEmptyPath = errors.New("empty route path")

	// ErrUnknownRoute is returned for paths that were never registered.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrNoMatch is wrapped when strict matching is enabled and no
	// candidate accepts the argument vector.
	ErrNoMatch = errors.New("no matching candidate")

	// ErrNotCallable is wrapped when a described member without a function
	// is asked to construct an instance.
	ErrNotCallable = errors.New("member is not callable")

	// ArgTypeMismatchError declares candidate argument type mismatch error.
	ArgTypeMismatchError = errors.New("candidate argument type mismatch")
)

// MemberError describes a member that could not be loaded into a catalog.
type MemberError struct {
	Target reflect.Type
	Member string
	Reason string
}

// Error implements the error interface.
func (e *MemberError) Error() string {
	return fmt.Sprintf("invalid member '%s' of '%s': %s", e.Member, e.Target, e.Reason)
}

// Unwrap returns ErrInvalidMember.
func (e *MemberError) Unwrap() error { return ErrInvalidMember }

// EmptyPathError is the configuration error for a route declared with an empty path.
type EmptyPathError struct {
	Target reflect.Type
}

// Error implements the error interface.
func (e *EmptyPathError) Error() string {
	return fmt.Sprintf("empty route path for '%s'", e.Target)
}

// Unwrap returns ErrEmptyPath.
func (e *EmptyPathError) Unwrap() error { return ErrEmptyPath }

// NoMatchError reports an argument vector that no candidate accepts.
// It is only produced when strict matching is enabled.
type NoMatchError struct {
	Target reflect.Type
	Arity  int
	Types  []reflect.Type
}

// Error implements the error interface.
func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no candidate of '%s' accepts %d argument(s) %v", e.Target, e.Arity, e.Types)
}

// Unwrap returns ErrNoMatch.
func (e *NoMatchError) Unwrap() error { return ErrNoMatch }

// InvokeError wraps a failure returned by a candidate function.
type InvokeError struct {
	Candidate string
	Err       error
}

// Error implements the error interface.
func (e *InvokeError) Error() string {
	return fmt.Sprintf("failed to invoke '%s': %s", e.Candidate, e.Err)
}

// Unwrap returns the underlying error.
func (e *InvokeError) Unwrap() error { return e.Err }
