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
	"runtime"
	"strings"
)

// MemberKind marks how a declared member takes part in instance resolution.
type MemberKind int

// A member is either ignored, one of the instance constructors,
// or the singleton provider of its target type.
const (
	MemberUnmarked MemberKind = iota
	MemberInstanceConstructor
	MemberSingletonProvider
)

// String returns the manifest spelling of the kind.
func (k MemberKind) String() string {
	switch k {
	case MemberInstanceConstructor:
		return "constructor"
	case MemberSingletonProvider:
		return "singleton"
	default:
		return "none"
	}
}

// ParseMemberKind parses the manifest spelling of a member kind.
func ParseMemberKind(value string) (MemberKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "constructor":
		return MemberInstanceConstructor, nil
	case "singleton":
		return MemberSingletonProvider, nil
	case "none":
		return MemberUnmarked, nil
	default:
		return MemberUnmarked, fmt.Errorf("unknown member kind '%s'", value)
	}
}

// MemberMetadata defines a key-value store for attaching metadata to a member.
type MemberMetadata map[string]any

// Member declares one constructor or factory function of a target type.
//
// A member is created from a Go function with NewConstructor or
// NewSingletonProvider, in which case its parameter types and variadic
// tail are read from the function signature:
//
//	// Instance constructor with two parameters.
//	objroute.NewConstructor(func(name string, age int) *User { ... })
//
//	// Singleton provider with an optional error result.
//	objroute.NewSingletonProvider(func(dsn string) (*DB, error) { ... })
//
// A member may also be described without a function using Describe. Such
// members take part in planning only and fail with ErrNotCallable when
// asked to construct an instance.
type Member struct {
	// Member function, nil for described members.
	memberFunc any

	// Member name.
	memberName string

	// Member function package.
	memberSource string

	// Member kind.
	memberKind MemberKind

	// Member metadata.
	memberMetadata MemberMetadata

	// Declared parameter types of described members.
	memberInTypes []reflect.Type

	// Declared variadic tail of described members.
	memberVariadic bool
}

// Name returns member name.
func (m *Member) Name() string {
	return m.memberName
}

// Source returns member function package.
func (m *Member) Source() string {
	return m.memberSource
}

// Kind returns member kind.
func (m *Member) Kind() MemberKind {
	return m.memberKind
}

// Metadata returns associated member metadata.
func (m *Member) Metadata() MemberMetadata {
	return m.memberMetadata
}

// MemberOpt defines a functional option for configuring a member.
type MemberOpt func(*Member)

// WithName overrides the name derived from the member function.
func WithName(name string) MemberOpt {
	return func(member *Member) {
		member.memberName = name
	}
}

// WithMetadata adds a custom metadata key-value pair to the member.
//
// Example:
//
//	objroute.NewConstructor(NewUser, objroute.WithMetadata("since", "v1.2"))
func WithMetadata(key string, value any) MemberOpt {
	return func(member *Member) {
		member.memberMetadata[key] = value
	}
}

// NewConstructor declares an instance constructor backed by fn.
func NewConstructor(fn any, opts ...MemberOpt) *Member {
	return newFuncMember(MemberInstanceConstructor, fn, opts)
}

// NewSingletonProvider declares the singleton provider backed by fn.
// A catalog holding a singleton provider never consults its constructors.
func NewSingletonProvider(fn any, opts ...MemberOpt) *Member {
	return newFuncMember(MemberSingletonProvider, fn, opts)
}

// NewUnmarked declares a member the catalog builder ignores.
func NewUnmarked(fn any, opts ...MemberOpt) *Member {
	return newFuncMember(MemberUnmarked, fn, opts)
}

// Describe declares a member by its signature only.
// When variadic is set, the last parameter type must be a slice type.
func Describe(name string, kind MemberKind, paramTypes []reflect.Type, variadic bool, opts ...MemberOpt) *Member {
	member := &Member{
		memberName:     name,
		memberKind:     kind,
		memberMetadata: MemberMetadata{},
		memberInTypes:  append([]reflect.Type(nil), paramTypes...),
		memberVariadic: variadic,
	}
	for _, opt := range opts {
		opt(member)
	}
	return member
}

// newFuncMember prepares a member definition for a function.
func newFuncMember(kind MemberKind, fn any, opts []MemberOpt) *Member {
	member := &Member{
		memberFunc:     fn,
		memberKind:     kind,
		memberMetadata: MemberMetadata{},
	}
	if funcValue := reflect.ValueOf(fn); funcValue.Kind() == reflect.Func {
		member.memberSource, member.memberName = getFuncName(funcValue)
	} else {
		member.memberName = fmt.Sprintf("%T", fn)
	}
	for _, opt := range opts {
		opt(member)
	}
	return member
}

// load validates the member against the target type and returns a candidate.
func (m *Member) load(target reflect.Type, index int) (*Candidate, error) {
	candidate := &Candidate{
		member:   m,
		index:    index,
		variadic: m.memberVariadic,
	}

	// Described members carry their signature directly.
	if m.memberFunc == nil {
		for position, inType := range m.memberInTypes {
			if inType == nil {
				return nil, m.invalid(target, "parameter %d has no type", position)
			}
		}
		if m.memberVariadic {
			if len(m.memberInTypes) == 0 {
				return nil, m.invalid(target, "variadic member has no parameters")
			}
			if last := m.memberInTypes[len(m.memberInTypes)-1]; last.Kind() != reflect.Slice {
				return nil, m.invalid(target, "variadic tail '%s' is not a slice", last)
			}
		}
		candidate.inTypes = m.memberInTypes
		return candidate, nil
	}

	// Validate member function type and signature.
	funcType := reflect.TypeOf(m.memberFunc)
	if funcType.Kind() != reflect.Func {
		return nil, m.invalid(target, "not a function: %s", funcType)
	}

	// Index member input types from the function signature.
	candidate.inTypes = make([]reflect.Type, 0, funcType.NumIn())
	for index := 0; index < funcType.NumIn(); index++ {
		candidate.inTypes = append(candidate.inTypes, funcType.In(index))
	}
	candidate.variadic = funcType.IsVariadic()

	// The function must produce the target, optionally followed by an error.
	switch {
	case funcType.NumOut() == 1:
	case funcType.NumOut() == 2 && funcType.Out(1) == errorType:
		candidate.outError = true
	default:
		return nil, m.invalid(target, "unexpected results: %s", funcType)
	}
	if target != nil && !funcType.Out(0).AssignableTo(target) {
		return nil, m.invalid(target, "result '%s' is not assignable to target", funcType.Out(0))
	}

	candidate.value = reflect.ValueOf(m.memberFunc)
	return candidate, nil
}

// invalid builds a member error with the formatted reason.
func (m *Member) invalid(target reflect.Type, format string, args ...any) error {
	return &MemberError{Target: target, Member: m.memberName, Reason: fmt.Sprintf(format, args...)}
}

// Candidate is a member loaded into a catalog.
type Candidate struct {
	member   *Member
	index    int
	inTypes  []reflect.Type
	variadic bool
	outError bool
	value    reflect.Value
}

// Name returns the member name.
func (c *Candidate) Name() string { return c.member.memberName }

// Kind returns the member kind.
func (c *Candidate) Kind() MemberKind { return c.member.memberKind }

// Member returns the declaring member.
func (c *Candidate) Member() *Member { return c.member }

// Index returns the declaration position of the member.
func (c *Candidate) Index() int { return c.index }

// Arity returns the number of declared parameters.
func (c *Candidate) Arity() int { return len(c.inTypes) }

// Variadic reports whether the last parameter is a variadic tail.
func (c *Candidate) Variadic() bool { return c.variadic }

// Callable reports whether the candidate is backed by a function.
func (c *Candidate) Callable() bool { return c.value.IsValid() }

// ParamTypes returns a copy of the declared parameter types.
func (c *Candidate) ParamTypes() []reflect.Type {
	return append([]reflect.Type(nil), c.inTypes...)
}

// String returns the candidate signature.
func (c *Candidate) String() string {
	params := make([]string, 0, len(c.inTypes))
	for index, inType := range c.inTypes {
		if c.variadic && index == len(c.inTypes)-1 {
			params = append(params, "..."+inType.Elem().String())
		} else {
			params = append(params, inType.String())
		}
	}
	return fmt.Sprintf("%s(%s)", c.member.memberName, strings.Join(params, ", "))
}

// getFuncName returns func package and name.
func getFuncName(funcValue reflect.Value) (string, string) {
	fullFuncName := runtime.FuncForPC(funcValue.Pointer()).Name()
	return splitFuncName(fullFuncName)
}

// splitFuncName splits specified func name to package and a name.
func splitFuncName(funcFullName string) (string, string) {
	// Split the full function name with package by dots.
	fullNameChunks := strings.Split(funcFullName, ".")
	if len(fullNameChunks) < 2 {
		return "", funcFullName
	}

	// Find the index of the last element containing "/".
	lastPackageChunkIndex := len(fullNameChunks) - 1
	for ; lastPackageChunkIndex >= 0; lastPackageChunkIndex-- {
		if strings.Contains(fullNameChunks[lastPackageChunkIndex], "/") {
			break
		}
	}

	// If the name contains no package path.
	if lastPackageChunkIndex == -1 {
		return fullNameChunks[0], strings.Join(fullNameChunks[1:], ".")
	}

	packageName := strings.Join(fullNameChunks[:lastPackageChunkIndex+1], ".")
	funcName := strings.Join(fullNameChunks[lastPackageChunkIndex+1:], ".")
	return packageName, funcName
}

// errorType contains reflection type for error variable.
var errorType = reflect.TypeOf((*error)(nil)).Elem()
