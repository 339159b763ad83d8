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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	name string
	age  int
	tags []string
}

func newTestUser() *testUser {
	return &testUser{name: "anonymous"}
}

var testUserType = reflect.TypeOf((*testUser)(nil))

// TestMemberLoad tests loading of a function member.
func TestMemberLoad(t *testing.T) {
	fun := func(a, b string, c int) (*testUser, error) {
		return &testUser{}, nil
	}

	member := NewConstructor(fun, WithMetadata("test", "value"))
	candidate, err := member.load(testUserType, 2)
	require.NoError(t, err)

	assert.Equal(t, "value", member.Metadata()["test"])
	assert.Equal(t, MemberInstanceConstructor, candidate.Kind())
	assert.Equal(t, member, candidate.Member())
	assert.Equal(t, 2, candidate.Index())
	assert.Equal(t, 3, candidate.Arity())
	assert.Equal(t, "[string string int]", fmt.Sprint(candidate.ParamTypes()))
	assert.True(t, candidate.outError)
	assert.True(t, candidate.Callable())
	assert.False(t, candidate.Variadic())
}

// TestMemberLoadVariadic tests loading of a variadic function member.
func TestMemberLoadVariadic(t *testing.T) {
	member := NewConstructor(func(name string, tags ...string) *testUser {
		return &testUser{name: name, tags: tags}
	}, WithName("NewTagged"))

	candidate, err := member.load(testUserType, 0)
	require.NoError(t, err)
	assert.True(t, candidate.Variadic())
	assert.Equal(t, 2, candidate.Arity())
	assert.Equal(t, "NewTagged(string, ...string)", candidate.String())
}

// TestMemberLoadInterfaceTarget tests results assignable to an interface target.
func TestMemberLoadInterfaceTarget(t *testing.T) {
	target := reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	member := NewConstructor(func() testStringer { return testStringer("x") })

	_, err := member.load(target, 0)
	require.NoError(t, err)
}

// TestMemberLoadInvalid tests rejection of malformed members.
func TestMemberLoadInvalid(t *testing.T) {
	tests := []struct {
		name   string
		member *Member
	}{
		{name: "NotFunction", member: NewConstructor(42)},
		{name: "NoResults", member: NewConstructor(func() {})},
		{name: "WrongResult", member: NewConstructor(func() string { return "" })},
		{name: "NonErrorSecondResult", member: NewConstructor(func() (*testUser, int) { return nil, 0 })},
		{name: "TooManyResults", member: NewConstructor(func() (*testUser, int, error) { return nil, 0, nil })},
		{name: "NilParamType", member: Describe("Nil", MemberInstanceConstructor, []reflect.Type{nil}, false)},
		{name: "EmptyVariadic", member: Describe("Empty", MemberInstanceConstructor, nil, true)},
		{name: "NonSliceVariadic", member: Describe("Scalar", MemberInstanceConstructor, []reflect.Type{stringType}, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.member.load(testUserType, 0)
			require.ErrorIs(t, err, ErrInvalidMember)

			var memberErr *MemberError
			require.ErrorAs(t, err, &memberErr)
			assert.Equal(t, testUserType, memberErr.Target)
			assert.Equal(t, tt.member.Name(), memberErr.Member)
		})
	}
}

// TestMemberDescribe tests described members.
func TestMemberDescribe(t *testing.T) {
	paramTypes := []reflect.Type{stringType, reflect.TypeOf([]int(nil))}
	member := Describe("NewScores", MemberSingletonProvider, paramTypes, true)

	// The member keeps its own copy of the parameter types.
	paramTypes[0] = nil

	candidate, err := member.load(testUserType, 4)
	require.NoError(t, err)
	assert.Equal(t, "NewScores", candidate.Name())
	assert.Equal(t, MemberSingletonProvider, candidate.Kind())
	assert.Equal(t, "NewScores(string, ...int)", candidate.String())
	assert.False(t, candidate.Callable())
	assert.Equal(t, "", member.Source())
}

// TestMemberInfo tests member names and sources.
func TestMemberInfo(t *testing.T) {
	member := NewConstructor(newTestUser)
	assert.Equal(t, "newTestUser", member.Name())
	assert.Equal(t, "github.com/NVIDIA/objroute", member.Source())
	assert.Equal(t, MemberInstanceConstructor, member.Kind())

	member = NewSingletonProvider(newTestUser, WithName("Shared"))
	assert.Equal(t, "Shared", member.Name())
	assert.Equal(t, MemberSingletonProvider, member.Kind())

	member = NewUnmarked(42)
	assert.Equal(t, "int", member.Name())
	assert.Equal(t, MemberUnmarked, member.Kind())
}

// TestParseMemberKind tests parsing of member kinds.
func TestParseMemberKind(t *testing.T) {
	tests := []struct {
		arg  string
		want MemberKind
	}{
		{arg: "", want: MemberInstanceConstructor},
		{arg: "constructor", want: MemberInstanceConstructor},
		{arg: " Singleton ", want: MemberSingletonProvider},
		{arg: "none", want: MemberUnmarked},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseMemberKind(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.arg != "" {
				assert.Equal(t, tt.want.String(), got.String())
			}
		})
	}

	_, err := ParseMemberKind("factory")
	assert.EqualError(t, err, "unknown member kind 'factory'")
}

// TestSplitFuncName tests splitting of function name.
func TestSplitFuncName(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		want1 string
		want2 string
	}{{
		name:  "SplitPublicPackage",
		arg:   "github.com/NVIDIA/objroute/users.NewUser.func1",
		want1: "github.com/NVIDIA/objroute/users",
		want2: "NewUser.func1",
	}, {
		name:  "SplitMainPackage",
		arg:   "main.main.func1",
		want1: "main",
		want2: "main.func1",
	}, {
		name:  "SplitBareName",
		arg:   "NewUser",
		want1: "",
		want2: "NewUser",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got1, got2 := splitFuncName(tt.arg)
			assert.Equal(t, tt.want1, got1)
			assert.Equal(t, tt.want2, got2)
		})
	}
}

type testStringer string

func (s testStringer) String() string { return string(s) }

var stringType = reflect.TypeOf("")
