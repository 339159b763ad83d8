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
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// argGen draws argument values of assorted types, including missing ones.
var argGen = rapid.SampledFrom([]any{
	nil, "x", "", 0, 42, int64(7), 2.5, true, false,
	testStringer("s"), &testUser{}, (*testUser)(nil), []string{"a"},
})

// paramTypeGen draws declared parameter types.
var paramTypeGen = rapid.SampledFrom([]reflect.Type{
	stringType,
	reflect.TypeOf(0),
	reflect.TypeOf(int64(0)),
	reflect.TypeOf(0.0),
	reflect.TypeOf(false),
	reflect.TypeOf((*testUser)(nil)),
	reflect.TypeOf([]string(nil)),
	reflect.TypeOf((*interface{ String() string })(nil)).Elem(),
	anyType,
})

// TestPropertyEmptyCatalogConstructsWithoutArgs tests empty catalogs always
// take the zero-argument path.
func TestPropertyEmptyCatalogConstructsWithoutArgs(t *testing.T) {
	resolver := newTestResolver(t, nil)
	rapid.Check(t, func(rt *rapid.T) {
		args := rapid.SliceOfN(argGen, 0, 6).Draw(rt, "args")
		plan := resolver.Plan(args...)
		if plan.Outcome != OutcomeZeroArg || plan.Candidate != nil {
			rt.Fatalf("unexpected plan %v for %v", plan.Outcome, args)
		}
	})
}

// TestPropertyAbsentArityNeverInvokes tests arities without a bucket never
// invoke a candidate.
func TestPropertyAbsentArityNeverInvokes(t *testing.T) {
	calls := 0
	resolver := newTestResolver(t, []*Member{
		NewConstructor(func(a any) *testUser { calls++; return &testUser{} }),
		NewConstructor(func(a, b, c any) *testUser { calls++; return &testUser{} }),
	})

	rapid.Check(t, func(rt *rapid.T) {
		arity := rapid.SampledFrom([]int{0, 2, 4, 5}).Draw(rt, "arity")
		args := rapid.SliceOfN(argGen, arity, arity).Draw(rt, "args")

		instance, err := resolver.Instantiate(args...)
		if err != nil || instance != nil || calls != 0 {
			rt.Fatalf("arity %d constructed %v (err %v, calls %d)", arity, instance, err, calls)
		}
	})
}

// TestPropertyDeclarationOrderStable tests the earlier of two matching
// candidates is always chosen.
func TestPropertyDeclarationOrderStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		arity := rapid.IntRange(1, 4).Draw(rt, "arity")
		firstTypes := rapid.SliceOfN(paramTypeGen, arity, arity).Draw(rt, "first")
		args := rapid.SliceOfN(argGen, arity, arity).Draw(rt, "args")

		anyTypes := make([]reflect.Type, arity)
		for index := range anyTypes {
			anyTypes[index] = anyType
		}

		catalog, err := CatalogOf[*testUser]([]*Member{
			Describe("First", MemberInstanceConstructor, firstTypes, false),
			Describe("Second", MemberInstanceConstructor, anyTypes, false),
		})
		require.NoError(rt, err)
		resolver, err := NewResolver(catalog)
		require.NoError(rt, err)

		firstMatches := true
		for index, arg := range args {
			if !IsAssignable(firstTypes[index], arg) {
				firstMatches = false
			}
		}

		plan := resolver.Plan(args...)
		want := "Second"
		if firstMatches {
			want = "First"
		}
		if plan.Candidate == nil || plan.Candidate.Name() != want {
			rt.Fatalf("want %s for %v over %v, got %+v", want, args, firstTypes, plan.Candidate)
		}
	})
}

// TestPropertyMissingAlwaysAssignable tests missing values pass every check.
func TestPropertyMissingAlwaysAssignable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		declared := paramTypeGen.Draw(rt, "declared")
		missing := rapid.SampledFrom([]any{nil, (*testUser)(nil), []string(nil), map[string]int(nil)}).Draw(rt, "missing")
		if !IsAssignable(declared, missing) {
			rt.Fatalf("missing %#v rejected by %s", missing, declared)
		}
	})
}

// TestPropertyMissingResolvesToDefault tests missing positions resolve to the
// default of their declared type.
func TestPropertyMissingResolvesToDefault(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		arity := rapid.IntRange(1, 5).Draw(rt, "arity")
		paramTypes := rapid.SliceOfN(paramTypeGen, arity, arity).Draw(rt, "types")
		mask := rapid.SliceOfN(rapid.Bool(), arity, arity).Draw(rt, "missing")

		// Supplied positions use a value assignable to any declared type.
		args := make([]any, arity)
		for index := range args {
			if !mask[index] {
				args[index] = reflect.Zero(paramTypes[index]).Interface()
			}
		}

		catalog, err := CatalogOf[*testUser]([]*Member{
			Describe("Candidate", MemberInstanceConstructor, paramTypes, false),
		})
		require.NoError(rt, err)
		resolver, err := NewResolver(catalog)
		require.NoError(rt, err)

		plan := resolver.Plan(args...)
		if plan.Outcome != OutcomeCandidate {
			rt.Fatalf("no match for %v over %v", args, paramTypes)
		}
		for index, value := range plan.Args {
			if !value.IsValid() || !value.Type().AssignableTo(paramTypes[index]) {
				rt.Fatalf("position %d resolved to %v for %s", index, value, paramTypes[index])
			}
			if isMissing(args[index]) && !value.IsZero() {
				rt.Fatalf("position %d resolved to non-default %v", index, value)
			}
		}
	})
}

// TestPropertySingletonAlwaysConstructs tests singleton catalogs construct
// for every argument vector.
func TestPropertySingletonAlwaysConstructs(t *testing.T) {
	resolver := newTestResolver(t, []*Member{
		NewSingletonProvider(func(name string, age int, user *testUser) *testUser {
			return &testUser{name: name, age: age}
		}),
	})

	rapid.Check(t, func(rt *rapid.T) {
		args := rapid.SliceOfN(argGen, 0, 5).Draw(rt, "args")

		plan := resolver.Plan(args...)
		if !plan.Constructs() || !slices.Contains([]Outcome{OutcomeCandidate, OutcomeDefaults}, plan.Outcome) {
			rt.Fatalf("singleton plan %v for %v", plan.Outcome, args)
		}
		instance, err := resolver.Instantiate(args...)
		if err != nil || instance == nil {
			rt.Fatalf("singleton produced %v (err %v) for %v", instance, err, args)
		}
	})
}

// TestPropertyVariadicNeverChosen tests variadic constructors are never chosen.
func TestPropertyVariadicNeverChosen(t *testing.T) {
	resolver := newTestResolver(t, []*Member{
		NewConstructor(func(a any, rest ...any) *testUser { return &testUser{} }, WithName("Variadic")),
		NewConstructor(func(a, b any) *testUser { return &testUser{} }, WithName("Pair")),
	})

	rapid.Check(t, func(rt *rapid.T) {
		args := rapid.SliceOfN(argGen, 0, 4).Draw(rt, "args")
		plan := resolver.Plan(args...)
		if plan.Candidate != nil && plan.Candidate.Name() == "Variadic" {
			rt.Fatalf("variadic chosen for %v", args)
		}
	})
}
