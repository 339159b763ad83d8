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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvents tests events broker.
func TestEvents(t *testing.T) {
	testEvent1Args := [][]any(nil)
	testEvent2Args := [][]any(nil)
	testEvent3Args := [][]any(nil)

	ev := NewEvents()
	ev.Subscribe("TestEvent1", func(args ...any) {
		testEvent1Args = append(testEvent1Args, args)
	})
	ev.Subscribe("TestEvent2", func(args ...any) error {
		testEvent2Args = append(testEvent2Args, args)
		return nil
	})
	ev.Subscribe("TestEvent3", func(x string, y int, z bool) error {
		testEvent3Args = append(testEvent3Args, []any{x, y, z})
		return nil
	})

	require.NoError(t, ev.Trigger(NewEvent("TestEvent1", 1)))
	require.NoError(t, ev.Trigger(NewEvent("TestEvent1", "x")))
	require.NoError(t, ev.Trigger(NewEvent("TestEvent2", true)))
	require.NoError(t, ev.Trigger(NewEvent("TestEvent3", "x", 1, true)))
	require.NoError(t, ev.Trigger(NewEvent("TestEvent3", "y")))
	assert.Equal(t, [][]any{{1}, {"x"}}, testEvent1Args)
	assert.Equal(t, [][]any{{true}}, testEvent2Args)
	assert.Equal(t, [][]any{{"x", 1, true}, {"y", 0, false}}, testEvent3Args)
}

// TestEventsNilArgs tests delivery of untyped nil arguments.
func TestEventsNilArgs(t *testing.T) {
	var gotPlan *Plan
	var gotAny []any

	ev := NewEvents()
	ev.Subscribe("Typed", func(plan *Plan) { gotPlan = plan })
	ev.Subscribe("Any", func(args ...any) { gotAny = args })
	ev.Subscribe("Scalar", func(value int) {})

	require.NoError(t, ev.Trigger(NewEvent("Typed", nil)))
	assert.Nil(t, gotPlan)

	require.NoError(t, ev.Trigger(NewEvent("Any", nil, 1)))
	assert.Equal(t, []any{nil, 1}, gotAny)

	err := ev.Trigger(NewEvent("Scalar", nil))
	assert.ErrorIs(t, err, HandlerArgTypeMismatchError)
}

// TestEventsErrors tests joining of handler errors.
func TestEventsErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	ev := NewEvents()
	ev.Subscribe("Failing", func() error { return err1 })
	ev.Subscribe("Failing", func() error { return nil })
	ev.Subscribe("Failing", func() error { return err2 })
	ev.Subscribe("Mismatch", func(value int) {})

	err := ev.Trigger(NewEvent("Failing"))
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)

	err = ev.Trigger(NewEvent("Mismatch", "x"))
	assert.ErrorIs(t, err, HandlerArgTypeMismatchError)

	assert.NoError(t, ev.Trigger(NewEvent("Unknown")))
}

// TestEventsSubscribeInvalid tests rejection of invalid handlers.
func TestEventsSubscribeInvalid(t *testing.T) {
	ev := NewEvents()
	assert.Panics(t, func() { ev.Subscribe("Event", 42) })
	assert.Panics(t, func() { ev.Subscribe("Event", func() int { return 0 }) })
}
