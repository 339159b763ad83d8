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
)

// invoke calls the candidate function with resolved arguments.
func invoke(candidate *Candidate, args []reflect.Value) (any, error) {
	if !candidate.Callable() {
		return nil, &InvokeError{Candidate: candidate.Name(), Err: ErrNotCallable}
	}

	// Validate arguments before the call, since reflection panics otherwise.
	if len(args) != len(candidate.inTypes) {
		return nil, &InvokeError{
			Candidate: candidate.Name(),
			Err:       fmt.Errorf("%w: got %d argument(s), want %d", ArgTypeMismatchError, len(args), len(candidate.inTypes)),
		}
	}
	for index, arg := range args {
		if !arg.IsValid() || !arg.Type().AssignableTo(candidate.inTypes[index]) {
			return nil, &InvokeError{
				Candidate: candidate.Name(),
				Err:       fmt.Errorf("%w: argument '%s' (index %d)", ArgTypeMismatchError, candidate.inTypes[index], index),
			}
		}
	}

	// Variadic tails are passed as the resolved slice.
	var outArgs []reflect.Value
	if candidate.variadic {
		outArgs = candidate.value.CallSlice(args)
	} else {
		outArgs = candidate.value.Call(args)
	}

	// Read optional candidate error value.
	if candidate.outError {
		if errValue := outArgs[len(outArgs)-1]; !errValue.IsNil() {
			err, _ := errValue.Interface().(error)
			return nil, &InvokeError{Candidate: candidate.Name(), Err: err}
		}
	}

	return outArgs[0].Interface(), nil
}
