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

// Assignability reports whether a supplied argument may be passed for a
// parameter declared with the given type.
type Assignability func(declared reflect.Type, value any) bool

// IsAssignable is the default assignability check.
// Missing values always pass; otherwise the dynamic type of the value
// must be the declared type, implement it, or be otherwise assignable to it.
func IsAssignable(declared reflect.Type, value any) bool {
	if isMissing(value) {
		return true
	}
	return reflect.TypeOf(value).AssignableTo(declared)
}

// isMissing reports whether the argument is the missing marker:
// an untyped nil or a typed nil of a nillable kind.
func isMissing(value any) bool {
	if value == nil {
		return true
	}
	valueOf := reflect.ValueOf(value)
	return isNillableType(valueOf.Type()) && valueOf.IsNil()
}

// isNillableType returns true whether the specified type kind could accept nil.
func isNillableType(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// kindDefaults is the fixed kind-keyed table of default values.
// Named types are converted from the base value of their kind.
var kindDefaults = map[reflect.Kind]reflect.Value{
	reflect.Bool:       reflect.ValueOf(false),
	reflect.Int:        reflect.ValueOf(int(0)),
	reflect.Int8:       reflect.ValueOf(int8(0)),
	reflect.Int16:      reflect.ValueOf(int16(0)),
	reflect.Int32:      reflect.ValueOf(int32(0)),
	reflect.Int64:      reflect.ValueOf(int64(0)),
	reflect.Uint:       reflect.ValueOf(uint(0)),
	reflect.Uint8:      reflect.ValueOf(uint8(0)),
	reflect.Uint16:     reflect.ValueOf(uint16(0)),
	reflect.Uint32:     reflect.ValueOf(uint32(0)),
	reflect.Uint64:     reflect.ValueOf(uint64(0)),
	reflect.Uintptr:    reflect.ValueOf(uintptr(0)),
	reflect.Float32:    reflect.ValueOf(float32(0)),
	reflect.Float64:    reflect.ValueOf(float64(0)),
	reflect.Complex64:  reflect.ValueOf(complex64(0)),
	reflect.Complex128: reflect.ValueOf(complex128(0)),
	reflect.String:     reflect.ValueOf(""),
}

// DefaultTable resolves the value substituted for missing arguments.
type DefaultTable struct {
	overrides map[reflect.Type]reflect.Value
}

// NewDefaultTable returns the fixed table extended with per-type overrides.
func NewDefaultTable(overrides map[reflect.Type]any) (DefaultTable, error) {
	table := DefaultTable{overrides: make(map[reflect.Type]reflect.Value, len(overrides))}
	for typ, value := range overrides {
		if typ == nil {
			return DefaultTable{}, fmt.Errorf("default value %v has no type", value)
		}
		if isMissing(value) {
			table.overrides[typ] = reflect.Zero(typ)
			continue
		}
		valueOf := reflect.ValueOf(value)
		if !valueOf.Type().AssignableTo(typ) {
			return DefaultTable{}, fmt.Errorf("default value of type '%s' is not assignable to '%s'", valueOf.Type(), typ)
		}
		boxed := reflect.New(typ).Elem()
		boxed.Set(valueOf)
		table.overrides[typ] = boxed
	}
	return table, nil
}

// Value returns the default value for typ.
func (d DefaultTable) Value(typ reflect.Type) reflect.Value {
	if value, ok := d.overrides[typ]; ok {
		return value
	}
	if value, ok := kindDefaults[typ.Kind()]; ok {
		return value.Convert(typ)
	}
	// Composite kinds default to their zero value, nillable kinds to typed nil.
	return reflect.Zero(typ)
}
