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
	"strings"
	"sync"
)

// TypeRegistry resolves parameter type names used by manifests.
//
// Builtin names cover the predeclared Go types plus `any`, `error` and
// `fmt.Stringer`. Composite names are resolved recursively from the
// `[]T`, `*T` and `map[K]V` forms.
type TypeRegistry struct {
	mutex sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeRegistry returns a registry holding the builtin names.
func NewTypeRegistry() *TypeRegistry {
	registry := &TypeRegistry{types: make(map[string]reflect.Type, len(builtinTypes))}
	for name, typ := range builtinTypes {
		registry.types[name] = typ
	}
	return registry
}

// Register binds the name to the type, replacing earlier bindings.
func (r *TypeRegistry) Register(name string, typ reflect.Type) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.types[name] = typ
}

// RegisterType binds the name to the T type.
func RegisterType[T any](r *TypeRegistry, name string) {
	r.Register(name, reflect.TypeOf((*T)(nil)).Elem())
}

// Lookup resolves the type name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)

	r.mutex.RLock()
	typ, ok := r.types[name]
	r.mutex.RUnlock()
	if ok {
		return typ, nil
	}

	switch {
	case strings.HasPrefix(name, "[]"):
		elem, err := r.Lookup(name[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(name, "*"):
		elem, err := r.Lookup(name[1:])
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case strings.HasPrefix(name, "map["):
		closing := matchingBracket(name, 3)
		if closing < 0 {
			return nil, fmt.Errorf("unknown type '%s'", name)
		}
		key, err := r.Lookup(name[4:closing])
		if err != nil {
			return nil, err
		}
		value, err := r.Lookup(name[closing+1:])
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("invalid map key type '%s'", key)
		}
		return reflect.MapOf(key, value), nil
	}

	return nil, fmt.Errorf("unknown type '%s'", name)
}

// matchingBracket returns the index of the bracket closing the one at open.
func matchingBracket(name string, open int) int {
	depth := 0
	for index := open; index < len(name); index++ {
		switch name[index] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return index
			}
		}
	}
	return -1
}

// builtinTypes maps predeclared type names to their types.
var builtinTypes = map[string]reflect.Type{
	"bool":         reflect.TypeOf(false),
	"int":          reflect.TypeOf(int(0)),
	"int8":         reflect.TypeOf(int8(0)),
	"int16":        reflect.TypeOf(int16(0)),
	"int32":        reflect.TypeOf(int32(0)),
	"rune":         reflect.TypeOf(rune(0)),
	"int64":        reflect.TypeOf(int64(0)),
	"uint":         reflect.TypeOf(uint(0)),
	"uint8":        reflect.TypeOf(uint8(0)),
	"byte":         reflect.TypeOf(byte(0)),
	"uint16":       reflect.TypeOf(uint16(0)),
	"uint32":       reflect.TypeOf(uint32(0)),
	"uint64":       reflect.TypeOf(uint64(0)),
	"uintptr":      reflect.TypeOf(uintptr(0)),
	"float32":      reflect.TypeOf(float32(0)),
	"float64":      reflect.TypeOf(float64(0)),
	"complex64":    reflect.TypeOf(complex64(0)),
	"complex128":   reflect.TypeOf(complex128(0)),
	"string":       reflect.TypeOf(""),
	"any":          anyType,
	"interface{}":  anyType,
	"error":        errorType,
	"fmt.Stringer": reflect.TypeOf((*fmt.Stringer)(nil)).Elem(),
}
