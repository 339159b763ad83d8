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
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Manifest describes the members of a target type in YAML.
//
//	path: users/profile
//	target: example.User
//	members:
//	  - name: NewUser
//	    kind: constructor
//	    params: [string, int]
//	  - name: NewUserFromTags
//	    params: [string, ...string]
//
// A trailing parameter spelled `...T`, or `variadic: true`, declares a
// variadic tail. Manifest members are described members: they plan but do
// not construct.
type Manifest struct {
	Path    string           `yaml:"path" validate:"required"`
	Target  string           `yaml:"target" validate:"required"`
	Members []ManifestMember `yaml:"members" validate:"dive"`
}

// ManifestMember describes one member of the manifest target.
type ManifestMember struct {
	Name     string   `yaml:"name" validate:"required"`
	Kind     string   `yaml:"kind" validate:"omitempty,oneof=constructor singleton none"`
	Params   []string `yaml:"params" validate:"dive,required"`
	Variadic bool     `yaml:"variadic"`
}

var validate = validator.New()

// LoadManifest decodes and validates a manifest.
func LoadManifest(reader io.Reader) (*Manifest, error) {
	var manifest Manifest
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("failed to decode manifest: empty document")
		}
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if err := validate.Struct(&manifest); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", formatValidationError(err))
	}
	return &manifest, nil
}

// TargetType resolves the manifest target name.
func (m *Manifest) TargetType(types *TypeRegistry) (reflect.Type, error) {
	target, err := types.Lookup(m.Target)
	if err != nil {
		return nil, fmt.Errorf("manifest target: %w", err)
	}
	return target, nil
}

// DescribeMembers returns the described members in declaration order.
func (m *Manifest) DescribeMembers(types *TypeRegistry) ([]*Member, error) {
	members := make([]*Member, 0, len(m.Members))
	for _, entry := range m.Members {
		kind, err := ParseMemberKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("member '%s': %w", entry.Name, err)
		}

		variadic := entry.Variadic
		paramTypes := make([]reflect.Type, 0, len(entry.Params))
		for index, param := range entry.Params {
			name := strings.TrimSpace(param)
			if rest, ok := strings.CutPrefix(name, "..."); ok {
				if index != len(entry.Params)-1 {
					return nil, fmt.Errorf("member '%s': variadic parameter %d is not the last one", entry.Name, index)
				}
				variadic = true
				name = "[]" + rest
			}
			paramType, err := types.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("member '%s': %w", entry.Name, err)
			}
			paramTypes = append(paramTypes, paramType)
		}

		members = append(members, Describe(entry.Name, kind, paramTypes, variadic))
	}
	return members, nil
}

// Catalog builds the catalog described by the manifest.
func (m *Manifest) Catalog(types *TypeRegistry, opts ...Option) (*Catalog, error) {
	target, err := m.TargetType(types)
	if err != nil {
		return nil, err
	}
	members, err := m.DescribeMembers(types)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(target, members, opts...)
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Namespace()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fieldErr.Namespace(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fieldErr.Namespace()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
