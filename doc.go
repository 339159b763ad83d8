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

// Package objroute routes object construction to declared constructors.
//
// A target type declares its members: instance constructors, or a single
// singleton provider. BuildCatalog groups the constructors by arity, and a
// Resolver picks, for a dynamically supplied argument vector, the first
// declared constructor of the vector arity whose parameters accept every
// supplied value. Missing (nil) arguments match any parameter and are
// replaced by the default value of the parameter type.
//
// A catalog holding a singleton provider always constructs through it:
// with the supplied arguments when they match its signature, with default
// arguments otherwise.
//
// Example:
//
//	router, err := objroute.New([]*objroute.Route{
//	    objroute.RouteOf[*User]("user",
//	        objroute.NewConstructor(func(name string) *User { ... }),
//	        objroute.NewConstructor(func(name string, age int) *User { ... }),
//	    ),
//	})
//	if err != nil {
//	    return err
//	}
//
//	user, err := objroute.Instance[*User](router, "user", "gopher", 13)
package objroute
