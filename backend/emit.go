// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import "github.com/sonburton99/shader-compiler/ir"

// EmitSPIRV would lower program to a SPIR-V word module. Word emission is
// explicitly out of scope for this middle end (spec.md §1); callers that
// need it are expected to hand the optimized Program to a real backend.
func EmitSPIRV(profile Profile, runtime RuntimeInfo, program *ir.Program, bindings *Bindings) ([]uint32, error) {
	return nil, ir.NewNotImplementedException("backend.EmitSPIRV")
}

// EmitGLSL would lower program to a GLSL source string. Out of scope; see
// EmitSPIRV.
func EmitGLSL(profile Profile, runtime RuntimeInfo, program *ir.Program, bindings *Bindings) (string, error) {
	return "", ir.NewNotImplementedException("backend.EmitGLSL")
}

// EmitGLASM would lower program to an NV_gpu_program5 assembly string. Out
// of scope; see EmitSPIRV.
func EmitGLASM(profile Profile, runtime RuntimeInfo, program *ir.Program, bindings *Bindings) (string, error) {
	return "", ir.NewNotImplementedException("backend.EmitGLASM")
}
