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

package opt

import "github.com/sonburton99/shader-compiler/ir"

// VertexATransformPass finds the first Epilogue instruction in the program
// and invalidates it, so a following vertex-B program can be concatenated
// onto vertex-A's fallthrough. The IR guarantees at most one Epilogue per
// vertex-A stage, so the first match is the only one.
func VertexATransformPass(program *ir.Program) error {
	return invalidateFirst(program, ir.OpEpilogue)
}

// VertexBTransformPass finds the first Prologue instruction in the program
// and invalidates it, letting vertex-B's body run as a continuation of
// vertex-A rather than re-initializing per-invocation state.
func VertexBTransformPass(program *ir.Program) error {
	return invalidateFirst(program, ir.OpPrologue)
}

func invalidateFirst(program *ir.Program, op ir.Opcode) error {
	for _, block := range program.Blocks() {
		for inst := block.First(); inst != nil; inst = ir.Next(inst) {
			if inst.Opcode() == op {
				if err := inst.ForceInvalidate(); err != nil {
					return err
				}
				return block.Remove(inst)
			}
		}
	}
	return nil
}
