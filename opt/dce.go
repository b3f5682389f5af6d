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

// DeadCodeEliminationPass sweeps every block in post-order, walking each
// block's instructions in reverse program order. Reverse order is required:
// invalidating a later instruction can drop its operand producer's use
// count to zero, and the same pass over the same block must catch that
// newly-dead producer without a second sweep.
func DeadCodeEliminationPass(program *ir.Program) error {
	for _, block := range program.PostOrderBlocks() {
		inst := block.Last()
		for inst != nil {
			prev := ir.Prev(inst)
			if !inst.HasUses() && !inst.MayHaveSideEffects() {
				if err := inst.Invalidate(); err != nil {
					return err
				}
				if err := block.Remove(inst); err != nil {
					return err
				}
			}
			inst = prev
		}
	}
	return nil
}
