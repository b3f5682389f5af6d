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

import (
	"context"

	"github.com/sonburton99/shader-compiler/internal/slog"
	"github.com/sonburton99/shader-compiler/ir"
)

// ExternalPasses groups the optional hooks for passes this module treats as
// external collaborators (§4.8): SSA rewrite, identity removal,
// global-memory-to-storage-buffer lowering, the texture pass, rescaling,
// narrowing lowering, verification, and shader-info collection. A nil hook
// is simply skipped — RunPasses still runs the passes it owns
// (constant propagation and DCE) in the canonical position. Dual-vertex
// stitching is not part of RunPasses; RunDualVertexStitch runs it.
type ExternalPasses struct {
	SSARewrite                  func(*ir.Program) error
	IdentityRemoval             func(*ir.Program) error
	GlobalMemoryToStorageBuffer func(*ir.Program) error
	Texture                     func(*ir.Program) error
	Rescaling                   func(*ir.Program) error
	LowerFP16ToFP32             func(*ir.Program) error
	LowerInt64ToInt32           func(*ir.Program) error
	Verification                func(*ir.Program) error
	CollectShaderInfo           func(*ir.Program) error
}

// RunPasses drives the canonical, fixed pass order over program: SSA
// rewrite, identity removal, constant propagation, dead-code elimination,
// global-memory-to-storage-buffer lowering, the texture pass, rescaling,
// optional narrowing lowering, verification, and shader-info collection.
// Every step after a failure aborts the whole compile — per §7, none of
// these errors are recoverable.
func RunPasses(ctx context.Context, arena *ir.InstArena, program *ir.Program, ext ExternalPasses) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"ssa_rewrite", wrapExternal(ext.SSARewrite, program)},
		{"identity_removal", wrapExternal(ext.IdentityRemoval, program)},
		{"constant_propagation", func() error { return ConstantPropagationPass(arena, program) }},
		{"dead_code_elimination", func() error { return DeadCodeEliminationPass(program) }},
		{"global_memory_to_storage_buffer", wrapExternal(ext.GlobalMemoryToStorageBuffer, program)},
		{"texture", wrapExternal(ext.Texture, program)},
		{"rescaling", wrapExternal(ext.Rescaling, program)},
		{"lower_fp16_to_fp32", wrapExternal(ext.LowerFP16ToFP32, program)},
		{"lower_int64_to_int32", wrapExternal(ext.LowerInt64ToInt32, program)},
		{"verification", wrapExternal(ext.Verification, program)},
		{"collect_shader_info", wrapExternal(ext.CollectShaderInfo, program)},
	}
	for _, step := range steps {
		slog.Debugf(ctx, "running pass %s on stage %s", step.name, program.Stage)
		if err := step.run(); err != nil {
			return err
		}
	}
	return nil
}

func wrapExternal(hook func(*ir.Program) error, program *ir.Program) func() error {
	return func() error {
		if hook == nil {
			return nil
		}
		return hook(program)
	}
}

// RunDualVertexStitch runs the two dual-vertex transform passes (§4.7) in
// sequence, removing vertex-A's trailing Epilogue and vertex-B's leading
// Prologue so MergeDualVertexPrograms can concatenate the two block lists.
func RunDualVertexStitch(vertexA, vertexB *ir.Program) error {
	if err := VertexATransformPass(vertexA); err != nil {
		return err
	}
	return VertexBTransformPass(vertexB)
}
