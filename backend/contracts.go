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

// ApplyPrologueContract rewrites every Prologue instruction in program
// in place, inserting the writes a vertex-B stage needs before its own body
// runs: output_position defaulted to (0,0,0,1), every generic component the
// host expects but the shader never writes defaulted to the same rule
// EmitPrologue's DefaultVarying applies (zero, except component index 3
// which gets one), and the fixed-function point size when the runtime
// configured one. A Geometry stage gets only the fixed-function point-size
// write; any other stage leaves Prologue untouched.
//
// profile.HasBrokenSpirvAccessChainOpt gates an "unoptimised zero" cbuf load
// the original backend emits to defeat a driver bug; that rewrite reads back
// a specific SPIR-V access-chain word sequence, which is a backend-emission
// concern rather than an ir.Program rewrite, so it is not reproduced here —
// profile is accepted for contract symmetry with ApplyEpilogueContract.
func ApplyPrologueContract(arena *ir.InstArena, program *ir.Program, profile Profile, info RuntimeInfo) error {
	for _, block := range program.Blocks() {
		for inst := block.First(); inst != nil; inst = ir.Next(inst) {
			if inst.Opcode() != ir.OpPrologue {
				continue
			}
			if err := rewritePrologue(arena, block, inst, program.Stage, info); err != nil {
				return err
			}
		}
	}
	return nil
}

func rewritePrologue(arena *ir.InstArena, block *ir.Block, prologue *ir.Inst, stage ir.Stage, info RuntimeInfo) error {
	em := ir.NewEmitter(arena, block, ir.Next(prologue))

	if stage == ir.VertexB {
		if err := defaultPosition(em); err != nil {
			return err
		}
		for i, numComponents := range info.OutputGenericComponents {
			if numComponents == 0 {
				continue
			}
			if err := defaultGeneric(em, i, numComponents); err != nil {
				return err
			}
		}
	}
	if stage == ir.VertexB || stage == ir.Geometry {
		if info.FixedStatePointSize != nil {
			pointSize, err := ir.NewF32(ir.ImmF32(*info.FixedStatePointSize))
			if err != nil {
				return err
			}
			if _, err := em.SetAttribute(ir.PointSize, pointSize); err != nil {
				return err
			}
		}
	}
	return nil
}

func defaultPosition(em *ir.Emitter) error {
	for i, attr := range []ir.Attribute{ir.PositionX, ir.PositionY, ir.PositionZ, ir.PositionW} {
		v, err := defaultComponent(uint32(i))
		if err != nil {
			return err
		}
		if _, err := em.SetAttribute(attr, v); err != nil {
			return err
		}
	}
	return nil
}

// defaultGeneric zero-fills the unused trailing components of generic
// varying index, matching EmitSPIRV's DefaultVarying: every component gets
// zero except the one at element index 3, which gets one. numComponents is
// the count the shader actually writes; components beyond it are defaulted.
func defaultGeneric(em *ir.Emitter, index int, numComponents uint32) error {
	if numComponents >= 4 {
		return nil
	}
	base := ir.Generic0X + ir.Attribute(index*4)
	for element := numComponents; element < 4; element++ {
		v, err := defaultComponent(element)
		if err != nil {
			return err
		}
		if _, err := em.SetAttribute(base+ir.Attribute(element), v); err != nil {
			return err
		}
	}
	return nil
}

func defaultComponent(element uint32) (ir.F32, error) {
	if element == 3 {
		return ir.NewF32(ir.ImmF32(1))
	}
	return ir.NewF32(ir.ImmF32(0))
}

// ApplyEpilogueContract rewrites every Epilogue instruction's surrounding
// block in place: on VertexB with depth-mode conversion enabled and no
// native-NDC support, it reads back Position.Z and Position.W and rewrites
// Position.Z to (z+w)*0.5 (the screen-depth convention, matching
// ConvertDepthMode in the original backend); on Fragment with an alpha-test
// function configured and not Always, it is a placeholder for the
// kill-branch the design assigns to this contract — branch insertion lives
// at the structured-control-flow layer this module does not own, so this
// only validates the configuration and returns, leaving a TODO for when
// that layer is wired in.
func ApplyEpilogueContract(arena *ir.InstArena, program *ir.Program, profile Profile, info RuntimeInfo) error {
	for _, block := range program.Blocks() {
		for inst := block.First(); inst != nil; inst = ir.Next(inst) {
			if inst.Opcode() != ir.OpEpilogue {
				continue
			}
			if err := rewriteEpilogue(arena, block, inst, program.Stage, profile, info); err != nil {
				return err
			}
		}
	}
	return nil
}

func rewriteEpilogue(arena *ir.InstArena, block *ir.Block, epilogue *ir.Inst, stage ir.Stage, profile Profile, info RuntimeInfo) error {
	if stage == ir.VertexB && info.ConvertDepthMode && !profile.SupportNativeNdc {
		if err := convertDepthMode(arena, block, epilogue); err != nil {
			return err
		}
	}
	if stage == ir.Fragment && info.AlphaTestFunc != nil && *info.AlphaTestFunc != CompareAlways {
		// TODO: emit the kill-branch once structured control flow exposes a
		// block-splitting API to this pass; for now the configuration is
		// accepted but no branch is inserted.
	}
	return nil
}

func convertDepthMode(arena *ir.InstArena, block *ir.Block, epilogue *ir.Inst) error {
	em := ir.NewEmitter(arena, block, epilogue)
	z, err := em.GetAttribute(ir.PositionZ)
	if err != nil {
		return err
	}
	w, err := em.GetAttribute(ir.PositionW)
	if err != nil {
		return err
	}
	sum, err := em.FPAdd32(z, w)
	if err != nil {
		return err
	}
	half, err := ir.NewF32(ir.ImmF32(0.5))
	if err != nil {
		return err
	}
	screenDepth, err := em.FPMul32(sum, half)
	if err != nil {
		return err
	}
	_, err = em.SetAttribute(ir.PositionZ, screenDepth)
	return err
}

// ApplyEmitVertexContract implements the non-immediate-stream warning the
// design mandates for EmitVertex/EndPrimitive (§6): a non-immediate stream
// argument is logged, not rejected, since multi-stream geometry is out of
// scope for now.
func ApplyEmitVertexContract(program *ir.Program, warn func(format string, args ...interface{})) {
	for _, block := range program.Blocks() {
		for inst := block.First(); inst != nil; inst = ir.Next(inst) {
			if inst.Opcode() != ir.OpEmitVertex && inst.Opcode() != ir.OpEndPrimitive {
				continue
			}
			if stream := inst.Arg(0); !stream.IsImmediate() {
				warn("stream argument to %s is not immediate", ir.NameOfOpcode(inst.Opcode()))
			}
		}
	}
}

