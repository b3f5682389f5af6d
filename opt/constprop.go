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
	"math"

	"github.com/sonburton99/shader-compiler/ir"
)

// ConstantPropagationPass visits every block in reverse post-order and, within
// each block, every instruction in program order, dispatching each to a
// small per-opcode rewrite routine. The pass runs exactly once per call: it
// never deletes an instruction outright, only redirects its uses, leaving
// the sweep to DeadCodeEliminationPass.
func ConstantPropagationPass(arena *ir.InstArena, program *ir.Program) error {
	for _, block := range program.ReversePostOrderBlocks() {
		for inst := block.First(); inst != nil; inst = ir.Next(inst) {
			if err := foldInstruction(arena, block, inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func foldInstruction(arena *ir.InstArena, block *ir.Block, inst *ir.Inst) error {
	switch inst.Opcode() {
	case ir.OpGetRegister:
		return foldGetRegister(inst)
	case ir.OpGetPred:
		return foldGetPred(inst)
	case ir.OpIAdd32:
		return foldIAdd32(arena, block, inst)
	case ir.OpIAdd64:
		return foldIAdd64(inst)
	case ir.OpISub32:
		return foldISub32(inst)
	case ir.OpIMul32:
		return foldWhenAllImmediatesBinaryU32(inst, func(a, b uint32) uint32 { return a * b })
	case ir.OpShiftRightArithmetic32:
		return foldWhenAllImmediatesBinaryU32(inst, func(a, b uint32) uint32 { return uint32(int32(a) >> (b & 31)) })
	case ir.OpBitCastF32U32:
		return foldBitCastF32U32(inst)
	case ir.OpBitCastU32F32:
		return foldBitCastU32F32(inst)
	case ir.OpPackHalf2x16:
		return foldInverseFunc(inst, ir.OpUnpackHalf2x16)
	case ir.OpUnpackHalf2x16:
		return foldInverseFunc(inst, ir.OpPackHalf2x16)
	case ir.OpPackFloat2x16:
		return foldInverseFunc(inst, ir.OpUnpackFloat2x16)
	case ir.OpUnpackFloat2x16:
		return foldInverseFunc(inst, ir.OpPackFloat2x16)
	case ir.OpSelectU1, ir.OpSelectU8, ir.OpSelectU16, ir.OpSelectU32, ir.OpSelectU64,
		ir.OpSelectF16, ir.OpSelectF32, ir.OpSelectF64:
		return foldSelect(inst)
	case ir.OpFPMul32:
		return foldFPMul32(inst)
	case ir.OpLogicalAnd:
		return foldLogicalAnd(inst)
	case ir.OpLogicalOr:
		return foldLogicalOr(inst)
	case ir.OpLogicalNot:
		return foldLogicalNot(inst)
	case ir.OpSLessThan:
		return foldWhenAllImmediatesBinaryS32Bool(inst, func(a, b int32) bool { return a < b })
	case ir.OpULessThan:
		return foldWhenAllImmediatesBinaryU32Bool(inst, func(a, b uint32) bool { return a < b })
	case ir.OpSLessThanEqual:
		return foldWhenAllImmediatesBinaryS32Bool(inst, func(a, b int32) bool { return a <= b })
	case ir.OpULessThanEqual:
		return foldWhenAllImmediatesBinaryU32Bool(inst, func(a, b uint32) bool { return a <= b })
	case ir.OpSGreaterThan:
		return foldWhenAllImmediatesBinaryS32Bool(inst, func(a, b int32) bool { return a > b })
	case ir.OpUGreaterThan:
		return foldWhenAllImmediatesBinaryU32Bool(inst, func(a, b uint32) bool { return a > b })
	case ir.OpSGreaterThanEqual:
		return foldWhenAllImmediatesBinaryS32Bool(inst, func(a, b int32) bool { return a >= b })
	case ir.OpUGreaterThanEqual:
		return foldWhenAllImmediatesBinaryU32Bool(inst, func(a, b uint32) bool { return a >= b })
	case ir.OpIEqual:
		return foldWhenAllImmediatesBinaryU32Bool(inst, func(a, b uint32) bool { return a == b })
	case ir.OpINotEqual:
		return foldWhenAllImmediatesBinaryU32Bool(inst, func(a, b uint32) bool { return a != b })
	case ir.OpBitwiseAnd32:
		return foldWhenAllImmediatesBinaryU32(inst, func(a, b uint32) uint32 { return a & b })
	case ir.OpBitwiseOr32:
		return foldWhenAllImmediatesBinaryU32(inst, func(a, b uint32) uint32 { return a | b })
	case ir.OpBitwiseXor32:
		return foldWhenAllImmediatesBinaryU32(inst, func(a, b uint32) uint32 { return a ^ b })
	case ir.OpBitFieldUExtract:
		return foldBitFieldUExtract(inst)
	case ir.OpBitFieldSExtract:
		return foldBitFieldSExtract(inst)
	case ir.OpBitFieldInsert:
		return foldBitFieldInsert(inst)
	case ir.OpCompositeExtractU32x2:
		return foldCompositeExtract(inst, ir.OpCompositeConstructU32x2, ir.OpCompositeInsertU32x2)
	case ir.OpCompositeExtractU32x3:
		return foldCompositeExtract(inst, ir.OpCompositeConstructU32x3, ir.OpCompositeInsertU32x3)
	case ir.OpCompositeExtractU32x4:
		return foldCompositeExtract(inst, ir.OpCompositeConstructU32x4, ir.OpCompositeInsertU32x4)
	case ir.OpCompositeExtractF32x2:
		return foldCompositeExtract(inst, ir.OpCompositeConstructF32x2, ir.OpCompositeInsertF32x2)
	case ir.OpCompositeExtractF32x3:
		return foldCompositeExtract(inst, ir.OpCompositeConstructF32x3, ir.OpCompositeInsertF32x3)
	case ir.OpCompositeExtractF32x4:
		return foldCompositeExtract(inst, ir.OpCompositeConstructF32x4, ir.OpCompositeInsertF32x4)
	case ir.OpCompositeExtractF16x2:
		return foldCompositeExtract(inst, ir.OpCompositeConstructF16x2, ir.OpCompositeInsertF16x2)
	case ir.OpCompositeExtractF16x3:
		return foldCompositeExtract(inst, ir.OpCompositeConstructF16x3, ir.OpCompositeInsertF16x3)
	case ir.OpCompositeExtractF16x4:
		return foldCompositeExtract(inst, ir.OpCompositeConstructF16x4, ir.OpCompositeInsertF16x4)
	case ir.OpFSwizzleAdd:
		return foldFSwizzleAdd(arena, block, inst)
	default:
		return nil
	}
}

func foldGetRegister(inst *ir.Inst) error {
	reg, err := inst.Arg(0).Reg()
	if err != nil {
		return err
	}
	if reg == ir.RZ {
		return inst.ReplaceUsesWith(ir.ImmU32(0))
	}
	return nil
}

func foldGetPred(inst *ir.Inst) error {
	pred, err := inst.Arg(0).Pred()
	if err != nil {
		return err
	}
	if pred == ir.PT {
		return inst.ReplaceUsesWith(ir.ImmU1(true))
	}
	return nil
}

// foldCommutative implements §4.5.1's canonicalization: fold when both
// operands are immediate, swap an immediate left operand to the right, or
// (when the right operand is already a tree of the same opcode with an
// immediate right leaf) hoist and combine the two immediates in one step.
// It reports whether the caller should keep folding identities on inst (it
// does for every case except the fully-immediate one, which already
// replaced every use).
func foldCommutative(inst *ir.Inst, eval func(a, b ir.Value) (ir.Value, error)) (bool, error) {
	lhs, rhs := inst.Arg(0), inst.Arg(1)
	lhsImm, rhsImm := lhs.IsImmediate(), rhs.IsImmediate()
	if lhsImm && rhsImm {
		result, err := eval(lhs, rhs)
		if err != nil {
			return false, err
		}
		return false, inst.ReplaceUsesWith(result)
	}
	if lhsImm && !rhsImm {
		if rhsInst := rhs.Inst(); rhsInst != nil && rhsInst.Opcode() == inst.Opcode() && rhsInst.Arg(1).IsImmediate() {
			combined, err := eval(lhs, rhsInst.Arg(1))
			if err != nil {
				return false, err
			}
			if err := inst.SetArg(0, rhsInst.Arg(0)); err != nil {
				return false, err
			}
			return true, inst.SetArg(1, combined)
		}
		if err := inst.SetArg(0, rhs); err != nil {
			return false, err
		}
		return true, inst.SetArg(1, lhs)
	}
	if !lhsImm && rhsImm {
		if lhsInst := lhs.Inst(); lhsInst != nil && lhsInst.Opcode() == inst.Opcode() && lhsInst.Arg(1).IsImmediate() {
			combined, err := eval(rhs, lhsInst.Arg(1))
			if err != nil {
				return false, err
			}
			if err := inst.SetArg(0, lhsInst.Arg(0)); err != nil {
				return false, err
			}
			return true, inst.SetArg(1, combined)
		}
	}
	return true, nil
}

func evalAddU32(a, b ir.Value) (ir.Value, error) {
	av, err := a.U32()
	if err != nil {
		return ir.Value{}, err
	}
	bv, err := b.U32()
	if err != nil {
		return ir.Value{}, err
	}
	return ir.ImmU32(av + bv), nil
}

func evalAddU64(a, b ir.Value) (ir.Value, error) {
	av, err := a.U64()
	if err != nil {
		return ir.Value{}, err
	}
	bv, err := b.U64()
	if err != nil {
		return ir.Value{}, err
	}
	return ir.ImmU64(av + bv), nil
}

func foldIAdd32(arena *ir.InstArena, block *ir.Block, inst *ir.Inst) error {
	if inst.HasAssociatedPseudoOperation() {
		return nil
	}
	keepGoing, err := foldCommutative(inst, evalAddU32)
	if err != nil || !keepGoing {
		return err
	}
	if rhs := inst.Arg(1); rhs.IsImmediate() {
		if v, err := rhs.U32(); err == nil && v == 0 {
			return inst.ReplaceUsesWith(inst.Arg(0))
		}
	}
	if matched, err := foldXmadMultiply(arena, block, inst); matched || err != nil {
		return err
	}
	if matched, err := foldXmadMultiplyAdd(arena, block, inst); matched || err != nil {
		return err
	}
	return nil
}

func foldIAdd64(inst *ir.Inst) error {
	if inst.HasAssociatedPseudoOperation() {
		return nil
	}
	keepGoing, err := foldCommutative(inst, evalAddU64)
	if err != nil || !keepGoing {
		return err
	}
	if rhs := inst.Arg(1); rhs.IsImmediate() {
		if v, err := rhs.U64(); err == nil && v == 0 {
			return inst.ReplaceUsesWith(inst.Arg(0))
		}
	}
	return nil
}

// cbufEqual reports whether a and b are GetCbufU32 reads of the same buffer
// handle and offset — the equality the design calls out as not literal
// value equality but a semantic one over constant-buffer reads.
func cbufEqual(a, b *ir.Inst) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Opcode() != ir.OpGetCbufU32 || b.Opcode() != ir.OpGetCbufU32 {
		return false
	}
	return ir.Equal(a.Arg(0), b.Arg(0)) && ir.Equal(a.Arg(1), b.Arg(1))
}

// ISub32 is typically used to subtract two reads of the same constant
// buffer; fold that (and the "added-then-subtracted" variant) to zero / the
// added operand respectively, per §4.5.1's constant-buffer equality rule.
func foldISub32(inst *ir.Inst) error {
	if inst.AreAllArgsImmediates() && !inst.HasAssociatedPseudoOperation() {
		av, err := inst.Arg(0).U32()
		if err != nil {
			return err
		}
		bv, err := inst.Arg(1).U32()
		if err != nil {
			return err
		}
		return inst.ReplaceUsesWith(ir.ImmU32(av - bv))
	}
	if inst.Arg(0).IsImmediate() || inst.Arg(1).IsImmediate() {
		return nil
	}
	opA, opB := inst.Arg(0).Resolve().Inst(), inst.Arg(1).Resolve().Inst()
	if cbufEqual(opA, opB) {
		return inst.ReplaceUsesWith(ir.ImmU32(0))
	}
	if opB != nil && opB.Opcode() == ir.OpIAdd32 {
		opA, opB = opB, opA
	}
	if opB == nil || opB.Opcode() != ir.OpGetCbufU32 {
		return nil
	}
	instCbuf := opB
	if opA == nil || opA.Opcode() != ir.OpIAdd32 {
		return nil
	}
	addOpA, addOpB := opA.Arg(0), opA.Arg(1)
	if addOpB.IsImmediate() {
		addOpA, addOpB = addOpB, addOpA
	}
	if addOpB.IsImmediate() {
		return nil
	}
	addCbuf := addOpB.Resolve().Inst()
	if cbufEqual(addCbuf, instCbuf) {
		return inst.ReplaceUsesWith(addOpA)
	}
	return nil
}

func foldSelect(inst *ir.Inst) error {
	cond := inst.Arg(0)
	if !cond.IsImmediate() {
		return nil
	}
	b, err := cond.U1()
	if err != nil {
		return err
	}
	if b {
		return inst.ReplaceUsesWith(inst.Arg(1))
	}
	return inst.ReplaceUsesWith(inst.Arg(2))
}

// foldFPMul32 reverses the perspective-divide-for-attribute-interpolation
// pattern: FPMul32(FPMul32(a, b), FPRecip32(c)) folds to a when b and c read
// the same attribute tag, unless the multiply is marked no_contraction
// (§4.5.2) — contraction is exactly what this fold performs, fusing the
// outer multiply away, so a no_contraction multiply must never reach it.
// See SPEC_FULL.md / spec.md §9 for the false-positive risk the attribute-tag
// gate accepts.
func foldFPMul32(inst *ir.Inst) error {
	if inst.HasFlags(ir.FlagNoContraction) {
		return nil
	}
	lhs, rhs := inst.Arg(0), inst.Arg(1)
	if lhs.IsImmediate() || rhs.IsImmediate() {
		return nil
	}
	lhsOp, rhsOp := lhs.Inst(), rhs.Inst()
	if lhsOp == nil || rhsOp == nil {
		return nil
	}
	if lhsOp.Opcode() != ir.OpFPMul32 || rhsOp.Opcode() != ir.OpFPRecip32 {
		return nil
	}
	recipSource := rhsOp.Arg(0)
	lhsMulSource := lhsOp.Arg(1).Resolve()
	if recipSource.IsImmediate() || lhsMulSource.IsImmediate() {
		return nil
	}
	attrA, attrB := recipSource.Inst(), lhsMulSource.Inst()
	if attrA == nil || attrB == nil || attrA.Opcode() != ir.OpGetAttribute || attrB.Opcode() != ir.OpGetAttribute {
		return nil
	}
	a0, err := attrA.Arg(0).Attribute()
	if err != nil {
		return err
	}
	a1, err := attrB.Arg(0).Attribute()
	if err != nil {
		return err
	}
	if a0 != a1 {
		return nil
	}
	return inst.ReplaceUsesWith(lhsOp.Arg(0))
}

func foldLogicalAnd(inst *ir.Inst) error {
	eval := func(a, b ir.Value) (ir.Value, error) {
		av, err := a.U1()
		if err != nil {
			return ir.Value{}, err
		}
		bv, err := b.U1()
		if err != nil {
			return ir.Value{}, err
		}
		return ir.ImmU1(av && bv), nil
	}
	keepGoing, err := foldCommutative(inst, eval)
	if err != nil || !keepGoing {
		return err
	}
	rhs := inst.Arg(1)
	if !rhs.IsImmediate() {
		return nil
	}
	b, err := rhs.U1()
	if err != nil {
		return err
	}
	if b {
		return inst.ReplaceUsesWith(inst.Arg(0))
	}
	return inst.ReplaceUsesWith(ir.ImmU1(false))
}

func foldLogicalOr(inst *ir.Inst) error {
	eval := func(a, b ir.Value) (ir.Value, error) {
		av, err := a.U1()
		if err != nil {
			return ir.Value{}, err
		}
		bv, err := b.U1()
		if err != nil {
			return ir.Value{}, err
		}
		return ir.ImmU1(av || bv), nil
	}
	keepGoing, err := foldCommutative(inst, eval)
	if err != nil || !keepGoing {
		return err
	}
	rhs := inst.Arg(1)
	if !rhs.IsImmediate() {
		return nil
	}
	b, err := rhs.U1()
	if err != nil {
		return err
	}
	if b {
		return inst.ReplaceUsesWith(ir.ImmU1(true))
	}
	return inst.ReplaceUsesWith(inst.Arg(0))
}

func foldLogicalNot(inst *ir.Inst) error {
	value := inst.Arg(0)
	if value.IsImmediate() {
		b, err := value.U1()
		if err != nil {
			return err
		}
		return inst.ReplaceUsesWith(ir.ImmU1(!b))
	}
	arg := value.Inst()
	if arg != nil && arg.Opcode() == ir.OpLogicalNot {
		return inst.ReplaceUsesWith(arg.Arg(0))
	}
	return nil
}

// foldBitCastF32U32 additionally fuses a bit-cast of a raw constant-buffer
// read into a typed read: BitCastF32U32(GetCbufU32(h, o)) becomes
// GetCbufF32(h, o) in place, per §4.5.3.
func foldBitCastF32U32(inst *ir.Inst) error {
	value := inst.Arg(0)
	if value.IsImmediate() {
		v, err := value.U32()
		if err != nil {
			return err
		}
		return inst.ReplaceUsesWith(ir.ImmF32(math.Float32frombits(v)))
	}
	arg := value.Inst()
	if arg == nil {
		return nil
	}
	if arg.Opcode() == ir.OpBitCastU32F32 {
		return inst.ReplaceUsesWith(arg.Arg(0))
	}
	if arg.Opcode() == ir.OpGetCbufU32 {
		handle, offset := arg.Arg(0), arg.Arg(1)
		if err := inst.ReplaceOpcode(ir.OpGetCbufF32); err != nil {
			return err
		}
		if err := inst.SetArg(0, handle); err != nil {
			return err
		}
		return inst.SetArg(1, offset)
	}
	return nil
}

func foldBitCastU32F32(inst *ir.Inst) error {
	value := inst.Arg(0)
	if value.IsImmediate() {
		v, err := value.F32()
		if err != nil {
			return err
		}
		return inst.ReplaceUsesWith(ir.ImmU32(math.Float32bits(v)))
	}
	arg := value.Inst()
	if arg != nil && arg.Opcode() == ir.OpBitCastF32U32 {
		return inst.ReplaceUsesWith(arg.Arg(0))
	}
	return nil
}

func foldInverseFunc(inst *ir.Inst, reverse ir.Opcode) error {
	value := inst.Arg(0)
	if value.IsImmediate() {
		return nil
	}
	arg := value.Inst()
	if arg != nil && arg.Opcode() == reverse {
		return inst.ReplaceUsesWith(arg.Arg(0))
	}
	return nil
}

func foldWhenAllImmediatesBinaryU32(inst *ir.Inst, eval func(a, b uint32) uint32) error {
	if !inst.AreAllArgsImmediates() || inst.HasAssociatedPseudoOperation() {
		return nil
	}
	a, err := inst.Arg(0).U32()
	if err != nil {
		return err
	}
	b, err := inst.Arg(1).U32()
	if err != nil {
		return err
	}
	return inst.ReplaceUsesWith(ir.ImmU32(eval(a, b)))
}

func foldWhenAllImmediatesBinaryU32Bool(inst *ir.Inst, eval func(a, b uint32) bool) error {
	if !inst.AreAllArgsImmediates() || inst.HasAssociatedPseudoOperation() {
		return nil
	}
	a, err := inst.Arg(0).U32()
	if err != nil {
		return err
	}
	b, err := inst.Arg(1).U32()
	if err != nil {
		return err
	}
	return inst.ReplaceUsesWith(ir.ImmU1(eval(a, b)))
}

func foldWhenAllImmediatesBinaryS32Bool(inst *ir.Inst, eval func(a, b int32) bool) error {
	if !inst.AreAllArgsImmediates() || inst.HasAssociatedPseudoOperation() {
		return nil
	}
	a, err := inst.Arg(0).U32()
	if err != nil {
		return err
	}
	b, err := inst.Arg(1).U32()
	if err != nil {
		return err
	}
	return inst.ReplaceUsesWith(ir.ImmU1(eval(int32(a), int32(b))))
}

func foldBitFieldUExtract(inst *ir.Inst) error {
	if !inst.AreAllArgsImmediates() || inst.HasAssociatedPseudoOperation() {
		return nil
	}
	base, err := inst.Arg(0).U32()
	if err != nil {
		return err
	}
	shift, err := inst.Arg(1).U32()
	if err != nil {
		return err
	}
	count, err := inst.Arg(2).U32()
	if err != nil {
		return err
	}
	if uint64(shift)+uint64(count) > 32 {
		return ir.NewLogicError([]interface{}{base, shift, count}, "undefined result in BitFieldUExtract(%d, %d, %d)", base, shift, count)
	}
	var mask uint32
	if count < 32 {
		mask = (uint32(1) << count) - 1
	} else {
		mask = 0xffffffff
	}
	return inst.ReplaceUsesWith(ir.ImmU32((base >> shift) & mask))
}

func foldBitFieldSExtract(inst *ir.Inst) error {
	if !inst.AreAllArgsImmediates() || inst.HasAssociatedPseudoOperation() {
		return nil
	}
	base, err := inst.Arg(0).U32()
	if err != nil {
		return err
	}
	shift, err := inst.Arg(1).U32()
	if err != nil {
		return err
	}
	count, err := inst.Arg(2).U32()
	if err != nil {
		return err
	}
	backShift := uint64(shift) + uint64(count)
	if backShift > 32 {
		return ir.NewLogicError([]interface{}{base, shift, count}, "undefined result in BitFieldSExtract(%d, %d, %d)", base, shift, count)
	}
	leftShift := 32 - backShift
	rightShift := uint64(32 - count)
	if leftShift >= 32 || rightShift >= 32 {
		return ir.NewLogicError([]interface{}{base, shift, count}, "undefined result in BitFieldSExtract(%d, %d, %d)", base, shift, count)
	}
	result := uint32((int32(base) << leftShift) >> rightShift)
	return inst.ReplaceUsesWith(ir.ImmU32(result))
}

func foldBitFieldInsert(inst *ir.Inst) error {
	if !inst.AreAllArgsImmediates() || inst.HasAssociatedPseudoOperation() {
		return nil
	}
	base, err := inst.Arg(0).U32()
	if err != nil {
		return err
	}
	insert, err := inst.Arg(1).U32()
	if err != nil {
		return err
	}
	offset, err := inst.Arg(2).U32()
	if err != nil {
		return err
	}
	bits, err := inst.Arg(3).U32()
	if err != nil {
		return err
	}
	if bits >= 32 || offset >= 32 {
		return ir.NewLogicError([]interface{}{base, insert, offset, bits}, "undefined result in BitFieldInsert(%d, %d, %d, %d)", base, insert, offset, bits)
	}
	mask := ^(^uint32(0) << bits) << offset
	result := (base &^ mask) | (insert << offset)
	return inst.ReplaceUsesWith(ir.ImmU32(result))
}

func foldCompositeExtractImpl(value ir.Value, insert, construct ir.Opcode, firstIndex uint32) (ir.Value, bool) {
	inst := value.Resolve().Inst()
	if inst == nil {
		return ir.Value{}, false
	}
	if inst.Opcode() == construct {
		return inst.Arg(int(firstIndex)), true
	}
	if inst.Opcode() != insert {
		return ir.Value{}, false
	}
	indexValue := inst.Arg(2)
	if !indexValue.IsImmediate() {
		return ir.Value{}, false
	}
	secondIndex, err := indexValue.U32()
	if err != nil {
		return ir.Value{}, false
	}
	if firstIndex != secondIndex {
		composite := inst.Arg(0)
		if composite.IsImmediate() {
			return ir.Value{}, false
		}
		return foldCompositeExtractImpl(composite, insert, construct, firstIndex)
	}
	return inst.Arg(1), true
}

func foldCompositeExtract(inst *ir.Inst, construct, insert ir.Opcode) error {
	composite := inst.Arg(0)
	index := inst.Arg(1)
	if composite.IsImmediate() || !index.IsImmediate() {
		return nil
	}
	firstIndex, err := index.U32()
	if err != nil {
		return err
	}
	result, ok := foldCompositeExtractImpl(composite, insert, construct, firstIndex)
	if !ok {
		return nil
	}
	return inst.ReplaceUsesWith(result)
}

func getThroughCast(value ir.Value, expectedCast ir.Opcode) ir.Value {
	if value.IsImmediate() {
		return value
	}
	inst := value.Inst()
	if inst != nil && inst.Opcode() == expectedCast {
		return inst.Arg(0).Resolve()
	}
	return value
}

// foldFSwizzleAdd recognizes the ShuffleButterfly-plus-FSwizzleAdd shape a
// fine-grain derivative lowers to and rewrites it to DPdxFine/DPdyFine, per
// §4.5.7.
func foldFSwizzleAdd(arena *ir.InstArena, block *ir.Block, inst *ir.Inst) error {
	swizzle := inst.Arg(2)
	if !swizzle.IsImmediate() {
		return nil
	}
	value1 := getThroughCast(inst.Arg(0).Resolve(), ir.OpBitCastF32U32)
	value2 := getThroughCast(inst.Arg(1).Resolve(), ir.OpBitCastF32U32)
	if value1.IsImmediate() {
		return nil
	}
	swizzleValue, err := swizzle.U32()
	if err != nil {
		return err
	}
	if swizzleValue != 0x99 && swizzleValue != 0xA5 {
		return nil
	}
	shuffle := value1.Inst()
	if shuffle == nil || shuffle.Opcode() != ir.OpShuffleButterfly {
		return nil
	}
	value3 := getThroughCast(shuffle.Arg(0).Resolve(), ir.OpBitCastU32F32)
	if !ir.Equal(value2, value3) {
		return nil
	}
	index, clamp, segMask := shuffle.Arg(1), shuffle.Arg(2), shuffle.Arg(3)
	if !index.IsImmediate() || !clamp.IsImmediate() || !segMask.IsImmediate() {
		return nil
	}
	clampValue, err := clamp.U32()
	if err != nil {
		return err
	}
	segMaskValue, err := segMask.U32()
	if err != nil {
		return err
	}
	if clampValue != 3 || segMaskValue != 28 {
		return nil
	}
	indexValue, err := index.U32()
	if err != nil {
		return err
	}
	source, err := ir.NewF32(inst.Arg(1))
	if err != nil {
		return err
	}
	em := ir.NewEmitter(arena, block, inst)
	if swizzleValue == 0x99 && indexValue == 1 {
		result, err := em.DPdxFine(source)
		if err != nil {
			return err
		}
		return inst.ReplaceUsesWith(result.Value())
	}
	if swizzleValue == 0xA5 && indexValue == 2 {
		result, err := em.DPdyFine(source)
		if err != nil {
			return err
		}
		return inst.ReplaceUsesWith(result.Value())
	}
	return nil
}
