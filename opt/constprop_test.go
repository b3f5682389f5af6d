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

package opt_test

import (
	"testing"

	"github.com/sonburton99/shader-compiler/internal/xassert"
	"github.com/sonburton99/shader-compiler/ir"
	"github.com/sonburton99/shader-compiler/opt"
)

// singleBlockProgram builds a one-block program over insts (already spliced
// into the block via arena allocation order) so ConstantPropagationPass has a
// reverse-post-order view of exactly one block to walk.
func singleBlockProgram(arena *ir.InstArena, blocks *ir.BlockArena, insts ...*ir.Inst) *ir.Program {
	block := blocks.New("entry")
	for _, inst := range insts {
		block.PushBack(inst)
	}
	return ir.NewProgram(ir.Fragment, block, blocks.All())
}

// TestBitCastRoundTrips covers the BitCastF32U32 ∘ BitCastU32F32 = id law (and
// its reverse): constant propagation cancels a cast immediately followed by
// its inverse.
func TestBitCastRoundTrips(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	reg, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	asFloat, _ := arena.New(ir.OpBitCastF32U32, ir.FromInst(reg))
	backToU32, _ := arena.New(ir.OpBitCastU32F32, ir.FromInst(asFloat))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(backToU32), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, reg, asFloat, backToU32, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("BitCastU32F32(BitCastF32U32(x)) folds to x").That(consumer.Arg(0)).Equals(ir.FromInst(reg))
}

func TestBitCastRoundTripsReverse(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	cbufRead, _ := arena.New(ir.OpGetCbufF32, ir.ImmU32(0), ir.ImmU32(0))
	asU32, _ := arena.New(ir.OpBitCastU32F32, ir.FromInst(cbufRead))
	backToFloat, _ := arena.New(ir.OpBitCastF32U32, ir.FromInst(asU32))
	consumer, _ := arena.New(ir.OpFPMul32, ir.FromInst(backToFloat), ir.FromInst(backToFloat))

	program := singleBlockProgram(arena, blocks, cbufRead, asU32, backToFloat, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("BitCastF32U32(BitCastU32F32(x)) folds to x").That(consumer.Arg(0)).Equals(ir.FromInst(cbufRead))
}

// TestPackUnpackRoundTrips covers the Pack∘Unpack = id law for both the half
// and packed-float families.
func TestPackUnpackRoundTrips(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	packed, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	unpacked, _ := arena.New(ir.OpUnpackHalf2x16, ir.FromInst(packed))
	repacked, _ := arena.New(ir.OpPackHalf2x16, ir.FromInst(unpacked))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(repacked), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, packed, unpacked, repacked, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("PackHalf2x16(UnpackHalf2x16(x)) folds to x").That(consumer.Arg(0)).Equals(ir.FromInst(packed))
}

func TestPackUnpackFloat2x16RoundTrips(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	packed, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	unpacked, _ := arena.New(ir.OpUnpackFloat2x16, ir.FromInst(packed))
	repacked, _ := arena.New(ir.OpPackFloat2x16, ir.FromInst(unpacked))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(repacked), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, packed, unpacked, repacked, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("PackFloat2x16(UnpackFloat2x16(x)) folds to x").That(consumer.Arg(0)).Equals(ir.FromInst(packed))
}

// TestCompositeExtractConstructRoundTrips covers
// CompositeExtract(CompositeConstruct(x0..xk), i) = xi.
func TestCompositeExtractConstructRoundTrips(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	x0, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	x1, _ := arena.New(ir.OpGetRegister, ir.FromReg(2))
	x2, _ := arena.New(ir.OpGetRegister, ir.FromReg(3))
	construct, _ := arena.New(ir.OpCompositeConstructU32x3, ir.FromInst(x0), ir.FromInst(x1), ir.FromInst(x2))
	extract1, _ := arena.New(ir.OpCompositeExtractU32x3, ir.FromInst(construct), ir.ImmU32(1))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(extract1), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, x0, x1, x2, construct, extract1, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("extract at index 1 yields x1").That(consumer.Arg(0)).Equals(ir.FromInst(x1))
}

// TestCompositeInsertExtractSameIndex covers
// CompositeExtract(CompositeInsert(base, v, i), i) = v.
func TestCompositeInsertExtractSameIndex(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	x0, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	x1, _ := arena.New(ir.OpGetRegister, ir.FromReg(2))
	v, _ := arena.New(ir.OpGetRegister, ir.FromReg(3))
	construct, _ := arena.New(ir.OpCompositeConstructU32x2, ir.FromInst(x0), ir.FromInst(x1))
	insert, _ := arena.New(ir.OpCompositeInsertU32x2, ir.FromInst(construct), ir.FromInst(v), ir.ImmU32(1))
	extract, _ := arena.New(ir.OpCompositeExtractU32x2, ir.FromInst(insert), ir.ImmU32(1))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(extract), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, x0, x1, v, construct, insert, extract, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("extract at the inserted index yields the inserted value").That(consumer.Arg(0)).Equals(ir.FromInst(v))
}

// TestCompositeInsertExtractDifferentIndexRecurses covers
// CompositeExtract(CompositeInsert(base, v, i), j) = CompositeExtract(base, j)
// for i != j.
func TestCompositeInsertExtractDifferentIndexRecurses(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	x0, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	x1, _ := arena.New(ir.OpGetRegister, ir.FromReg(2))
	v, _ := arena.New(ir.OpGetRegister, ir.FromReg(3))
	construct, _ := arena.New(ir.OpCompositeConstructU32x2, ir.FromInst(x0), ir.FromInst(x1))
	insert, _ := arena.New(ir.OpCompositeInsertU32x2, ir.FromInst(construct), ir.FromInst(v), ir.ImmU32(1))
	extract, _ := arena.New(ir.OpCompositeExtractU32x2, ir.FromInst(insert), ir.ImmU32(0))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(extract), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, x0, x1, v, construct, insert, extract, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("extract at a different index recurses into the base").That(consumer.Arg(0)).Equals(ir.FromInst(x0))
}

// TestCbufSubtractFoldsToZero covers scenario 3: ISub32 of two reads of the
// same constant buffer handle/offset folds to the immediate zero.
func TestCbufSubtractFoldsToZero(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	readA, _ := arena.New(ir.OpGetCbufU32, ir.ImmU32(0), ir.ImmU32(4))
	readB, _ := arena.New(ir.OpGetCbufU32, ir.ImmU32(0), ir.ImmU32(4))
	sub, _ := arena.New(ir.OpISub32, ir.FromInst(readA), ir.FromInst(readB))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(sub), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, readA, readB, sub, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("subtracting two equal cbuf reads folds to zero").That(consumer.Arg(0)).Equals(ir.ImmU32(0))
}

// TestBitCastCbufFusion covers §4.5.3: BitCastF32U32(GetCbufU32(h, o)) fuses
// into a typed GetCbufF32(h, o) read in place.
func TestBitCastCbufFusion(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	cbufRead, _ := arena.New(ir.OpGetCbufU32, ir.ImmU32(1), ir.ImmU32(8))
	cast, _ := arena.New(ir.OpBitCastF32U32, ir.FromInst(cbufRead))
	consumer, _ := arena.New(ir.OpFPMul32, ir.FromInst(cast), ir.FromInst(cast))

	program := singleBlockProgram(arena, blocks, cbufRead, cast, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("the cast fused into a typed cbuf read").That(cast.Opcode()).Equals(ir.OpGetCbufF32)
	assert.For("fused read keeps the handle").That(cast.Arg(0)).Equals(ir.ImmU32(1))
	assert.For("fused read keeps the offset").That(cast.Arg(1)).Equals(ir.ImmU32(8))
	assert.For("the raw u32 read is now unused").That(cbufRead.HasUses()).Equals(false)
}

// TestFPMul32NoContractionBlocksPerspectiveDivideFold covers §4.5.2: an
// FPMul32 flagged no_contraction must not be folded away even when it
// otherwise matches the perspective-divide-for-interpolation shape.
func TestFPMul32NoContractionBlocksPerspectiveDivideFold(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	attrA, _ := arena.New(ir.OpGetAttribute, ir.FromAttribute(ir.Generic0X))
	attrB, _ := arena.New(ir.OpGetAttribute, ir.FromAttribute(ir.Generic0X))
	innerMul, _ := arena.New(ir.OpFPMul32, ir.FromInst(attrA), ir.FromInst(attrB))
	recip, _ := arena.New(ir.OpFPRecip32, ir.FromInst(attrB))
	outerMul, _ := arena.New(ir.OpFPMul32, ir.FromInst(innerMul), ir.FromInst(recip))
	outerMul.SetFlags(ir.FlagNoContraction)
	consumer, _ := arena.New(ir.OpFPAdd32, ir.FromInst(outerMul), ir.ImmF32(0))

	program := singleBlockProgram(arena, blocks, attrA, attrB, innerMul, recip, outerMul, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("no_contraction blocks the fold: outerMul survives untouched").That(consumer.Arg(0)).Equals(ir.FromInst(outerMul))
}

// TestFPMul32FoldsWithoutNoContraction is the control case for the test
// above: the same shape without the flag set does fold to the attribute
// read, matching scenario coverage for §4.5.2's interpolation-cancellation
// fold.
func TestFPMul32FoldsWithoutNoContraction(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	attrA, _ := arena.New(ir.OpGetAttribute, ir.FromAttribute(ir.Generic0X))
	attrB, _ := arena.New(ir.OpGetAttribute, ir.FromAttribute(ir.Generic0X))
	innerMul, _ := arena.New(ir.OpFPMul32, ir.FromInst(attrA), ir.FromInst(attrB))
	recip, _ := arena.New(ir.OpFPRecip32, ir.FromInst(attrB))
	outerMul, _ := arena.New(ir.OpFPMul32, ir.FromInst(innerMul), ir.FromInst(recip))
	consumer, _ := arena.New(ir.OpFPAdd32, ir.FromInst(outerMul), ir.ImmF32(0))

	program := singleBlockProgram(arena, blocks, attrA, attrB, innerMul, recip, outerMul, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("interpolation fold fires without no_contraction").That(consumer.Arg(0)).Equals(ir.FromInst(attrA))
}

// TestAllImmediateArgumentsNeverSurviveConstantPropagation covers P2: an
// instruction whose arguments are all immediates is always replaced by the
// folded immediate, never left standing as an operation over constants.
func TestAllImmediateArgumentsNeverSurviveConstantPropagation(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	mul, _ := arena.New(ir.OpIMul32, ir.ImmU32(6), ir.ImmU32(7))
	consumer, _ := arena.New(ir.OpIAdd32, ir.FromInst(mul), ir.ImmU32(0))

	program := singleBlockProgram(arena, blocks, mul, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("all-immediate multiply folds to its immediate result").That(consumer.Arg(0)).Equals(ir.ImmU32(42))
	assert.For("the multiply instruction has no remaining uses").That(mul.HasUses()).Equals(false)
}

// TestDoubleLogicalNotCancelsInOnePass covers scenario 4:
// LogicalNot(LogicalNot(%x)) folds to %x in a single pass.
func TestDoubleLogicalNotCancelsInOnePass(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}

	pred, _ := arena.New(ir.OpGetPred, ir.FromPred(1))
	not1, _ := arena.New(ir.OpLogicalNot, ir.FromInst(pred))
	not2, _ := arena.New(ir.OpLogicalNot, ir.FromInst(not1))
	consumer, _ := arena.New(ir.OpLogicalAnd, ir.FromInst(not2), ir.ImmU1(true))

	program := singleBlockProgram(arena, blocks, pred, not1, not2, consumer)
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	assert.For("double negation cancels").That(consumer.Arg(0)).Equals(ir.FromInst(pred))
}
