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

// buildXmadMultiplyTemplate constructs the six-instruction shape
// foldXmadMultiply recognizes:
//
//	t1 = BitFieldUExtract(a, 16, 16)
//	t2 = IMul32(t1, b)
//	t3 = BitFieldUExtract(a, 0, 16)
//	t4 = IMul32(t3, b)
//	t5 = ShiftLeftLogical32(t2, 16)
//	r  = IAdd32(t5, t4)
func buildXmadMultiplyTemplate(arena *ir.InstArena, a, b *ir.Inst) (root *ir.Inst, rest []*ir.Inst) {
	t1, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(a), ir.ImmU32(16), ir.ImmU32(16))
	t2, _ := arena.New(ir.OpIMul32, ir.FromInst(t1), ir.FromInst(b))
	t3, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(a), ir.ImmU32(0), ir.ImmU32(16))
	t4, _ := arena.New(ir.OpIMul32, ir.FromInst(t3), ir.FromInst(b))
	t5, _ := arena.New(ir.OpShiftLeftLogical32, ir.FromInst(t2), ir.ImmU32(16))
	r, _ := arena.New(ir.OpIAdd32, ir.FromInst(t5), ir.FromInst(t4))
	return r, []*ir.Inst{t1, t2, t3, t4, t5}
}

// TestXmadMultiplyCollapsesThenDce covers scenario 1: the six-node XMAD
// multiply template collapses to a single IMul32(a, b), and a following DCE
// sweep removes the five now-dead intermediates.
func TestXmadMultiplyCollapsesThenDce(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	a, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	b, _ := arena.New(ir.OpGetRegister, ir.FromReg(2))
	block.PushBack(a)
	block.PushBack(b)
	root, rest := buildXmadMultiplyTemplate(arena, a, b)
	for _, inst := range rest {
		block.PushBack(inst)
	}
	block.PushBack(root)
	consumer, _ := arena.New(ir.OpSetRegister, ir.FromReg(3), ir.FromInst(root))
	block.PushBack(consumer)

	program := ir.NewProgram(ir.Fragment, block, blocks.All())
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	newProducer := consumer.Arg(1).Resolve().Inst()
	assert.For("root collapses to IMul32").That(newProducer.Opcode()).Equals(ir.OpIMul32)
	assert.For("multiply operand a").That(newProducer.Arg(0)).Equals(ir.FromInst(a))
	assert.For("multiply operand b").That(newProducer.Arg(1)).Equals(ir.FromInst(b))

	assert.For("dead code elimination").That(opt.DeadCodeEliminationPass(program)).IsNil()
	remaining := block.Instructions()
	assert.For("only a, b, the new IMul32 and the consumer survive").That(len(remaining)).Equals(4)
	for _, inst := range rest {
		assert.For("intermediate %%%d removed", inst.ID()).That(inst.IsValid()).Equals(false)
	}
}

// buildXmadMultiplyAddTemplate constructs the sixteen-instruction tree
// foldXmadMultiplyAdd recognizes for fma(a, b, c), matching the exact shape
// the pass's matcher walks: n11 (the BitFieldInsert combining the two
// low*high partial products) is read by both n23 and n26, and every
// BitFieldUExtract reading a or b is checked for a consistent binding.
func buildXmadMultiplyAddTemplate(arena *ir.InstArena, a, b, c *ir.Inst) (root *ir.Inst, rest []*ir.Inst) {
	n7, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(a), ir.ImmU32(16), ir.ImmU32(16))
	n6, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(b), ir.ImmU32(0), ir.ImmU32(16))
	n8, _ := arena.New(ir.OpIMul32, ir.FromInst(n6), ir.FromInst(n7))
	n10, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(a), ir.ImmU32(0), ir.ImmU32(16))
	n11, _ := arena.New(ir.OpBitFieldInsert, ir.FromInst(n8), ir.FromInst(n10), ir.ImmU32(16), ir.ImmU32(16))

	n22, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(b), ir.ImmU32(16), ir.ImmU32(16))
	n23, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(n11), ir.ImmU32(16), ir.ImmU32(16))
	n24, _ := arena.New(ir.OpIMul32, ir.FromInst(n22), ir.FromInst(n23))
	n25, _ := arena.New(ir.OpShiftLeftLogical32, ir.FromInst(n24), ir.ImmU32(16))

	n26, _ := arena.New(ir.OpShiftLeftLogical32, ir.FromInst(n11), ir.ImmU32(16))

	n15, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(b), ir.ImmU32(0), ir.ImmU32(16))
	n16, _ := arena.New(ir.OpBitFieldUExtract, ir.FromInst(a), ir.ImmU32(0), ir.ImmU32(16))
	n17, _ := arena.New(ir.OpIMul32, ir.FromInst(n15), ir.FromInst(n16))
	n18, _ := arena.New(ir.OpIAdd32, ir.FromInst(n17), ir.FromInst(c))

	n27, _ := arena.New(ir.OpIAdd32, ir.FromInst(n26), ir.FromInst(n18))

	root, _ = arena.New(ir.OpIAdd32, ir.FromInst(n25), ir.FromInst(n27))
	return root, []*ir.Inst{n7, n6, n8, n10, n11, n22, n23, n24, n25, n26, n15, n16, n17, n18, n27}
}

// TestXmadMultiplyAddCollapses covers scenario 2: the sixteen-node integer
// FMA template collapses to IAdd32(IMul32(a, b), c).
func TestXmadMultiplyAddCollapses(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	a, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	b, _ := arena.New(ir.OpGetRegister, ir.FromReg(2))
	c, _ := arena.New(ir.OpGetRegister, ir.FromReg(3))
	block.PushBack(a)
	block.PushBack(b)
	block.PushBack(c)
	root, rest := buildXmadMultiplyAddTemplate(arena, a, b, c)
	for _, inst := range rest {
		block.PushBack(inst)
	}
	block.PushBack(root)
	consumer, _ := arena.New(ir.OpSetRegister, ir.FromReg(4), ir.FromInst(root))
	block.PushBack(consumer)

	program := ir.NewProgram(ir.Fragment, block, blocks.All())
	assert.For("constant propagation").That(opt.ConstantPropagationPass(arena, program)).IsNil()

	newAdd := consumer.Arg(1).Resolve().Inst()
	assert.For("root collapses to IAdd32").That(newAdd.Opcode()).Equals(ir.OpIAdd32)
	mul := newAdd.Arg(0).Resolve().Inst()
	assert.For("first operand is IMul32").That(mul.Opcode()).Equals(ir.OpIMul32)
	assert.For("multiply operand a").That(mul.Arg(0)).Equals(ir.FromInst(a))
	assert.For("multiply operand b").That(mul.Arg(1)).Equals(ir.FromInst(b))
	assert.For("add operand c").That(newAdd.Arg(1)).Equals(ir.FromInst(c))
}
