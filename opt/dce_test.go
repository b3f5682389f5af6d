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

// TestDceRemovesChainInOneSweep covers scenario 6: a chain where y uses x and
// only y is otherwise unused must have both x and y removed by a single
// reverse-order sweep over the block, since removing y (the later
// instruction) must immediately drop x's use count to zero in time for the
// same pass to see it.
func TestDceRemovesChainInOneSweep(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	base, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	x, _ := arena.New(ir.OpIMul32, ir.FromInst(base), ir.FromInst(base))
	y, _ := arena.New(ir.OpIMul32, ir.FromInst(x), ir.FromInst(x))
	keep, _ := arena.New(ir.OpSetRegister, ir.FromReg(2), ir.FromInst(base))
	block.PushBack(base)
	block.PushBack(x)
	block.PushBack(y)
	block.PushBack(keep)

	program := ir.NewProgram(ir.Fragment, block, blocks.All())
	assert.For("dead code elimination").That(opt.DeadCodeEliminationPass(program)).IsNil()

	assert.For("y is removed").That(y.IsValid()).Equals(false)
	assert.For("x is removed in the same sweep").That(x.IsValid()).Equals(false)
	assert.For("base survives, still read by keep").That(base.IsValid()).IsTrue()
	assert.For("keep survives, it has a side effect").That(keep.IsValid()).IsTrue()
	assert.For("remaining block contents").That(block.Instructions()).DeepEquals([]*ir.Inst{base, keep})
}

// TestDeadCodeEliminationInvariant covers P3: after the sweep, every
// remaining instruction has at least one use or may have side effects.
func TestDeadCodeEliminationInvariant(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	a, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	unused, _ := arena.New(ir.OpIAdd32, ir.FromInst(a), ir.ImmU32(0))
	sideEffecting, _ := arena.New(ir.OpSetRegister, ir.FromReg(2), ir.FromInst(a))
	block.PushBack(a)
	block.PushBack(unused)
	block.PushBack(sideEffecting)

	program := ir.NewProgram(ir.Fragment, block, blocks.All())
	assert.For("dead code elimination").That(opt.DeadCodeEliminationPass(program)).IsNil()

	for _, inst := range block.Instructions() {
		ok := inst.HasUses() || inst.MayHaveSideEffects()
		assert.For("instruction %%%d satisfies the DCE invariant", inst.ID()).That(ok).IsTrue()
	}
	assert.For("the unused add is gone").That(unused.IsValid()).Equals(false)
	assert.For("the side-effecting write survives").That(sideEffecting.IsValid()).IsTrue()
}

func TestDeadCodeEliminationNeverRemovesSideEffects(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	prologue, _ := arena.New(ir.OpPrologue)
	block.PushBack(prologue)

	program := ir.NewProgram(ir.Fragment, block, blocks.All())
	assert.For("dead code elimination").That(opt.DeadCodeEliminationPass(program)).IsNil()
	assert.For("Prologue is never removed for lack of uses").That(prologue.IsValid()).IsTrue()
}
