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
	"context"
	"errors"
	"testing"

	"github.com/sonburton99/shader-compiler/internal/xassert"
	"github.com/sonburton99/shader-compiler/ir"
	"github.com/sonburton99/shader-compiler/opt"
)

// TestRunPassesWithNoExternalHooksStillFoldsAndCleansUp covers §4.8/§7:
// RunPasses must run its own constant-propagation and DCE steps even when
// every external collaborator hook is nil.
func TestRunPassesWithNoExternalHooksStillFoldsAndCleansUp(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	a, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	dead, _ := arena.New(ir.OpIAdd32, ir.FromInst(a), ir.ImmU32(0))
	live, _ := arena.New(ir.OpSetRegister, ir.FromReg(2), ir.FromInst(a))
	block.PushBack(a)
	block.PushBack(dead)
	block.PushBack(live)

	program := ir.NewProgram(ir.Fragment, block, blocks.All())
	err := opt.RunPasses(context.Background(), arena, program, opt.ExternalPasses{})
	assert.For("run passes with no external hooks").That(err).IsNil()

	assert.For("the never-materialized add is dead and removed").That(dead.IsValid()).Equals(false)
	assert.For("the side-effecting write survives").That(live.IsValid()).IsTrue()
}

// TestRunPassesAbortsOnExternalHookError covers §7: a failing external
// collaborator aborts the whole compile, and later steps never run.
func TestRunPassesAbortsOnExternalHookError(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")
	a, _ := arena.New(ir.OpGetRegister, ir.FromReg(1))
	block.PushBack(a)
	program := ir.NewProgram(ir.Fragment, block, blocks.All())

	boom := errors.New("texture pass exploded")
	textureCalled := false
	rescalingCalled := false
	err := opt.RunPasses(context.Background(), arena, program, opt.ExternalPasses{
		Texture:   func(*ir.Program) error { textureCalled = true; return boom },
		Rescaling: func(*ir.Program) error { rescalingCalled = true; return nil },
	})

	assert.For("run passes propagates the external error").That(err).Equals(boom)
	assert.For("texture hook ran").That(textureCalled).IsTrue()
	assert.For("rescaling never runs after texture fails").That(rescalingCalled).Equals(false)
}

func TestRunDualVertexStitchSucceedsOnWellFormedPair(t *testing.T) {
	assert := xassert.To(t)
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")
	// Vertex A carries an Epilogue and vertex B a Prologue, so this exercises
	// the plain success path of RunDualVertexStitch: both markers are removed.
	prologue, _ := arena.New(ir.OpPrologue)
	epilogue, _ := arena.New(ir.OpEpilogue)
	block.PushBack(prologue)
	block.PushBack(epilogue)
	vertexA := ir.NewProgram(ir.VertexA, block, blocks.All())

	otherBlocks := &ir.BlockArena{}
	otherBlock := otherBlocks.New("entry")
	otherProlo, _ := arena.New(ir.OpPrologue)
	otherBlock.PushBack(otherProlo)
	vertexB := ir.NewProgram(ir.VertexB, otherBlock, otherBlocks.All())

	assert.For("stitch").That(opt.RunDualVertexStitch(vertexA, vertexB)).IsNil()
	assert.For("vertex A epilogue removed").That(epilogue.IsValid()).Equals(false)
	assert.For("vertex B prologue removed").That(otherProlo.IsValid()).Equals(false)
}
