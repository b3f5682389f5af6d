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

package backend_test

import (
	"testing"

	"github.com/sonburton99/shader-compiler/backend"
	"github.com/sonburton99/shader-compiler/internal/xassert"
	"github.com/sonburton99/shader-compiler/ir"
)

func newSingleBlockProgram(t *testing.T, stage ir.Stage) (*ir.InstArena, *ir.Program, *ir.Inst, *ir.Inst) {
	t.Helper()
	instArena := &ir.InstArena{}
	blockArena := &ir.BlockArena{}
	block := blockArena.New("entry")

	prologue, err := instArena.New(ir.OpPrologue)
	if err != nil {
		t.Fatal(err)
	}
	block.PushBack(prologue)
	epilogue, err := instArena.New(ir.OpEpilogue)
	if err != nil {
		t.Fatal(err)
	}
	block.PushBack(epilogue)

	program := ir.NewProgram(stage, block, []*ir.Block{block})
	return instArena, program, prologue, epilogue
}

func TestApplyPrologueContractDefaultsVertexBPosition(t *testing.T) {
	assert := xassert.To(t)
	arena, program, prologue, _ := newSingleBlockProgram(t, ir.VertexB)

	err := backend.ApplyPrologueContract(arena, program, backend.Profile{}, backend.RuntimeInfo{})
	assert.For("apply error").That(err).IsNil()

	var writes []ir.Attribute
	for inst := ir.Next(prologue); inst != nil; inst = ir.Next(inst) {
		if inst.Opcode() == ir.OpSetAttribute {
			attr, err := inst.Arg(0).Attribute()
			assert.For("attribute arg decode").That(err).IsNil()
			writes = append(writes, attr)
		}
	}
	assert.For("position writes present").That(len(writes) >= 4).IsTrue()
	assert.For("first write is PositionX").That(writes[0]).Equals(ir.PositionX)
}

func TestApplyPrologueContractSkipsNonVertexBPosition(t *testing.T) {
	assert := xassert.To(t)
	arena, program, prologue, epilogue := newSingleBlockProgram(t, ir.Fragment)

	err := backend.ApplyPrologueContract(arena, program, backend.Profile{}, backend.RuntimeInfo{})
	assert.For("apply error").That(err).IsNil()
	assert.For("no instructions inserted after prologue").That(ir.Next(prologue)).Equals(epilogue)
}

func TestApplyPrologueContractSetsFixedPointSize(t *testing.T) {
	assert := xassert.To(t)
	arena, program, prologue, _ := newSingleBlockProgram(t, ir.Geometry)

	size := float32(2.5)
	err := backend.ApplyPrologueContract(arena, program, backend.Profile{}, backend.RuntimeInfo{FixedStatePointSize: &size})
	assert.For("apply error").That(err).IsNil()

	inst := ir.Next(prologue)
	assert.For("point size instruction present").That(inst).IsNotNil()
	assert.For("point size opcode").That(inst.Opcode()).Equals(ir.OpSetAttribute)
	attr, err := inst.Arg(0).Attribute()
	assert.For("attribute decode").That(err).IsNil()
	assert.For("attribute is PointSize").That(attr).Equals(ir.PointSize)
}

func TestApplyEpilogueContractConvertsDepthMode(t *testing.T) {
	assert := xassert.To(t)
	arena, program, _, epilogue := newSingleBlockProgram(t, ir.VertexB)

	profile := backend.Profile{SupportNativeNdc: false}
	info := backend.RuntimeInfo{ConvertDepthMode: true}
	err := backend.ApplyEpilogueContract(arena, program, profile, info)
	assert.For("apply error").That(err).IsNil()

	var sawFPAdd, sawFPMul, sawSetPositionZ bool
	for inst := program.Entry.First(); inst != nil; inst = ir.Next(inst) {
		switch inst.Opcode() {
		case ir.OpFPAdd32:
			sawFPAdd = true
		case ir.OpFPMul32:
			sawFPMul = true
		case ir.OpSetAttribute:
			if attr, err := inst.Arg(0).Attribute(); err == nil && attr == ir.PositionZ {
				sawSetPositionZ = true
			}
		}
	}
	assert.For("emits FPAdd32").That(sawFPAdd).IsTrue()
	assert.For("emits FPMul32").That(sawFPMul).IsTrue()
	assert.For("rewrites Position.Z").That(sawSetPositionZ).IsTrue()
}

func TestApplyEpilogueContractSkipsWhenNativeNdcSupported(t *testing.T) {
	assert := xassert.To(t)
	arena, program, prologue, epilogue := newSingleBlockProgram(t, ir.VertexB)

	profile := backend.Profile{SupportNativeNdc: true}
	info := backend.RuntimeInfo{ConvertDepthMode: true}
	err := backend.ApplyEpilogueContract(arena, program, profile, info)
	assert.For("apply error").That(err).IsNil()
	assert.For("no rewrite inserted between prologue and epilogue").That(ir.Prev(epilogue)).Equals(prologue)
}

func TestApplyEmitVertexContractWarnsOnNonImmediateStream(t *testing.T) {
	assert := xassert.To(t)
	instArena := &ir.InstArena{}
	blockArena := &ir.BlockArena{}
	block := blockArena.New("entry")

	reg, err := instArena.New(ir.OpGetRegister, ir.FromReg(0))
	assert.For("build GetRegister").That(err).IsNil()
	block.PushBack(reg)
	emit, err := instArena.New(ir.OpEmitVertex, ir.FromInst(reg))
	assert.For("build EmitVertex").That(err).IsNil()
	block.PushBack(emit)

	program := ir.NewProgram(ir.Geometry, block, []*ir.Block{block})

	var warned bool
	backend.ApplyEmitVertexContract(program, func(format string, args ...interface{}) { warned = true })
	assert.For("warned about non-immediate stream").That(warned).IsTrue()
}
