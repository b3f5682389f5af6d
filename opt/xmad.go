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

// foldXmadMultiply recognizes the six-instruction shape the Maxwell decoder
// lowers a 16x16->32 multiply into:
//
//	t1 = BitFieldUExtract(a, 0, 16)
//	t2 = IMul32(t1, b)
//	t3 = BitFieldUExtract(a, 16, 16)
//	t4 = IMul32(t3, b)
//	t5 = ShiftLeftLogical32(t4, 16)
//	r  = IAdd32(t5, t2)
//
// and rewrites r to a single IMul32(a, b), leaving t1..t5 for
// DeadCodeEliminationPass to remove once their use count drops to zero.
func foldXmadMultiply(arena *ir.InstArena, block *ir.Block, inst *ir.Inst) (bool, error) {
	_, lhsShl := producer(inst, 0)
	_, rhsMul := producer(inst, 1)
	if lhsShl == nil || rhsMul == nil {
		return false, nil
	}
	if !matchOpcode(lhsShl, ir.OpShiftLeftLogical32) || !matchImmU32(lhsShl.Arg(1), 16) {
		return false, nil
	}
	_, lhsMul := producer(lhsShl, 0)
	if !matchOpcode(lhsMul, ir.OpIMul32) || rhsMul.Opcode() != ir.OpIMul32 {
		return false, nil
	}
	factorB := lhsMul.Arg(1).Resolve()
	if !ir.Equal(factorB, rhsMul.Arg(1).Resolve()) {
		return false, nil
	}
	_, lhsBfe := producer(lhsMul, 0)
	_, rhsBfe := producer(rhsMul, 0)
	if lhsBfe == nil || rhsBfe == nil {
		return false, nil
	}
	if !matchOpcode(lhsBfe, ir.OpBitFieldUExtract) || !matchOpcode(rhsBfe, ir.OpBitFieldUExtract) {
		return false, nil
	}
	if !matchImmU32(lhsBfe.Arg(1), 16) || !matchImmU32(lhsBfe.Arg(2), 16) {
		return false, nil
	}
	if !matchImmU32(rhsBfe.Arg(1), 0) || !matchImmU32(rhsBfe.Arg(2), 16) {
		return false, nil
	}
	factorA := lhsBfe.Arg(0).Resolve()
	if !ir.Equal(factorA, rhsBfe.Arg(0).Resolve()) {
		return false, nil
	}
	aU32, err := ir.NewU32(factorA)
	if err != nil {
		return false, err
	}
	bU32, err := ir.NewU32(factorB)
	if err != nil {
		return false, err
	}
	em := ir.NewEmitter(arena, block, inst)
	result, err := em.IMul32(aU32, bU32)
	if err != nil {
		return false, err
	}
	return true, inst.ReplaceUsesWith(result.Value())
}

// foldXmadMultiplyAdd recognizes the sixteen-instruction tree an integer
// fma(a, b, c) lowers to on Maxwell (three 16x16 partial products combined
// with BitFieldInsert/ShiftLeftLogical32 the way the multiply-only template
// combines two), and rewrites the root IAdd32 to IAdd32(IMul32(a, b), c).
// This reduction is only attempted from foldIAdd32, since the root of the
// tree is always an IAdd32.
func foldXmadMultiplyAdd(arena *ir.InstArena, block *ir.Block, inst *ir.Inst) (bool, error) {
	_, n25 := producer(inst, 0)
	_, n27 := producer(inst, 1)
	if n25 == nil || n27 == nil {
		return false, nil
	}
	if !matchOpcode(n27, ir.OpIAdd32) {
		return false, nil
	}
	if !matchOpcode(n25, ir.OpShiftLeftLogical32) || !matchImmU32(n25.Arg(1), 16) {
		return false, nil
	}
	_, n24 := producer(n25, 0)
	if !matchOpcode(n24, ir.OpIMul32) {
		return false, nil
	}
	_, n22 := producer(n24, 0)
	_, n23 := producer(n24, 1)
	if !matchOpcode(n22, ir.OpBitFieldUExtract) || !matchOpcode(n23, ir.OpBitFieldUExtract) {
		return false, nil
	}
	if !matchImmU32(n22.Arg(1), 16) || !matchImmU32(n22.Arg(2), 16) {
		return false, nil
	}
	if !matchImmU32(n23.Arg(1), 16) || !matchImmU32(n23.Arg(2), 16) {
		return false, nil
	}
	_, n11 := producer(n23, 0)
	if !matchOpcode(n11, ir.OpBitFieldInsert) {
		return false, nil
	}
	if !matchImmU32(n11.Arg(2), 16) || !matchImmU32(n11.Arg(3), 16) {
		return false, nil
	}
	_, n8 := producer(n11, 0)
	_, n10 := producer(n11, 1)
	if !matchOpcode(n8, ir.OpIMul32) || !matchOpcode(n10, ir.OpBitFieldUExtract) {
		return false, nil
	}
	_, n6 := producer(n8, 0)
	_, n7 := producer(n8, 1)
	if !matchOpcode(n6, ir.OpBitFieldUExtract) || !matchOpcode(n7, ir.OpBitFieldUExtract) {
		return false, nil
	}
	if !matchImmU32(n6.Arg(1), 0) || !matchImmU32(n6.Arg(2), 16) {
		return false, nil
	}
	if !matchImmU32(n7.Arg(1), 16) || !matchImmU32(n7.Arg(2), 16) {
		return false, nil
	}
	_, n26 := producer(n27, 0)
	_, n18 := producer(n27, 1)
	if n26 == nil || n18 == nil {
		return false, nil
	}
	if !matchOpcode(n26, ir.OpShiftLeftLogical32) || !matchImmU32(n26.Arg(1), 16) {
		return false, nil
	}
	if n26.Arg(0).Resolve().Inst() != n11 {
		return false, nil
	}
	if !matchOpcode(n18, ir.OpIAdd32) {
		return false, nil
	}
	_, n17 := producer(n18, 0)
	if !matchOpcode(n17, ir.OpIMul32) {
		return false, nil
	}
	_, n15 := producer(n17, 0)
	_, n16 := producer(n17, 1)
	if !matchOpcode(n15, ir.OpBitFieldUExtract) || !matchOpcode(n16, ir.OpBitFieldUExtract) {
		return false, nil
	}
	if !matchImmU32(n15.Arg(1), 0) || !matchImmU32(n16.Arg(1), 0) || !matchImmU32(n10.Arg(1), 0) {
		return false, nil
	}
	if !matchImmU32(n15.Arg(2), 16) || !matchImmU32(n16.Arg(2), 16) || !matchImmU32(n10.Arg(2), 16) {
		return false, nil
	}

	c := newCapture()
	if !c.bind("a", n7.Arg(0)) || !c.bind("a", n16.Arg(0)) || !c.bind("a", n10.Arg(0)) {
		return false, nil
	}
	if !c.bind("b", n22.Arg(0)) || !c.bind("b", n6.Arg(0)) || !c.bind("b", n15.Arg(0)) {
		return false, nil
	}
	opA, opB := c.value("a"), c.value("b")
	opC := n18.Arg(1)

	aU32, err := ir.NewU32(opA)
	if err != nil {
		return false, err
	}
	bU32, err := ir.NewU32(opB)
	if err != nil {
		return false, err
	}
	cU32, err := ir.NewU32(opC)
	if err != nil {
		return false, err
	}
	em := ir.NewEmitter(arena, block, inst)
	mul, err := em.IMul32(aU32, bU32)
	if err != nil {
		return false, err
	}
	add, err := em.IAdd32(mul, cU32)
	if err != nil {
		return false, err
	}
	return true, inst.ReplaceUsesWith(add.Value())
}
