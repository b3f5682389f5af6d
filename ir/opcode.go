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

package ir

// MaxArity bounds the number of arguments any opcode takes. BitFieldInsert
// and ShuffleButterfly are the widest at four.
const MaxArity = 4

// ArgKind is the scalar kind an argument slot or a result carries.
type ArgKind uint8

const (
	KindNone ArgKind = iota
	KindOfU1
	KindOfU8
	KindOfU16
	KindOfU32
	KindOfU64
	KindOfF16
	KindOfF32
	KindOfF64
	KindOfReg
	KindOfPred
	KindOfAttribute
	// KindOfOpaque marks an argument/result whose scalar kind is not fixed by
	// the opcode alone (e.g. the generic Select family, composite values).
	KindOfOpaque
)

// Opcode enumerates every SSA instruction kind the middle end reasons about.
// The front end and backends carry additional opcodes outside this set
// (texture sampling, control flow, barriers, ...); only the ones the
// optimization passes in this module dispatch on are listed here, per the
// single-source-of-truth opcode metadata table design (see OpcodeInfo below).
type Opcode int32

const (
	OpVoid Opcode = iota

	// OpIdentity is a single-argument pass-through inserted by SSA
	// construction; Value.Resolve walks through it.
	OpIdentity

	OpGetRegister
	OpSetRegister
	OpGetPred
	OpSetPred
	OpGetCbufU32
	OpGetCbufF32
	OpGetAttribute
	OpSetAttribute

	OpPrologue
	OpEpilogue
	OpEmitVertex
	OpEndPrimitive

	OpIAdd32
	OpIAdd64
	OpISub32
	OpIMul32
	OpINeg32

	OpShiftLeftLogical32
	OpShiftRightArithmetic32
	OpShiftRightLogical32
	OpBitwiseAnd32
	OpBitwiseOr32
	OpBitwiseXor32
	OpBitFieldUExtract
	OpBitFieldSExtract
	OpBitFieldInsert

	OpSLessThan
	OpULessThan
	OpSLessThanEqual
	OpULessThanEqual
	OpSGreaterThan
	OpUGreaterThan
	OpSGreaterThanEqual
	OpUGreaterThanEqual
	OpIEqual
	OpINotEqual

	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot

	OpSelectU1
	OpSelectU8
	OpSelectU16
	OpSelectU32
	OpSelectU64
	OpSelectF16
	OpSelectF32
	OpSelectF64

	OpBitCastF32U32
	OpBitCastU32F32

	OpPackHalf2x16
	OpUnpackHalf2x16
	OpPackFloat2x16
	OpUnpackFloat2x16

	OpCompositeConstructU32x2
	OpCompositeConstructU32x3
	OpCompositeConstructU32x4
	OpCompositeExtractU32x2
	OpCompositeExtractU32x3
	OpCompositeExtractU32x4
	OpCompositeInsertU32x2
	OpCompositeInsertU32x3
	OpCompositeInsertU32x4

	OpCompositeConstructF32x2
	OpCompositeConstructF32x3
	OpCompositeConstructF32x4
	OpCompositeExtractF32x2
	OpCompositeExtractF32x3
	OpCompositeExtractF32x4
	OpCompositeInsertF32x2
	OpCompositeInsertF32x3
	OpCompositeInsertF32x4

	OpCompositeConstructF16x2
	OpCompositeConstructF16x3
	OpCompositeConstructF16x4
	OpCompositeExtractF16x2
	OpCompositeExtractF16x3
	OpCompositeExtractF16x4
	OpCompositeInsertF16x2
	OpCompositeInsertF16x3
	OpCompositeInsertF16x4

	OpFPAdd32
	OpFPMul32
	OpFPRecip32
	OpFSwizzleAdd
	OpShuffleButterfly
	OpDPdxFine
	OpDPdyFine

	// Pseudo-operations: derived instructions reading a secondary output of
	// a parent arithmetic instruction. Arg(0) is always the parent.
	OpGetCarryFromOp
	OpGetOverflowFromOp
	OpGetZeroFromOp
	OpGetSparseFromOp
	OpGetInBoundsFromOp

	opcodeCount
)

// OpcodeInfo is one row of the declarative opcode metadata table: printable
// name, argument kinds (fixing arity), result kind, the side-effect bit DCE
// reads, and whether the opcode is commutative for the canonicalization
// pre-pass. This table is generated, in spirit, from the single list below —
// every other component (validation, the emitter's builders, DCE,
// constant propagation) reads from it rather than re-deriving arity or
// side-effect information.
type OpcodeInfo struct {
	Name          string
	Args          []ArgKind
	Result        ArgKind
	SideEffects   bool
	Commutative   bool
	IsPseudoOp    bool
	PseudoKind    PseudoKind
}

// PseudoKind names which secondary output of a parent instruction a
// pseudo-operation reads.
type PseudoKind uint8

const (
	PseudoNone PseudoKind = iota
	PseudoCarry
	PseudoOverflow
	PseudoZero
	PseudoSparse
	PseudoInBounds
)

var opcodeTable = buildOpcodeTable()

func buildOpcodeTable() [opcodeCount]OpcodeInfo {
	var t [opcodeCount]OpcodeInfo
	row := func(op Opcode, info OpcodeInfo) { t[op] = info }

	row(OpVoid, OpcodeInfo{Name: "Void"})
	row(OpIdentity, OpcodeInfo{Name: "Identity", Args: []ArgKind{KindOfOpaque}, Result: KindOfOpaque})

	row(OpGetRegister, OpcodeInfo{Name: "GetRegister", Args: []ArgKind{KindOfReg}, Result: KindOfU32})
	row(OpSetRegister, OpcodeInfo{Name: "SetRegister", Args: []ArgKind{KindOfReg, KindOfU32}, SideEffects: true})
	row(OpGetPred, OpcodeInfo{Name: "GetPred", Args: []ArgKind{KindOfPred}, Result: KindOfU1})
	row(OpSetPred, OpcodeInfo{Name: "SetPred", Args: []ArgKind{KindOfPred, KindOfU1}, SideEffects: true})
	row(OpGetCbufU32, OpcodeInfo{Name: "GetCbufU32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpGetCbufF32, OpcodeInfo{Name: "GetCbufF32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfF32})
	row(OpGetAttribute, OpcodeInfo{Name: "GetAttribute", Args: []ArgKind{KindOfAttribute}, Result: KindOfF32})
	row(OpSetAttribute, OpcodeInfo{Name: "SetAttribute", Args: []ArgKind{KindOfAttribute, KindOfF32}, SideEffects: true})

	row(OpPrologue, OpcodeInfo{Name: "Prologue", SideEffects: true})
	row(OpEpilogue, OpcodeInfo{Name: "Epilogue", SideEffects: true})
	row(OpEmitVertex, OpcodeInfo{Name: "EmitVertex", Args: []ArgKind{KindOfU32}, SideEffects: true})
	row(OpEndPrimitive, OpcodeInfo{Name: "EndPrimitive", Args: []ArgKind{KindOfU32}, SideEffects: true})

	row(OpIAdd32, OpcodeInfo{Name: "IAdd32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32, Commutative: true})
	row(OpIAdd64, OpcodeInfo{Name: "IAdd64", Args: []ArgKind{KindOfU64, KindOfU64}, Result: KindOfU64, Commutative: true})
	row(OpISub32, OpcodeInfo{Name: "ISub32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpIMul32, OpcodeInfo{Name: "IMul32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32, Commutative: true})
	row(OpINeg32, OpcodeInfo{Name: "INeg32", Args: []ArgKind{KindOfU32}, Result: KindOfU32})

	row(OpShiftLeftLogical32, OpcodeInfo{Name: "ShiftLeftLogical32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpShiftRightArithmetic32, OpcodeInfo{Name: "ShiftRightArithmetic32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpShiftRightLogical32, OpcodeInfo{Name: "ShiftRightLogical32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpBitwiseAnd32, OpcodeInfo{Name: "BitwiseAnd32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32, Commutative: true})
	row(OpBitwiseOr32, OpcodeInfo{Name: "BitwiseOr32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32, Commutative: true})
	row(OpBitwiseXor32, OpcodeInfo{Name: "BitwiseXor32", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU32, Commutative: true})
	row(OpBitFieldUExtract, OpcodeInfo{Name: "BitFieldUExtract", Args: []ArgKind{KindOfU32, KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpBitFieldSExtract, OpcodeInfo{Name: "BitFieldSExtract", Args: []ArgKind{KindOfU32, KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpBitFieldInsert, OpcodeInfo{Name: "BitFieldInsert", Args: []ArgKind{KindOfU32, KindOfU32, KindOfU32, KindOfU32}, Result: KindOfU32})

	row(OpSLessThan, OpcodeInfo{Name: "SLessThan", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpULessThan, OpcodeInfo{Name: "ULessThan", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpSLessThanEqual, OpcodeInfo{Name: "SLessThanEqual", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpULessThanEqual, OpcodeInfo{Name: "ULessThanEqual", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpSGreaterThan, OpcodeInfo{Name: "SGreaterThan", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpUGreaterThan, OpcodeInfo{Name: "UGreaterThan", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpSGreaterThanEqual, OpcodeInfo{Name: "SGreaterThanEqual", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpUGreaterThanEqual, OpcodeInfo{Name: "UGreaterThanEqual", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1})
	row(OpIEqual, OpcodeInfo{Name: "IEqual", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1, Commutative: true})
	row(OpINotEqual, OpcodeInfo{Name: "INotEqual", Args: []ArgKind{KindOfU32, KindOfU32}, Result: KindOfU1, Commutative: true})

	row(OpLogicalAnd, OpcodeInfo{Name: "LogicalAnd", Args: []ArgKind{KindOfU1, KindOfU1}, Result: KindOfU1, Commutative: true})
	row(OpLogicalOr, OpcodeInfo{Name: "LogicalOr", Args: []ArgKind{KindOfU1, KindOfU1}, Result: KindOfU1, Commutative: true})
	row(OpLogicalNot, OpcodeInfo{Name: "LogicalNot", Args: []ArgKind{KindOfU1}, Result: KindOfU1})

	selectRow := func(op Opcode, name string, kind ArgKind) {
		row(op, OpcodeInfo{Name: name, Args: []ArgKind{KindOfU1, kind, kind}, Result: kind})
	}
	selectRow(OpSelectU1, "SelectU1", KindOfU1)
	selectRow(OpSelectU8, "SelectU8", KindOfU8)
	selectRow(OpSelectU16, "SelectU16", KindOfU16)
	selectRow(OpSelectU32, "SelectU32", KindOfU32)
	selectRow(OpSelectU64, "SelectU64", KindOfU64)
	selectRow(OpSelectF16, "SelectF16", KindOfF16)
	selectRow(OpSelectF32, "SelectF32", KindOfF32)
	selectRow(OpSelectF64, "SelectF64", KindOfF64)

	row(OpBitCastF32U32, OpcodeInfo{Name: "BitCastF32U32", Args: []ArgKind{KindOfU32}, Result: KindOfF32})
	row(OpBitCastU32F32, OpcodeInfo{Name: "BitCastU32F32", Args: []ArgKind{KindOfF32}, Result: KindOfU32})

	row(OpPackHalf2x16, OpcodeInfo{Name: "PackHalf2x16", Args: []ArgKind{KindOfOpaque}, Result: KindOfU32})
	row(OpUnpackHalf2x16, OpcodeInfo{Name: "UnpackHalf2x16", Args: []ArgKind{KindOfU32}, Result: KindOfOpaque})
	row(OpPackFloat2x16, OpcodeInfo{Name: "PackFloat2x16", Args: []ArgKind{KindOfOpaque}, Result: KindOfU32})
	row(OpUnpackFloat2x16, OpcodeInfo{Name: "UnpackFloat2x16", Args: []ArgKind{KindOfU32}, Result: KindOfOpaque})

	composite := func(constructOp, extractOp, insertOp Opcode, base string, n int, elem ArgKind) {
		args := make([]ArgKind, n)
		for i := range args {
			args[i] = elem
		}
		row(constructOp, OpcodeInfo{Name: "CompositeConstruct" + base, Args: args, Result: KindOfOpaque})
		row(extractOp, OpcodeInfo{Name: "CompositeExtract" + base, Args: []ArgKind{KindOfOpaque, KindOfU32}, Result: elem})
		row(insertOp, OpcodeInfo{Name: "CompositeInsert" + base, Args: []ArgKind{KindOfOpaque, elem, KindOfU32}, Result: KindOfOpaque})
	}
	composite(OpCompositeConstructU32x2, OpCompositeExtractU32x2, OpCompositeInsertU32x2, "U32x2", 2, KindOfU32)
	composite(OpCompositeConstructU32x3, OpCompositeExtractU32x3, OpCompositeInsertU32x3, "U32x3", 3, KindOfU32)
	composite(OpCompositeConstructU32x4, OpCompositeExtractU32x4, OpCompositeInsertU32x4, "U32x4", 4, KindOfU32)
	composite(OpCompositeConstructF32x2, OpCompositeExtractF32x2, OpCompositeInsertF32x2, "F32x2", 2, KindOfF32)
	composite(OpCompositeConstructF32x3, OpCompositeExtractF32x3, OpCompositeInsertF32x3, "F32x3", 3, KindOfF32)
	composite(OpCompositeConstructF32x4, OpCompositeExtractF32x4, OpCompositeInsertF32x4, "F32x4", 4, KindOfF32)
	composite(OpCompositeConstructF16x2, OpCompositeExtractF16x2, OpCompositeInsertF16x2, "F16x2", 2, KindOfF16)
	composite(OpCompositeConstructF16x3, OpCompositeExtractF16x3, OpCompositeInsertF16x3, "F16x3", 3, KindOfF16)
	composite(OpCompositeConstructF16x4, OpCompositeExtractF16x4, OpCompositeInsertF16x4, "F16x4", 4, KindOfF16)

	row(OpFPAdd32, OpcodeInfo{Name: "FPAdd32", Args: []ArgKind{KindOfF32, KindOfF32}, Result: KindOfF32, Commutative: true})
	row(OpFPMul32, OpcodeInfo{Name: "FPMul32", Args: []ArgKind{KindOfF32, KindOfF32}, Result: KindOfF32, Commutative: true})
	row(OpFPRecip32, OpcodeInfo{Name: "FPRecip32", Args: []ArgKind{KindOfF32}, Result: KindOfF32})
	row(OpFSwizzleAdd, OpcodeInfo{Name: "FSwizzleAdd", Args: []ArgKind{KindOfF32, KindOfF32, KindOfU32}, Result: KindOfF32})
	row(OpShuffleButterfly, OpcodeInfo{Name: "ShuffleButterfly", Args: []ArgKind{KindOfU32, KindOfU32, KindOfU32, KindOfU32}, Result: KindOfU32})
	row(OpDPdxFine, OpcodeInfo{Name: "DPdxFine", Args: []ArgKind{KindOfF32}, Result: KindOfF32})
	row(OpDPdyFine, OpcodeInfo{Name: "DPdyFine", Args: []ArgKind{KindOfF32}, Result: KindOfF32})

	pseudo := func(op Opcode, name string, kind PseudoKind) {
		row(op, OpcodeInfo{Name: name, Args: []ArgKind{KindOfOpaque}, Result: KindOfU1, IsPseudoOp: true, PseudoKind: kind})
	}
	pseudo(OpGetCarryFromOp, "GetCarryFromOp", PseudoCarry)
	pseudo(OpGetOverflowFromOp, "GetOverflowFromOp", PseudoOverflow)
	pseudo(OpGetZeroFromOp, "GetZeroFromOp", PseudoZero)
	pseudo(OpGetSparseFromOp, "GetSparseFromOp", PseudoSparse)
	pseudo(OpGetInBoundsFromOp, "GetInBoundsFromOp", PseudoInBounds)

	return t
}

// Info returns the metadata row for op.
func Info(op Opcode) OpcodeInfo { return opcodeTable[op] }

// Arity returns the number of arguments op takes.
func Arity(op Opcode) int { return len(opcodeTable[op].Args) }

// NameOfOpcode returns the printable name of an opcode.
func NameOfOpcode(op Opcode) string {
	if name := opcodeTable[op].Name; name != "" {
		return name
	}
	return "<unknown opcode>"
}

// MayHaveSideEffects reports whether DCE must never remove an instruction
// with this opcode regardless of its use count.
func MayHaveSideEffects(op Opcode) bool { return opcodeTable[op].SideEffects }

// IsCommutative reports whether op is eligible for the commutative
// canonicalization pre-pass (§4.5.1).
func IsCommutative(op Opcode) bool { return opcodeTable[op].Commutative }

// canProducePseudo reports whether an instruction with opcode op can stand in
// as the parent of a pseudo-operation after a ReplaceUsesWith migration. Every non-pseudo opcode is eligible: the
// pseudo-operation's own opcode records which secondary output it reads, and
// it is the caller's responsibility (checked at the point of migration) that
// the new producer is itself a real arithmetic instruction rather than an
// immediate or another pseudo-op.
func canProducePseudo(op Opcode) bool {
	return !opcodeTable[op].IsPseudoOp && op != OpVoid
}
