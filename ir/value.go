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

import (
	"fmt"
	"math"
)

// Reg names a machine register, including the always-zero RZ.
type Reg int32

// RZ is the zero register: reads as zero, writes are discarded.
const RZ Reg = 255

// Pred names a predicate register, including the always-true PT.
type Pred int32

// PT is the true predicate.
const PT Pred = 7

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	// KindVoid is the zero Value; it carries no payload.
	KindVoid Kind = iota
	KindImmU1
	KindImmU8
	KindImmU16
	KindImmU32
	KindImmU64
	KindImmF16
	KindImmF32
	KindImmF64
	KindReg
	KindPred
	KindAttribute
	// KindInst is a weak reference to an instruction's result. It is the only
	// Value variant IsImmediate reports false for.
	KindInst
)

// Value is a discriminated union over an immediate scalar, a machine
// register, a predicate, a program attribute, or an instruction reference.
// The zero Value is KindVoid.
type Value struct {
	kind Kind
	bits uint64
	inst *Inst
}

// Void returns the empty Value, used for unused argument slots.
func Void() Value { return Value{kind: KindVoid} }

// ImmU1 returns a boolean immediate.
func ImmU1(v bool) Value {
	b := uint64(0)
	if v {
		b = 1
	}
	return Value{kind: KindImmU1, bits: b}
}

// ImmU8 returns an 8-bit unsigned immediate.
func ImmU8(v uint8) Value { return Value{kind: KindImmU8, bits: uint64(v)} }

// ImmU16 returns a 16-bit unsigned immediate.
func ImmU16(v uint16) Value { return Value{kind: KindImmU16, bits: uint64(v)} }

// ImmU32 returns a 32-bit unsigned immediate.
func ImmU32(v uint32) Value { return Value{kind: KindImmU32, bits: uint64(v)} }

// ImmU64 returns a 64-bit unsigned immediate.
func ImmU64(v uint64) Value { return Value{kind: KindImmU64, bits: v} }

// ImmF16 returns a 16-bit float immediate, stored bit-for-bit.
func ImmF16(bits uint16) Value { return Value{kind: KindImmF16, bits: uint64(bits)} }

// ImmF32 returns a 32-bit float immediate.
func ImmF32(v float32) Value {
	return Value{kind: KindImmF32, bits: uint64(math.Float32bits(v))}
}

// ImmF64 returns a 64-bit float immediate.
func ImmF64(v float64) Value {
	return Value{kind: KindImmF64, bits: math.Float64bits(v)}
}

// FromReg returns a Value naming a machine register.
func FromReg(r Reg) Value { return Value{kind: KindReg, bits: uint64(uint32(r))} }

// FromPred returns a Value naming a predicate register.
func FromPred(p Pred) Value { return Value{kind: KindPred, bits: uint64(uint32(p))} }

// FromAttribute returns a Value naming a program attribute slot.
func FromAttribute(a Attribute) Value { return Value{kind: KindAttribute, bits: uint64(uint32(a))} }

// FromInst returns a weak reference to an instruction's result. It is never
// an ownership edge: the referenced instruction must outlive the Value.
func FromInst(i *Inst) Value { return Value{kind: KindInst, inst: i} }

// Kind returns the discriminant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsImmediate is true for every variant except an instruction reference.
func (v Value) IsImmediate() bool { return v.kind != KindInst }

// IsInst reports whether the value is an instruction reference.
func (v Value) IsInst() bool { return v.kind == KindInst }

// Inst returns the referenced instruction, or nil if this is not an
// instruction-reference Value.
func (v Value) Inst() *Inst { return v.inst }

// Resolve returns the underlying immediate when the referenced instruction is
// a single-argument identity pass-through (IR::Opcode::Identity), walking the
// chain until it bottoms out at a non-identity producer or an immediate.
// Otherwise it returns the value unchanged.
func (v Value) Resolve() Value {
	for v.kind == KindInst && v.inst != nil && v.inst.opcode == OpIdentity {
		v = v.inst.args[0]
	}
	return v
}

// Equal compares two values by tag and payload; instruction-reference values
// compare by identity.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KindInst {
		return a.inst == b.inst
	}
	return a.bits == b.bits
}

// U1 reads a boolean immediate, failing with InvalidArgument otherwise.
func (v Value) U1() (bool, error) {
	if v.kind != KindImmU1 {
		return false, NewInvalidArgument([]interface{}{v}, "value is not a U1 immediate")
	}
	return v.bits != 0, nil
}

// U8 reads an 8-bit unsigned immediate, failing with InvalidArgument otherwise.
func (v Value) U8() (uint8, error) {
	if v.kind != KindImmU8 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not a U8 immediate")
	}
	return uint8(v.bits), nil
}

// U16 reads a 16-bit unsigned immediate, failing with InvalidArgument otherwise.
func (v Value) U16() (uint16, error) {
	if v.kind != KindImmU16 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not a U16 immediate")
	}
	return uint16(v.bits), nil
}

// U32 reads a 32-bit unsigned immediate, failing with InvalidArgument otherwise.
func (v Value) U32() (uint32, error) {
	if v.kind != KindImmU32 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not a U32 immediate")
	}
	return uint32(v.bits), nil
}

// U64 reads a 64-bit unsigned immediate, failing with InvalidArgument otherwise.
func (v Value) U64() (uint64, error) {
	if v.kind != KindImmU64 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not a U64 immediate")
	}
	return v.bits, nil
}

// F16 reads a 16-bit float immediate's bit pattern, failing with
// InvalidArgument otherwise.
func (v Value) F16() (uint16, error) {
	if v.kind != KindImmF16 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not an F16 immediate")
	}
	return uint16(v.bits), nil
}

// F32 reads a 32-bit float immediate, failing with InvalidArgument otherwise.
func (v Value) F32() (float32, error) {
	if v.kind != KindImmF32 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not an F32 immediate")
	}
	return math.Float32frombits(uint32(v.bits)), nil
}

// F64 reads a 64-bit float immediate, failing with InvalidArgument otherwise.
func (v Value) F64() (float64, error) {
	if v.kind != KindImmF64 {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not an F64 immediate")
	}
	return math.Float64frombits(v.bits), nil
}

// Reg reads a register name, failing with InvalidArgument otherwise.
func (v Value) Reg() (Reg, error) {
	if v.kind != KindReg {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not a register")
	}
	return Reg(uint32(v.bits)), nil
}

// Pred reads a predicate name, failing with InvalidArgument otherwise.
func (v Value) Pred() (Pred, error) {
	if v.kind != KindPred {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not a predicate")
	}
	return Pred(uint32(v.bits)), nil
}

// Attribute reads an attribute slot, failing with InvalidArgument otherwise.
func (v Value) Attribute() (Attribute, error) {
	if v.kind != KindAttribute {
		return 0, NewInvalidArgument([]interface{}{v}, "value is not an attribute")
	}
	return Attribute(uint32(v.bits)), nil
}

func (v Value) String() string {
	switch v.kind {
	case KindVoid:
		return "<void>"
	case KindImmU1:
		return fmt.Sprintf("%t", v.bits != 0)
	case KindImmU8:
		return fmt.Sprintf("#%d", uint8(v.bits))
	case KindImmU16:
		return fmt.Sprintf("#%d", uint16(v.bits))
	case KindImmU32:
		return fmt.Sprintf("#%d", uint32(v.bits))
	case KindImmU64:
		return fmt.Sprintf("#%d", v.bits)
	case KindImmF16:
		return fmt.Sprintf("#f16(0x%04x)", uint16(v.bits))
	case KindImmF32:
		return fmt.Sprintf("#%g", math.Float32frombits(uint32(v.bits)))
	case KindImmF64:
		return fmt.Sprintf("#%g", math.Float64frombits(v.bits))
	case KindReg:
		if Reg(uint32(v.bits)) == RZ {
			return "RZ"
		}
		return fmt.Sprintf("R%d", uint32(v.bits))
	case KindPred:
		if Pred(uint32(v.bits)) == PT {
			return "PT"
		}
		return fmt.Sprintf("P%d", uint32(v.bits))
	case KindAttribute:
		return NameOf(Attribute(uint32(v.bits)))
	case KindInst:
		if v.inst == nil {
			return "<nil inst>"
		}
		return fmt.Sprintf("%%%d", v.inst.id)
	}
	return "<unknown>"
}
