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

// Emitter is a cursor into one block: every typed builder method appends a
// freshly allocated instruction immediately before the cursor's mark and
// advances nothing (new instructions accumulate in program order ahead of
// the mark). Builders are the only sanctioned way to grow a block while a
// pass is rewriting it — reaching for InstArena.New and Block.InsertBefore
// directly bypasses the typed-handle validation below.
type Emitter struct {
	arena *InstArena
	block *Block
	mark  *Inst
}

// NewEmitter returns a cursor that inserts into block immediately before
// mark. Pass nil for mark to insert at the end of the block.
func NewEmitter(arena *InstArena, block *Block, mark *Inst) *Emitter {
	return &Emitter{arena: arena, block: block, mark: mark}
}

// AtEnd returns a cursor that appends to the end of block.
func AtEnd(arena *InstArena, block *Block) *Emitter {
	return NewEmitter(arena, block, nil)
}

func (e *Emitter) insert(op Opcode, args ...Value) (*Inst, error) {
	inst, err := e.arena.New(op, args...)
	if err != nil {
		return nil, err
	}
	if e.mark != nil {
		if err := e.block.InsertBefore(e.mark, inst); err != nil {
			return nil, err
		}
	} else {
		e.block.PushBack(inst)
	}
	return inst, nil
}

// IAdd32 builds a 32-bit integer add.
func (e *Emitter) IAdd32(a, b U32) (U32, error) {
	inst, err := e.insert(OpIAdd32, a.Value(), b.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// IAdd64 builds a 64-bit integer add.
func (e *Emitter) IAdd64(a, b U64) (U64, error) {
	inst, err := e.insert(OpIAdd64, a.Value(), b.Value())
	if err != nil {
		return U64{}, err
	}
	return NewU64(FromInst(inst))
}

// ISub32 builds a 32-bit integer subtract.
func (e *Emitter) ISub32(a, b U32) (U32, error) {
	inst, err := e.insert(OpISub32, a.Value(), b.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// IMul32 builds a 32-bit integer multiply.
func (e *Emitter) IMul32(a, b U32) (U32, error) {
	inst, err := e.insert(OpIMul32, a.Value(), b.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// ShiftLeftLogical32 builds a 32-bit logical left shift.
func (e *Emitter) ShiftLeftLogical32(a, shift U32) (U32, error) {
	inst, err := e.insert(OpShiftLeftLogical32, a.Value(), shift.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// BitFieldUExtract builds an unsigned bit-field extract.
func (e *Emitter) BitFieldUExtract(base, offset, width U32) (U32, error) {
	inst, err := e.insert(OpBitFieldUExtract, base.Value(), offset.Value(), width.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// LogicalNot builds a boolean negation.
func (e *Emitter) LogicalNot(a U1) (U1, error) {
	inst, err := e.insert(OpLogicalNot, a.Value())
	if err != nil {
		return U1{}, err
	}
	return NewU1(FromInst(inst))
}

// BitCastF32U32 builds a bitwise reinterpretation from u32 to f32.
func (e *Emitter) BitCastF32U32(a U32) (F32, error) {
	inst, err := e.insert(OpBitCastF32U32, a.Value())
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}

// BitCastU32F32 builds a bitwise reinterpretation from f32 to u32.
func (e *Emitter) BitCastU32F32(a F32) (U32, error) {
	inst, err := e.insert(OpBitCastU32F32, a.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// GetCbufF32 builds a float constant-buffer read at (handle, offset).
func (e *Emitter) GetCbufF32(handle, offset U32) (F32, error) {
	inst, err := e.insert(OpGetCbufF32, handle.Value(), offset.Value())
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}

// GetCbufU32 builds an integer constant-buffer read at (handle, offset).
func (e *Emitter) GetCbufU32(handle, offset U32) (U32, error) {
	inst, err := e.insert(OpGetCbufU32, handle.Value(), offset.Value())
	if err != nil {
		return U32{}, err
	}
	return NewU32(FromInst(inst))
}

// FPAdd32 builds a 32-bit float add.
func (e *Emitter) FPAdd32(a, b F32) (F32, error) {
	inst, err := e.insert(OpFPAdd32, a.Value(), b.Value())
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}

// FPMul32 builds a 32-bit float multiply.
func (e *Emitter) FPMul32(a, b F32) (F32, error) {
	inst, err := e.insert(OpFPMul32, a.Value(), b.Value())
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}

// DPdxFine builds a fine-grain partial derivative along x.
func (e *Emitter) DPdxFine(a F32) (F32, error) {
	inst, err := e.insert(OpDPdxFine, a.Value())
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}

// DPdyFine builds a fine-grain partial derivative along y.
func (e *Emitter) DPdyFine(a F32) (F32, error) {
	inst, err := e.insert(OpDPdyFine, a.Value())
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}

// Identity builds a single-argument pass-through; Value.Resolve sees through
// it transparently. Used where a rewrite needs to produce a placeholder
// reference without committing to a concrete opcode yet.
func (e *Emitter) Identity(v Value) (*Inst, error) {
	return e.insert(OpIdentity, v)
}

// SetAttribute builds a program-attribute write.
func (e *Emitter) SetAttribute(attr Attribute, v F32) (*Inst, error) {
	return e.insert(OpSetAttribute, FromAttribute(attr), v.Value())
}

// GetAttribute builds a program-attribute read.
func (e *Emitter) GetAttribute(attr Attribute) (F32, error) {
	inst, err := e.insert(OpGetAttribute, FromAttribute(attr))
	if err != nil {
		return F32{}, err
	}
	return NewF32(FromInst(inst))
}
