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

// InstArena owns every Inst created for one Program. Each instruction is
// heap-allocated individually via new, so the backing slice of pointers can
// grow freely without ever moving an already-handed-out *Inst — the "stable
// address, bulk ownership, monotonic counter" allocator the design calls for,
// with the counter simply being len(insts).
type InstArena struct {
	insts []*Inst
}

// New allocates a fresh instruction with the given opcode and arguments,
// appending it to the arena but not to any block. Use Block.PushBack (or
// InsertBefore/After) to splice it into a program.
func (a *InstArena) New(op Opcode, args ...Value) (*Inst, error) {
	info := Info(op)
	if len(args) != len(info.Args) {
		return nil, NewInvalidArgument([]interface{}{op, len(args)}, "opcode %s takes %d argument(s), got %d", NameOfOpcode(op), len(info.Args), len(args))
	}
	inst := &Inst{id: int32(len(a.insts)), opcode: op, valid: true}
	for n, v := range args {
		inst.args[n] = v
	}
	inst.nargs = len(args)
	for n, v := range args {
		if v.IsInst() && v.Inst() != nil {
			v.Inst().addUse(inst, n)
		}
	}
	a.insts = append(a.insts, inst)
	return inst, nil
}

// Len returns the number of instructions ever allocated from this arena,
// including any since invalidated.
func (a *InstArena) Len() int { return len(a.insts) }

// All returns every instruction this arena has ever allocated, in
// allocation order, including invalidated ones. Intended for whole-program
// iteration such as verification passes; callers should check IsValid.
func (a *InstArena) All() []*Inst { return a.insts }

// BlockArena owns every Block created for one Program, with the same
// stable-address bulk-ownership discipline as InstArena.
type BlockArena struct {
	blocks []*Block
}

// New allocates a fresh, empty block with the given debug name.
func (a *BlockArena) New(name string) *Block {
	b := newBlock(int32(len(a.blocks)), name)
	a.blocks = append(a.blocks, b)
	return b
}

// Len returns the number of blocks allocated from this arena.
func (a *BlockArena) Len() int { return len(a.blocks) }

// All returns every block this arena has ever allocated, in allocation
// order.
func (a *BlockArena) All() []*Block { return a.blocks }
