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

// useEdge is one entry of a producer's reverse-edge list: the consumer
// instruction and which of its argument slots points back at the producer.
// The opcode metadata table fixes arity, so producers never need to track
// anything beyond "who reads me" — ReplaceUsesWith walks this list to rewrite
// every consumer's argument slot directly, rather than trying to recover
// consumers from a bare integer count.
type useEdge struct {
	user *Inst
	slot int
}

// Flags is the opaque bag of opcode-specific modifiers an instruction
// carries (§3): floating-point control such as no-contraction, and any
// future per-opcode bit the front end needs to stash alongside an
// instruction's arguments. The zero value means "no modifiers set".
type Flags uint32

const (
	// FlagNoContraction marks a floating-point instruction that must not be
	// contracted with a neighboring instruction into a fused operation (e.g.
	// FPMul32 folded into the perspective-divide-for-interpolation pattern).
	FlagNoContraction Flags = 1 << iota
)

// Inst is one SSA instruction: an opcode, its arguments, the block it lives
// in, its position in that block's intrusive list, and bookkeeping for
// pseudo-operations and use tracking.
type Inst struct {
	id     int32
	opcode Opcode
	args   [MaxArity]Value
	nargs  int
	flags  Flags

	block *Block
	prev  *Inst
	next  *Inst

	// uses lists every instruction referencing this one's result via a
	// KindInst Value. UseCount is derived as len(uses); this is what makes
	// ReplaceUsesWith a real rewrite instead of a count decrement.
	uses []useEdge

	// pseudoParent is non-nil when this instruction is a pseudo-operation
	// (GetCarryFromOp and friends): Arg(0) always duplicates pseudoParent as
	// a Value, but pseudoParent gives direct access without a type assertion.
	pseudoParent *Inst
	// pseudoChildren lists the pseudo-operations attached to this
	// instruction, indexed by PseudoKind order of discovery. A constant-prop
	// fold that replaces this instruction's uses must migrate every entry.
	pseudoChildren []*Inst

	valid bool
}

// Opcode returns the instruction's opcode.
func (i *Inst) Opcode() Opcode { return i.opcode }

// ID returns the monotonically assigned debug-print identifier.
func (i *Inst) ID() int32 { return i.id }

// Block returns the block the instruction currently lives in.
func (i *Inst) Block() *Block { return i.block }

// IsValid reports whether the instruction has not been invalidated.
func (i *Inst) IsValid() bool { return i.valid }

// ArgCount returns the number of argument slots in use.
func (i *Inst) ArgCount() int { return i.nargs }

// Arg returns the value in argument slot idx.
func (i *Inst) Arg(idx int) Value {
	if idx < 0 || idx >= i.nargs {
		return Void()
	}
	return i.args[idx]
}

// SetArg overwrites argument slot idx, maintaining the use-edge list of
// whatever instruction v used to reference (if any) and of v's producer (if
// v is itself an instruction reference).
func (i *Inst) SetArg(idx int, v Value) error {
	if idx < 0 || idx >= i.nargs {
		return NewInvalidArgument([]interface{}{idx}, "argument slot %d out of range [0, %d)", idx, i.nargs)
	}
	old := i.args[idx]
	if old.IsInst() && old.Inst() != nil {
		old.Inst().removeUse(i, idx)
	}
	i.args[idx] = v
	if v.IsInst() && v.Inst() != nil {
		v.Inst().addUse(i, idx)
	}
	return nil
}

// PseudoParent returns the arithmetic instruction this pseudo-operation reads
// a secondary output from, or nil if this instruction is not a pseudo-op.
func (i *Inst) PseudoParent() *Inst { return i.pseudoParent }

// PseudoChildren returns the pseudo-operations attached to this instruction.
// The returned slice is owned by Inst; callers must not mutate it.
func (i *Inst) PseudoChildren() []*Inst { return i.pseudoChildren }

// HasAssociatedPseudoOperation reports whether any pseudo-operation reads a
// secondary output of this instruction.
func (i *Inst) HasAssociatedPseudoOperation() bool { return len(i.pseudoChildren) > 0 }

func (i *Inst) addUse(user *Inst, slot int) {
	i.uses = append(i.uses, useEdge{user: user, slot: slot})
	if Info(user.opcode).IsPseudoOp && slot == 0 {
		i.pseudoChildren = append(i.pseudoChildren, user)
		user.pseudoParent = i
	}
}

func (i *Inst) removeUse(user *Inst, slot int) {
	for n, e := range i.uses {
		if e.user == user && e.slot == slot {
			i.uses = append(i.uses[:n], i.uses[n+1:]...)
			break
		}
	}
	if Info(user.opcode).IsPseudoOp && slot == 0 {
		for n, c := range i.pseudoChildren {
			if c == user {
				i.pseudoChildren = append(i.pseudoChildren[:n], i.pseudoChildren[n+1:]...)
				break
			}
		}
		if user.pseudoParent == i {
			user.pseudoParent = nil
		}
	}
}

// UseCount returns the number of consumers currently referencing this
// instruction's result, including pseudo-operations.
func (i *Inst) UseCount() int { return len(i.uses) }

// HasUses reports whether this instruction has at least one consumer.
func (i *Inst) HasUses() bool { return len(i.uses) > 0 }

// AreAllArgsImmediates reports whether every argument slot holds an immediate
// value, i.e. the all-immediate constant-folding precondition.
func (i *Inst) AreAllArgsImmediates() bool {
	for n := 0; n < i.nargs; n++ {
		if !i.args[n].IsImmediate() {
			return false
		}
	}
	return true
}

// MayHaveSideEffects reports whether DCE must retain this instruction
// regardless of use count.
func (i *Inst) MayHaveSideEffects() bool { return MayHaveSideEffects(i.opcode) }

// Flags returns the instruction's modifier bag.
func (i *Inst) Flags() Flags { return i.flags }

// SetFlags overwrites the instruction's modifier bag. The front end sets
// this once at construction time (e.g. no-contraction on an FPMul32 that
// must not be fused into the perspective-divide pattern); passes only read
// it.
func (i *Inst) SetFlags(f Flags) { i.flags = f }

// HasFlags reports whether every bit of f is set in the instruction's
// modifier bag.
func (i *Inst) HasFlags(f Flags) bool { return i.flags&f == f }

// ReplaceUsesWith rewrites every consumer of this instruction to read v
// instead, migrating any attached pseudo-operations to the new producer when
// v is itself an instruction reference. After the call this instruction has
// no uses and may be removed by DCE. It is an error to call this on an
// instruction with a pseudo-operation attached when v does not resolve to an
// instruction eligible to carry one (an immediate has no secondary outputs).
func (i *Inst) ReplaceUsesWith(v Value) error {
	if len(i.pseudoChildren) > 0 {
		if !v.IsInst() || v.Inst() == nil || !canProducePseudo(v.Inst().opcode) {
			return NewLogicError([]interface{}{i, v}, "cannot migrate pseudo-operations of %%%d onto a value with no secondary outputs", i.id)
		}
	}
	uses := i.uses
	i.uses = nil
	newProducer := v.Inst()
	children := i.pseudoChildren
	i.pseudoChildren = nil
	for _, e := range uses {
		e.user.args[e.slot] = v
		if newProducer != nil {
			newProducer.uses = append(newProducer.uses, useEdge{user: e.user, slot: e.slot})
		}
	}
	for _, c := range children {
		c.pseudoParent = newProducer
		if newProducer != nil {
			newProducer.pseudoChildren = append(newProducer.pseudoChildren, c)
		}
	}
	return nil
}

// ReplaceOpcode changes the instruction's opcode in place, growing or
// shrinking the populated argument slots to the new opcode's arity. Used by
// the fold that widens a cast into a typed read
// (BitCastF32U32(GetCbufU32(h,o)) -> GetCbufF32(h,o), §4.5.3), without disturbing the instruction's identity (and hence its use
// list). Slots dropped by a shrink have their use-edges detached; slots
// added by a growth start Void and are populated by the caller's own
// SetArg calls.
func (i *Inst) ReplaceOpcode(op Opcode) error {
	want := Arity(op)
	for n := want; n < i.nargs; n++ {
		arg := i.args[n]
		if arg.IsInst() && arg.Inst() != nil {
			arg.Inst().removeUse(i, n)
		}
		i.args[n] = Void()
	}
	for n := i.nargs; n < want; n++ {
		i.args[n] = Void()
	}
	i.nargs = want
	i.opcode = op
	return nil
}

// Invalidate clears the instruction's argument use-edges and marks it
// invalid. It does not unlink the instruction from its block; callers do
// that with Block.Remove. It must only be called on an instruction with no remaining
// uses and no side effects; DCE enforces this before calling it.
func (i *Inst) Invalidate() error {
	if i.MayHaveSideEffects() {
		return NewLogicError([]interface{}{i}, "cannot invalidate %%%d: opcode %s may have side effects", i.id, NameOfOpcode(i.opcode))
	}
	return i.ForceInvalidate()
}

// ForceInvalidate clears the instruction's argument use-edges and marks it
// invalid without the side-effect guard Invalidate applies; like
// Invalidate, it leaves the instruction linked into its block. It
// exists for the dual-vertex stitching passes, which must remove a
// Prologue or Epilogue node precisely because of its side effect (to let
// two programs be concatenated), not despite one. Every caller still must
// ensure the instruction has no remaining uses.
func (i *Inst) ForceInvalidate() error {
	if i.HasUses() {
		return NewLogicError([]interface{}{i}, "cannot invalidate %%%d: still has %d use(s)", i.id, i.UseCount())
	}
	for n := 0; n < i.nargs; n++ {
		arg := i.args[n]
		if arg.IsInst() && arg.Inst() != nil {
			arg.Inst().removeUse(i, n)
		}
		i.args[n] = Void()
	}
	i.nargs = 0
	i.valid = false
	return nil
}

func (i *Inst) String() string {
	return FromInst(i).String()
}
