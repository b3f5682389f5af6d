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

// Package opt implements the middle end's optimization passes: constant
// propagation (with its Maxwell-specific XMAD/IMAD macro reductions), dead
// code elimination, and dual-vertex program stitching, driven in a fixed
// order by the pass driver.
package opt

import "github.com/sonburton99/shader-compiler/ir"

// capture binds a pattern variable (e.g. the "a" or "b" operand of an XMAD
// template) to the resolved value of its first occurrence; every later
// occurrence in the same match must resolve to an equal value, or the match
// fails. This is the "Resolve() is essential, pattern equality is modulo
// trivial identity forwarding" rule from the design notes, factored into one
// place so the XMAD templates read as a sequence of checks rather than
// open-coded branching.
type capture struct {
	bound map[string]ir.Value
}

func newCapture() *capture {
	return &capture{bound: make(map[string]ir.Value)}
}

// bind resolves v and either records it under name or checks it against a
// prior binding for the same name, returning false on mismatch.
func (c *capture) bind(name string, v ir.Value) bool {
	r := v.Resolve()
	if prev, ok := c.bound[name]; ok {
		return ir.Equal(prev, r)
	}
	c.bound[name] = r
	return true
}

// value returns the resolved binding for name, which must already exist.
func (c *capture) value(name string) ir.Value { return c.bound[name] }

// producer returns the argument at idx resolved through Identity chains,
// along with the instruction that produced it (nil if it resolved to an
// immediate).
func producer(inst *ir.Inst, idx int) (ir.Value, *ir.Inst) {
	v := inst.Arg(idx).Resolve()
	return v, v.Inst()
}

// matchOpcode reports whether inst is non-nil and has the given opcode.
func matchOpcode(inst *ir.Inst, op ir.Opcode) bool {
	return inst != nil && inst.Opcode() == op
}

// matchImmU32 reports whether v is the literal 32-bit immediate want.
func matchImmU32(v ir.Value, want uint32) bool {
	got, err := v.Resolve().U32()
	return err == nil && got == want
}
