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

// Package translate pins the front-end boundary (§6): the Environment a
// Maxwell decoder reads GPU state through, the CFG it hands the middle end,
// and the HostTranslateInfo describing what the host driver can do. The
// decoder and control-flow reconstruction themselves are out of scope;
// TranslateProgram here only wires an already-built CFG into a *ir.Program;
// it runs no pass over it.
package translate

import "github.com/sonburton99/shader-compiler/ir"

// Environment is per-invocation GPU state access, implemented by whatever
// owns the guest GPU memory. ReadInstruction reads one 64-bit Maxwell
// instruction word at a code address; the other accessors are facts the
// decoder and passes consult but never mutate.
type Environment interface {
	ReadInstruction(address uint32) (uint64, error)
	Stage() ir.Stage
	LocalMemorySize() uint32
	SharedMemorySize() uint32
}

// HostTranslateInfo enumerates host driver capabilities the front end needs
// while decoding and building the CFG — separate from backend.Profile, which
// carries the equivalent facts for the emit stage.
type HostTranslateInfo struct {
	SupportFloat16             bool
	SupportInt64               bool
	NeedsDemoteToHelperInvocation bool
	HasBrokenSpirvAccessChainOpt bool
}

// CFGNode is one block of the already-reconstructed control-flow graph: a
// code-address range plus the successors structured control-flow analysis
// determined for it. TranslateProgram links these 1:1 onto ir.Block values.
type CFGNode struct {
	Begin, End uint32
	Succs      []int
}

// CFG is the reconstructed control-flow graph TranslateProgram turns into a
// linked ir.Block arena. Nodes[0] is always the entry node.
type CFG struct {
	Nodes []CFGNode
}
