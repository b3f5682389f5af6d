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

// Stage identifies which shader stage a Program was translated from.
type Stage int32

const (
	VertexA Stage = iota
	VertexB
	TessControl
	TessEval
	Geometry
	Fragment
	Compute
)

func (s Stage) String() string {
	switch s {
	case VertexA:
		return "VertexA"
	case VertexB:
		return "VertexB"
	case TessControl:
		return "TessControl"
	case TessEval:
		return "TessEval"
	case Geometry:
		return "Geometry"
	case Fragment:
		return "Fragment"
	case Compute:
		return "Compute"
	default:
		return "<unknown stage>"
	}
}

// CollectedInfo accumulates facts the front end or a pass discovers about a
// program that backends need at emit time: which attributes are actually
// read or written, whether any instruction needs 64-bit integer or fp16
// support, and the highest cbuf index observed. Passes only ever add to this
// set; nothing in the middle end removes an entry once recorded.
type CollectedInfo struct {
	UsedInputAttributes  map[Attribute]bool
	UsedOutputAttributes map[Attribute]bool
	Uses64BitIntegers    bool
	UsesFP16             bool
	MaxCbufIndex         uint32
}

// NewCollectedInfo returns an empty CollectedInfo ready to accumulate facts.
func NewCollectedInfo() *CollectedInfo {
	return &CollectedInfo{
		UsedInputAttributes:  make(map[Attribute]bool),
		UsedOutputAttributes: make(map[Attribute]bool),
	}
}

// Config carries backend-agnostic settings read by passes below the pass
// driver's external-collaborator boundary (global-memory lowering, fp16
// narrowing, and so on all consult it); it is otherwise opaque to this
// module's own passes, which never branch on its fields.
type Config struct {
	// Stage duplicates Program.Stage for passes that only receive a Config.
	Stage Stage
	// GeometryShaderPasstrough indicates the program is a geometry shader in
	// passthrough mode, which the (out of scope) texture and rescaling
	// passes use to skip per-vertex work.
	GeometryShaderPasstrough bool
}

// Program is one translated shader stage: its arena-backed blocks, the
// control-flow edges between them, a cached post-order, and the stage
// metadata and collected facts backends read. Program does not own Insts or
// Blocks or arenas; TranslateProgram hands both arenas and the Program back
// to the caller together, and the caller decides when they are dropped.
type Program struct {
	Stage  Stage
	Config Config
	Info   *CollectedInfo

	// Entry is the program's single entry block.
	Entry *Block

	// blocks holds every block reachable from Entry, in the order
	// TranslateProgram's front end first linked them (control-flow
	// insertion order, per §3's Program.blocks field).
	blocks []*Block

	// postOrder caches PostOrder(Entry); InvalidateTraversal must be called
	// after any edge-topology change (the middle end's own passes never
	// make one — only an external collaborator like structured
	// control-flow reconstruction does).
	postOrder []*Block
}

// NewProgram wraps an already-built CFG rooted at entry into a Program,
// computing its initial post-order.
func NewProgram(stage Stage, entry *Block, blocks []*Block) *Program {
	p := &Program{
		Stage:  stage,
		Config: Config{Stage: stage},
		Info:   NewCollectedInfo(),
		Entry:  entry,
		blocks: blocks,
	}
	p.postOrder = PostOrder(entry)
	return p
}

// Blocks returns every block in the program, in control-flow insertion
// order.
func (p *Program) Blocks() []*Block { return p.blocks }

// PostOrderBlocks returns the cached post-order traversal from Entry.
func (p *Program) PostOrderBlocks() []*Block { return p.postOrder }

// ReversePostOrderBlocks returns the cached traversal reversed: Entry first.
func (p *Program) ReversePostOrderBlocks() []*Block {
	out := make([]*Block, len(p.postOrder))
	for i, b := range p.postOrder {
		out[len(out)-1-i] = b
	}
	return out
}

// InvalidateTraversal recomputes the cached post-order from Entry. No pass
// defined in this module needs to call this — none of them mutate CFG
// topology (§4.9) — but it is exposed for the external structured
// control-flow collaborator, which does.
func (p *Program) InvalidateTraversal() {
	p.postOrder = PostOrder(p.Entry)
}
