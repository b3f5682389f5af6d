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

package translate

import (
	"strconv"

	"github.com/sonburton99/shader-compiler/ir"
)

// TranslateProgram wires an already-reconstructed CFG into a *ir.Program:
// one ir.Block per CFG node, linked in Succs order, with entry/exit marked
// by Prologue/Epilogue so downstream passes (dual-vertex stitching in
// particular) have something to find. Decoding each node's instruction
// range into IR is the Maxwell decoder's job and is out of scope here — the
// blocks TranslateProgram produces are empty except for those two markers.
func TranslateProgram(instPool *ir.InstArena, blockPool *ir.BlockArena, env Environment, cfg CFG, hostInfo HostTranslateInfo) (*ir.Program, error) {
	if len(cfg.Nodes) == 0 {
		return nil, ir.NewInvalidArgument([]interface{}{cfg}, "cfg has no nodes")
	}
	blocks := make([]*ir.Block, len(cfg.Nodes))
	for i, node := range cfg.Nodes {
		blocks[i] = blockPool.New(blockName(i, node))
	}
	for i, node := range cfg.Nodes {
		for _, succ := range node.Succs {
			if succ < 0 || succ >= len(blocks) {
				return nil, ir.NewInvalidArgument([]interface{}{succ}, "cfg node %d has out-of-range successor %d", i, succ)
			}
			blocks[i].AddSucc(blocks[succ])
		}
	}

	stage := env.Stage()
	entry := blocks[0]
	prologue, err := instPool.New(ir.OpPrologue)
	if err != nil {
		return nil, err
	}
	entry.PushFront(prologue)

	exit := blocks[len(blocks)-1]
	epilogue, err := instPool.New(ir.OpEpilogue)
	if err != nil {
		return nil, err
	}
	exit.PushBack(epilogue)

	program := ir.NewProgram(stage, entry, blocks)
	program.Info.Uses64BitIntegers = hostInfo.SupportInt64
	program.Info.UsesFP16 = hostInfo.SupportFloat16
	return program, nil
}

func blockName(index int, node CFGNode) string {
	return "block_" + strconv.Itoa(index) + "_" + strconv.FormatUint(uint64(node.Begin), 10)
}
