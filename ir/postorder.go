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

// PostOrder walks the control-flow graph reachable from entry, visiting
// each block's successors in the fixed order AddSucc recorded them, and
// appends a block to the result only after every successor has been
// visited. The walk is a plain recursive DFS with a visited set; given a
// program built the same way twice (same AddSucc call order), the returned
// order is identical, which is what dead-code elimination and constant
// propagation rely on to behave deterministically across runs (the
// design's determinism invariant).
func PostOrder(entry *Block) []*Block {
	visited := make(map[*Block]bool)
	var order []*Block
	var visit func(b *Block)
	visit = func(b *Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.succs {
			visit(s)
		}
		order = append(order, b)
	}
	visit(entry)
	return order
}

// ReversePostOrder returns PostOrder's result reversed: entry first, and
// every block after all of its predecessors (loop back-edges aside). Passes that must see a definition before its uses walk blocks in
// this order.
func ReversePostOrder(entry *Block) []*Block {
	order := PostOrder(entry)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
