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

package main

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree("shaderc")
	root.AddCommand(cmd.Command{
		Name:        "dump-ir",
		Brief:       "Parse a textual IR fixture and print it",
		Description: "Parse a textual IR fixture describing a single program's blocks and instructions, and print it back out, one instruction per line with its %id, opcode, and argument list.",
		Usage:       "dump-ir <file>",
		Data:        (*Console).cmdDumpIR,
	})
	root.AddCommand(cmd.Command{
		Name:        "opt",
		Brief:       "Run the in-scope pass pipeline and print before/after IR",
		Description: "Parse a textual IR fixture, run constant propagation and dead-code elimination over it, and print the program both before and after so the effect of the passes is visible.",
		Usage:       "opt <file>",
		Data:        (*Console).cmdOpt,
	})
	root.AddCommand(cmd.Command{
		Name:        "stitch",
		Brief:       "Stitch a vertex-A and vertex-B program together",
		Description: "Parse two textual IR fixtures as a vertex-A and vertex-B program, run the dual-vertex transform passes on each, and print the result.",
		Usage:       "stitch <vertex-a-file> <vertex-b-file>",
		Data:        (*Console).cmdStitch,
	})
	cmds = root
}
