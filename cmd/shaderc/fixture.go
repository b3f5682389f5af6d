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

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sonburton99/shader-compiler/ir"
)

// opcodesByName lists the opcodes this CLI's line-oriented textual format
// accepts; it is a convenience lookup, not a general IR assembler.
var opcodesByName = map[string]ir.Opcode{
	"Prologue":           ir.OpPrologue,
	"Epilogue":           ir.OpEpilogue,
	"GetRegister":        ir.OpGetRegister,
	"SetRegister":        ir.OpSetRegister,
	"GetCbufU32":         ir.OpGetCbufU32,
	"IAdd32":             ir.OpIAdd32,
	"ISub32":             ir.OpISub32,
	"IMul32":             ir.OpIMul32,
	"ShiftLeftLogical32": ir.OpShiftLeftLogical32,
	"BitFieldUExtract":   ir.OpBitFieldUExtract,
	"BitCastF32U32":      ir.OpBitCastF32U32,
	"BitCastU32F32":      ir.OpBitCastU32F32,
	"LogicalNot":         ir.OpLogicalNot,
	"LogicalAnd":         ir.OpLogicalAnd,
	"LogicalOr":          ir.OpLogicalOr,
}

// parseFixture reads a program from r: one instruction per non-blank,
// non-comment line, in the form "<opcode> <arg> <arg> ...". An argument is
// either %<n>, a back-reference to the n'th instruction parsed so far
// (0-indexed), or a bare unsigned decimal, treated as a u32 immediate.
// Every instruction lands in a single block named "entry".
func parseFixture(r io.Reader) (*ir.InstArena, *ir.Program, error) {
	arena := &ir.InstArena{}
	blocks := &ir.BlockArena{}
	block := blocks.New("entry")

	var insts []*ir.Inst
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		op, ok := opcodesByName[fields[0]]
		if !ok {
			return nil, nil, ir.NewInvalidArgument([]interface{}{fields[0]}, "unknown fixture opcode %q", fields[0])
		}
		args := make([]ir.Value, 0, len(fields)-1)
		for _, tok := range fields[1:] {
			v, err := parseArg(tok, insts)
			if err != nil {
				return nil, nil, err
			}
			args = append(args, v)
		}
		inst, err := arena.New(op, args...)
		if err != nil {
			return nil, nil, err
		}
		block.PushBack(inst)
		insts = append(insts, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	program := ir.NewProgram(ir.VertexA, block, []*ir.Block{block})
	return arena, program, nil
}

func parseArg(tok string, insts []*ir.Inst) (ir.Value, error) {
	if strings.HasPrefix(tok, "%") {
		n, err := strconv.Atoi(tok[1:])
		if err != nil || n < 0 || n >= len(insts) {
			return ir.Void(), ir.NewInvalidArgument([]interface{}{tok}, "bad back-reference %q", tok)
		}
		return ir.FromInst(insts[n]), nil
	}
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return ir.Void(), ir.NewInvalidArgument([]interface{}{tok}, "bad argument %q", tok)
	}
	return ir.ImmU32(uint32(n)), nil
}

// printProgram writes one line per instruction in program order: its %id
// (Inst.String()'s rendering), its opcode name, and its arguments.
func printProgram(w io.Writer, program *ir.Program) {
	for _, block := range program.Blocks() {
		fmt.Fprintf(w, "%s:\n", block.Name())
		for inst := block.First(); inst != nil; inst = ir.Next(inst) {
			fmt.Fprintf(w, "  %s = %s", inst.String(), ir.NameOfOpcode(inst.Opcode()))
			for n := 0; n < inst.ArgCount(); n++ {
				fmt.Fprintf(w, " %s", inst.Arg(n).String())
			}
			fmt.Fprintln(w)
		}
	}
}
