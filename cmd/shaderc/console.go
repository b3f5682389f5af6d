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

// Package main is shaderc, a thin beevik/cmd-dispatched CLI exercising the
// middle end end-to-end: dump-ir prints a parsed fixture, opt runs the
// in-scope C6/C7 passes over one and prints before/after, stitch runs the
// C8 dual-vertex passes over a pair. No Maxwell decoder and no real backend
// sit behind this command tree; both stay pinned interfaces per SPEC_FULL.md.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/beevik/cmd"
	"github.com/sonburton99/shader-compiler/internal/slog"
	"github.com/sonburton99/shader-compiler/ir"
	"github.com/sonburton99/shader-compiler/opt"
)

// Console holds the CLI's output stream; a fresh one is constructed per
// invocation in main.
type Console struct {
	output *os.File
}

func (c *Console) cmdDumpIR(sel cmd.Selection) error {
	if len(sel.Args) != 1 {
		return fmt.Errorf("usage: %s", sel.Command.Usage)
	}
	file, err := os.Open(sel.Args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	_, program, err := parseFixture(file)
	if err != nil {
		return err
	}
	printProgram(c.output, program)
	return nil
}

func (c *Console) cmdOpt(sel cmd.Selection) error {
	if len(sel.Args) != 1 {
		return fmt.Errorf("usage: %s", sel.Command.Usage)
	}
	file, err := os.Open(sel.Args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	arena, program, err := parseFixture(file)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.output, "-- before --")
	printProgram(c.output, program)

	ctx := slog.With(context.Background(), "cmd", "opt")
	if err := opt.RunPasses(ctx, arena, program, opt.ExternalPasses{}); err != nil {
		return err
	}

	fmt.Fprintln(c.output, "-- after --")
	printProgram(c.output, program)
	return nil
}

func (c *Console) cmdStitch(sel cmd.Selection) error {
	if len(sel.Args) != 2 {
		return fmt.Errorf("usage: %s", sel.Command.Usage)
	}
	vertexA, err := loadFixtureProgram(sel.Args[0], ir.VertexA)
	if err != nil {
		return err
	}
	vertexB, err := loadFixtureProgram(sel.Args[1], ir.VertexB)
	if err != nil {
		return err
	}

	if err := opt.RunDualVertexStitch(vertexA, vertexB); err != nil {
		return err
	}

	fmt.Fprintln(c.output, "-- vertex A (stitched) --")
	printProgram(c.output, vertexA)
	fmt.Fprintln(c.output, "-- vertex B (stitched) --")
	printProgram(c.output, vertexB)
	return nil
}

func loadFixtureProgram(path string, stage ir.Stage) (*ir.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	_, program, err := parseFixture(file)
	if err != nil {
		return nil, err
	}
	program.Stage = stage
	program.Config.Stage = stage
	return program, nil
}
