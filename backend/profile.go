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

// Package backend pins the emit-side boundary (§6): the Profile/RuntimeInfo/
// Bindings contracts EmitSPIRV/EmitGLSL/EmitGLASM are given, plus the two
// cross-cutting IR rewrites — ApplyPrologueContract and
// ApplyEpilogueContract — that the design assigns to "emit contracts" but
// which operate at the ir.Program level rather than emitting backend
// words/text, and so belong in this middle end rather than behind a real
// word/text emitter. EmitSPIRV, EmitGLSL, and EmitGLASM themselves are
// explicitly out of scope (spec.md §1) and return NotImplementedException.
package backend

// CompareFunction mirrors the host alpha-test comparison enumeration.
type CompareFunction int32

const (
	CompareNever CompareFunction = iota
	CompareLess
	CompareEqual
	CompareLessThanEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterThanEqual
	CompareAlways
)

// Profile enumerates host feature flags a backend emitter must branch on.
// Only the flags this middle end's IR-level contracts consult are modeled;
// a real backend would carry on the order of thirty.
type Profile struct {
	SupportDemoteToHelperInvocation bool
	SupportNativeNdc                bool
	HasBrokenSpirvAccessChainOpt    bool
}

// RuntimeInfo carries per-draw state that must be baked into the compiled
// program: fixed-function point size, alpha-test configuration, the
// depth-mode conversion flag, and per-attribute output layouts.
type RuntimeInfo struct {
	FixedStatePointSize *float32
	AlphaTestFunc       *CompareFunction
	AlphaTestReference   float32
	ConvertDepthMode     bool

	// OutputGenericComponents[i] is the component count the host expects
	// for generic varying i (0 means the varying is unused). Prologue's
	// default-fill rewrite reads this to zero-initialize the remainder.
	OutputGenericComponents [32]uint32
}

// Bindings is a mutable descriptor-slot allocator a real emitter bumps as it
// materializes textures, images, and buffers. Kept here only so
// EmitSPIRV/EmitGLSL/EmitGLASM have a concrete fourth parameter matching §6;
// this middle end's own passes never touch it.
type Bindings struct {
	NextTexture uint32
	NextImage   uint32
	NextBuffer  uint32
}
