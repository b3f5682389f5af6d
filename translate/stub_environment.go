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

import "github.com/sonburton99/shader-compiler/ir"

// StubEnvironment is a minimal Environment implementation backed by an
// in-memory instruction word slice. It exists only to drive TranslateProgram
// and the optimizer passes in tests without a real Maxwell decoder attached.
type StubEnvironment struct {
	Words  []uint64
	StageV ir.Stage
	Local  uint32
	Shared uint32
}

// NewStubEnvironment returns a StubEnvironment reporting the given stage
// with no backing instruction words and zero local/shared memory.
func NewStubEnvironment(stage ir.Stage) *StubEnvironment {
	return &StubEnvironment{StageV: stage}
}

// ReadInstruction returns the word at address/8, or an InvalidArgument if
// address is out of range of Words.
func (e *StubEnvironment) ReadInstruction(address uint32) (uint64, error) {
	index := address / 8
	if int(index) >= len(e.Words) {
		return 0, ir.NewInvalidArgument([]interface{}{address}, "stub environment has no instruction word at address %d", address)
	}
	return e.Words[index], nil
}

// Stage returns the shader stage this environment was constructed with.
func (e *StubEnvironment) Stage() ir.Stage { return e.StageV }

// LocalMemorySize returns the configured local memory size.
func (e *StubEnvironment) LocalMemorySize() uint32 { return e.Local }

// SharedMemorySize returns the configured shared memory size.
func (e *StubEnvironment) SharedMemorySize() uint32 { return e.Shared }

var _ Environment = (*StubEnvironment)(nil)
