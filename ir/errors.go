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

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidArgument is returned when a caller passes a value that violates a
// stated precondition: a non-generic attribute handed to GenericAttributeIndex,
// a typed-wrapper constructed from a Value of the wrong scalar kind, and so on.
type InvalidArgument struct {
	Message  string
	Operands []interface{}
}

func (e InvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument: %s%s", e.Message, operandSuffix(e.Operands))
}

// NewInvalidArgument wraps a formatted InvalidArgument with a stack trace.
func NewInvalidArgument(operands []interface{}, format string, args ...interface{}) error {
	return errors.WithStack(InvalidArgument{Message: fmt.Sprintf(format, args...), Operands: operands})
}

// LogicError is returned when an internal invariant would be violated if an
// operation proceeded: an undefined bit-field width at fold time, a use-count
// underflow, a pseudo-operation that cannot be migrated to its new producer.
type LogicError struct {
	Message  string
	Operands []interface{}
}

func (e LogicError) Error() string {
	return fmt.Sprintf("logic error: %s%s", e.Message, operandSuffix(e.Operands))
}

// NewLogicError wraps a formatted LogicError with a stack trace.
func NewLogicError(operands []interface{}, format string, args ...interface{}) error {
	return errors.WithStack(LogicError{Message: fmt.Sprintf(format, args...), Operands: operands})
}

// NotImplementedException is returned when a code path is reached that the
// design explicitly does not cover: EmitUndefU8 in SPIR-V, a geometry stream
// greater than zero, a Join opcode that should have been eliminated upstream.
// These are never recoverable; they indicate a pass ordering bug.
type NotImplementedException struct {
	Path string
}

func (e NotImplementedException) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Path)
}

// NewNotImplementedException wraps a NotImplementedException with a stack trace.
func NewNotImplementedException(path string) error {
	return errors.WithStack(NotImplementedException{Path: path})
}

func operandSuffix(operands []interface{}) string {
	if len(operands) == 0 {
		return ""
	}
	return fmt.Sprintf(" (operands: %v)", operands)
}
