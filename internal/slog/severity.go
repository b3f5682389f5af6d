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

// Package slog provides a small context-carried logger for the compiler
// core. Every message, whatever its severity, is passed to the handler.
// Basic usage is
//
//	ctx = slog.With(ctx, "block", blockID)
//	slog.Warningf(ctx, "unimplemented path: %s", name)
package slog

// Severity defines the severity of a logging message.
type Severity int32

const (
	// Debug indicates debug-level messages.
	Debug Severity = iota
	// Info indicates minor informational messages that should generally be ignored.
	Info
	// Warning indicates issues that might affect the result but can be ignored.
	Warning
	// Error indicates non-terminal failure conditions.
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	}
	return "?"
}

func (s Severity) short() string {
	switch s {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	}
	return "?"
}
