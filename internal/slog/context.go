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

package slog

import (
	"context"
	"fmt"
	"io"
	"os"
)

type contextKey struct{}

type entry struct {
	parent *entry
	key    string
	value  interface{}
}

// Handler receives a fully formatted log line for a given severity.
type Handler func(sev Severity, line string)

var handler Handler = func(sev Severity, line string) {
	writeLine(os.Stderr, sev, line)
}

func writeLine(w io.Writer, sev Severity, line string) {
	fmt.Fprintf(w, "%s: %s\n", sev.short(), line)
}

// SetHandler installs the function that receives formatted log lines. Tests
// use this to capture output instead of writing to stderr.
func SetHandler(h Handler) { handler = h }

// With returns a derived context carrying an additional structured field.
// Fields are rendered in the order they were attached when the line is
// finally logged.
func With(ctx context.Context, key string, value interface{}) context.Context {
	e := &entry{key: key, value: value}
	if parent, ok := ctx.Value(contextKey{}).(*entry); ok {
		e.parent = parent
	}
	return context.WithValue(ctx, contextKey{}, e)
}

func fields(ctx context.Context) string {
	e, ok := ctx.Value(contextKey{}).(*entry)
	if !ok {
		return ""
	}
	var chain []*entry
	for ; e != nil; e = e.parent {
		chain = append(chain, e)
	}
	out := ""
	for i := len(chain) - 1; i >= 0; i-- {
		out += fmt.Sprintf(" %s=%v", chain[i].key, chain[i].value)
	}
	return out
}

func emit(ctx context.Context, sev Severity, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	handler(sev, msg+fields(ctx))
}

// Debugf logs a debug-severity message.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	emit(ctx, Debug, format, args...)
}

// Infof logs an info-severity message.
func Infof(ctx context.Context, format string, args ...interface{}) {
	emit(ctx, Info, format, args...)
}

// Warningf logs a warning-severity message.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	emit(ctx, Warning, format, args...)
}

// Errorf logs an error-severity message.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	emit(ctx, Error, format, args...)
}
