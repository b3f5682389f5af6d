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
	"fmt"
	"os"
	"strings"

	"github.com/beevik/cmd"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: shaderc <dump-ir|opt|stitch> [args...]")
		os.Exit(2)
	}

	sel, err := cmds.Lookup(strings.Join(os.Args[1:], " "))
	switch {
	case err == cmd.ErrNotFound:
		exitOnError(fmt.Errorf("command not found: %s", os.Args[1]))
	case err == cmd.ErrAmbiguous:
		exitOnError(fmt.Errorf("command is ambiguous: %s", os.Args[1]))
	case err != nil:
		exitOnError(err)
	}

	if sel.Command == nil || sel.Command.Data == nil {
		exitOnError(fmt.Errorf("no such command: %s", os.Args[1]))
	}

	console := &Console{output: os.Stdout}
	handler := sel.Command.Data.(func(*Console, cmd.Selection) error)
	if err := handler(console, sel); err != nil {
		exitOnError(err)
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
