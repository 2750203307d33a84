package main

import (
	"context"
	"fmt"
	"strings"
)

func opWords(_ context.Context, vm *VM) error {
	fmt.Fprintln(vm.out, strings.Join(vm.dict.names(), " "))
	return nil
}

func opSee(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("see", 1)
	if err != nil {
		return err
	}
	name := v[0]
	if w := vm.dict.lookup(name); w != nil {
		fmt.Fprintln(vm.out, w.describe())
	} else {
		fmt.Fprintf(vm.out, "%s is not defined\n", name)
	}
	return nil
}

// opTrace sets the step-trace verbosity: 0 off, 1 stack diffs, 2 adds
// the stack after each step, 3 adds doc strings.
func opTrace(_ context.Context, vm *VM) error {
	v, err := vm.popInts("trace", 1)
	if err != nil {
		return err
	}
	n := v[0]
	switch {
	case n < 0:
		n = 0
	case n > 3:
		n = 3
	}
	vm.trace = int(n)
	return nil
}

func opHelp(_ context.Context, vm *VM) error {
	fmt.Fprint(vm.out, helpText)
	return nil
}

const helpText = `yafsh - a Forth-flavored shell

Stack operations:
  dup swap drop over rot clear   manipulate the stack
  .s                             show stack contents

Printing:
  .                              print top of stack with newline
  type                           print top of stack without newline

Arithmetic:
  + - * / mod /mod */            math operations
  = < > <= >= <>                 comparisons
  and or not xor                 boolean operations

Strings:
  concat ?prefix ?suffix ?wrap   build strings
  >output >string                convert between types

Control flow:
  cond if ... then               conditional
  cond if ... else ... then      conditional with else
  begin ... cond until           loop until true
  begin cond while ... repeat    loop while true
  limit start do ... loop        counted loop (i, j for indices)
  each ... then                  iterate lines of an output

Word definition:
  : name ... ;                   define a new word

Commands:
  any unresolved word runs as an external command
  exec                           run the command named on top of the stack
  ? $exitcode                    exit code of the last command
  glob                           expand a filename pattern

Files and environment:
  >file >>file                   write or append output to a file
  getenv setenv unsetenv env     environment variables
  env-append env-prepend         edit colon-separated variables
  cd pushd popd                  directory navigation

Introspection:
  words                          list all defined words
  "name" see                     show a word's definition
  n trace                        set step-trace verbosity (0-3)
  help                           show this text
`

// Doc returns a word's documentation line, or "" when the word is
// unknown or undocumented.
func (vm *VM) Doc(name string) string {
	w := vm.dict.lookup(name)
	if w == nil {
		return ""
	}
	if !w.isBuiltin() {
		return "(user-defined word)"
	}
	return w.doc
}

// WordNames returns every dictionary name, sorted.
func (vm *VM) WordNames() []string { return vm.dict.names() }

// StackCounts reports how many plain values (strings and ints) and how
// many captured outputs the stack holds, for prompt rendering.
func (vm *VM) StackCounts() (inputs, outputs int) {
	for _, v := range vm.stack {
		if v.Kind == KindOutput {
			outputs++
		} else {
			inputs++
		}
	}
	return inputs, outputs
}

// PendingOutput returns the top of the stack when it is an output
// produced by the last evaluated unit. The REPL prints it, once,
// without consuming it.
func (vm *VM) PendingOutput() (string, bool) {
	if vm.unitOutputs > 0 && len(vm.stack) > 0 && vm.peek(0).Kind == KindOutput {
		return vm.peek(0).Str, true
	}
	return "", false
}
