package main

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/rs/zerolog"
)

// VM is one interpreter session: the typed value stack, the word
// dictionary, the counted-loop frames, the directory stack, and the
// exit code of the last external command. A VM is not safe for
// concurrent use; exactly one unit evaluates at a time.
type VM struct {
	stack []Value
	dict  *dictionary
	loops []loopFrame
	eachs []eachFrame
	dirs  []string

	exitCode int

	trace     int
	traceStep int

	// unitOutputs counts Output values produced by the unit currently
	// (or most recently) evaluated, which drives the auto-print rule.
	unitOutputs int

	out    io.Writer
	errOut io.Writer
	log    zerolog.Logger

	lookPath func(name string) (string, error)
}

// Runtime error categories. Every operator failure wraps one of these,
// aborts only the current unit, and leaves the stack exactly as it was
// before the operator began consuming operands.
var (
	errUnderflow    = errors.New("stack underflow")
	errTypeMismatch = errors.New("type mismatch")
	errDivideByZero = errors.New("division by zero")
	errNotFound     = errors.New("command not found")
	errNoLoop       = errors.New("not inside a loop")
)

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	i := len(vm.stack) - 1
	v := vm.stack[i]
	vm.stack = vm.stack[:i]
	return v
}

// peek returns the value i positions below the top without popping.
func (vm *VM) peek(i int) Value { return vm.stack[len(vm.stack)-1-i] }

// need validates arity before any operand is consumed.
func (vm *VM) need(op string, n int) error {
	if len(vm.stack) < n {
		return fmt.Errorf("%s: %w", op, errUnderflow)
	}
	return nil
}

// needInts validates that the top n values are all integers, without
// popping anything, so a failing operator leaves the stack untouched.
func (vm *VM) needInts(op string, n int) error {
	if err := vm.need(op, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if vm.peek(i).Kind != KindInt {
			return fmt.Errorf("%s: requires %s: %w", op, plural(n, "integer"), errTypeMismatch)
		}
	}
	return nil
}

// popInts pops the top n integers, bottom-first, after validation.
func (vm *VM) popInts(op string, n int) ([]int64, error) {
	if err := vm.needInts(op, n); err != nil {
		return nil, err
	}
	vals := make([]int64, n)
	for i := n - 1; i >= 0; i-- {
		vals[i] = vm.pop().Int
	}
	return vals, nil
}

// popStrs pops the top n strings, bottom-first, after validation.
func (vm *VM) popStrs(op string, n int) ([]string, error) {
	if err := vm.need(op, n); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if vm.peek(i).Kind != KindStr {
			return nil, fmt.Errorf("%s: requires %s: %w", op, plural(n, "string"), errTypeMismatch)
		}
	}
	vals := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		vals[i] = vm.pop().Str
	}
	return vals, nil
}

func plural(n int, noun string) string {
	switch n {
	case 1:
		return "a " + noun
	case 2:
		return "two " + noun + "s"
	case 3:
		return "three " + noun + "s"
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func defaultLookPath(name string) (string, error) {
	return exec.LookPath(name)
}
