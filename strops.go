package main

import (
	"context"
	"fmt"
)

func opConcat(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("concat", 2)
	if err != nil {
		return err
	}
	vm.push(Str(v[0] + v[1]))
	return nil
}

// The ?-prefixed decorators apply only when the base string is
// nonempty, which makes them useful for optional flag construction:
// an empty base passes through untouched.

func opMaybePrefix(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("?prefix", 2)
	if err != nil {
		return err
	}
	base, pre := v[0], v[1]
	if base != "" {
		base = pre + base
	}
	vm.push(Str(base))
	return nil
}

func opMaybeSuffix(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("?suffix", 2)
	if err != nil {
		return err
	}
	base, suf := v[0], v[1]
	if base != "" {
		base += suf
	}
	vm.push(Str(base))
	return nil
}

func opMaybeWrap(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("?wrap", 3)
	if err != nil {
		return err
	}
	base, pre, suf := v[0], v[1], v[2]
	if base != "" {
		base = pre + base + suf
	}
	vm.push(Str(base))
	return nil
}

// opToOutput retags a string as captured output so the command bridge
// will pipe it as stdin. Outputs pass through; integers are rejected.
func opToOutput(_ context.Context, vm *VM) error {
	if err := vm.need(">output", 1); err != nil {
		return err
	}
	switch vm.peek(0).Kind {
	case KindStr:
		vm.push(Output(vm.pop().Str))
		vm.unitOutputs++
	case KindOutput:
	default:
		return fmt.Errorf(">output: requires a string: %w", errTypeMismatch)
	}
	return nil
}

// opToString retags an output (or renders an integer) as a plain
// string. Strings pass through.
func opToString(_ context.Context, vm *VM) error {
	if err := vm.need(">string", 1); err != nil {
		return err
	}
	if vm.peek(0).Kind != KindStr {
		vm.push(Str(vm.pop().Text()))
	}
	return nil
}
