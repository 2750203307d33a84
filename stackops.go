package main

import "context"

// Stack-shape words. These are type-agnostic: they never inspect the
// values they shuffle.

func opDup(_ context.Context, vm *VM) error {
	if err := vm.need("dup", 1); err != nil {
		return err
	}
	vm.push(vm.peek(0))
	return nil
}

func opSwap(_ context.Context, vm *VM) error {
	if err := vm.need("swap", 2); err != nil {
		return err
	}
	i := len(vm.stack)
	vm.stack[i-1], vm.stack[i-2] = vm.stack[i-2], vm.stack[i-1]
	return nil
}

func opDrop(_ context.Context, vm *VM) error {
	if err := vm.need("drop", 1); err != nil {
		return err
	}
	vm.pop()
	return nil
}

func opClear(_ context.Context, vm *VM) error {
	vm.stack = vm.stack[:0]
	return nil
}

func opOver(_ context.Context, vm *VM) error {
	if err := vm.need("over", 2); err != nil {
		return err
	}
	vm.push(vm.peek(1))
	return nil
}

func opRot(_ context.Context, vm *VM) error {
	if err := vm.need("rot", 3); err != nil {
		return err
	}
	i := len(vm.stack)
	v := vm.stack[i-3]
	copy(vm.stack[i-3:], vm.stack[i-2:])
	vm.stack[i-1] = v
	return nil
}
