package main

import (
	"context"
	"fmt"
)

// Arithmetic, comparison, and boolean words. Operand validation
// happens before anything is popped, so a failing word leaves the
// stack untouched.

func opAdd(_ context.Context, vm *VM) error {
	v, err := vm.popInts("+", 2)
	if err != nil {
		return err
	}
	vm.push(Int(v[0] + v[1]))
	return nil
}

func opSub(_ context.Context, vm *VM) error {
	v, err := vm.popInts("-", 2)
	if err != nil {
		return err
	}
	vm.push(Int(v[0] - v[1]))
	return nil
}

func opMul(_ context.Context, vm *VM) error {
	v, err := vm.popInts("*", 2)
	if err != nil {
		return err
	}
	vm.push(Int(v[0] * v[1]))
	return nil
}

func opDiv(_ context.Context, vm *VM) error {
	if err := vm.checkDivisor("/"); err != nil {
		return err
	}
	v, _ := vm.popInts("/", 2)
	vm.push(Int(v[0] / v[1]))
	return nil
}

func opMod(_ context.Context, vm *VM) error {
	if err := vm.checkDivisor("mod"); err != nil {
		return err
	}
	v, _ := vm.popInts("mod", 2)
	vm.push(Int(v[0] % v[1]))
	return nil
}

func opDivMod(_ context.Context, vm *VM) error {
	if err := vm.checkDivisor("/mod"); err != nil {
		return err
	}
	v, _ := vm.popInts("/mod", 2)
	vm.push(Int(v[0] / v[1]))
	vm.push(Int(v[0] % v[1]))
	return nil
}

func opMulDiv(_ context.Context, vm *VM) error {
	if err := vm.needInts("*/", 3); err != nil {
		return err
	}
	if vm.peek(0).Int == 0 {
		return fmt.Errorf("*/: %w", errDivideByZero)
	}
	v, _ := vm.popInts("*/", 3)
	vm.push(Int(v[0] * v[1] / v[2]))
	return nil
}

// checkDivisor validates a two-integer division form, including a
// nonzero divisor on top, before any pop happens.
func (vm *VM) checkDivisor(op string) error {
	if err := vm.needInts(op, 2); err != nil {
		return err
	}
	if vm.peek(0).Int == 0 {
		return fmt.Errorf("%s: %w", op, errDivideByZero)
	}
	return nil
}

// opEq and opNeq compare two ints or two strings by value; mixed
// operand kinds are a type error.
func opEq(_ context.Context, vm *VM) error {
	eq, err := vm.sameKindEqual("=")
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(eq)))
	return nil
}

func opNeq(_ context.Context, vm *VM) error {
	eq, err := vm.sameKindEqual("<>")
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(!eq)))
	return nil
}

func (vm *VM) sameKindEqual(op string) (bool, error) {
	if err := vm.need(op, 2); err != nil {
		return false, err
	}
	a, b := vm.peek(1), vm.peek(0)
	if a.Kind != b.Kind || a.Kind == KindOutput {
		return false, fmt.Errorf("%s: requires two values of the same type: %w", op, errTypeMismatch)
	}
	vm.pop()
	vm.pop()
	if a.Kind == KindInt {
		return a.Int == b.Int, nil
	}
	return a.Str == b.Str, nil
}

func opGt(_ context.Context, vm *VM) error {
	v, err := vm.popInts(">", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] > v[1])))
	return nil
}

func opLt(_ context.Context, vm *VM) error {
	v, err := vm.popInts("<", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] < v[1])))
	return nil
}

func opGte(_ context.Context, vm *VM) error {
	v, err := vm.popInts(">=", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] >= v[1])))
	return nil
}

func opLte(_ context.Context, vm *VM) error {
	v, err := vm.popInts("<=", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] <= v[1])))
	return nil
}

// Boolean words treat zero as false and anything else as true, and
// always produce 0 or 1.

func opAnd(_ context.Context, vm *VM) error {
	v, err := vm.popInts("and", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] != 0 && v[1] != 0)))
	return nil
}

func opOr(_ context.Context, vm *VM) error {
	v, err := vm.popInts("or", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] != 0 || v[1] != 0)))
	return nil
}

func opNot(_ context.Context, vm *VM) error {
	v, err := vm.popInts("not", 1)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt(v[0] == 0)))
	return nil
}

func opXor(_ context.Context, vm *VM) error {
	v, err := vm.popInts("xor", 2)
	if err != nil {
		return err
	}
	vm.push(Int(boolInt((v[0] != 0) != (v[1] != 0))))
	return nil
}

func opLoopI(_ context.Context, vm *VM) error {
	n, err := vm.loopIndex("i", 0)
	if err != nil {
		return err
	}
	vm.push(Int(n))
	return nil
}

func opLoopJ(_ context.Context, vm *VM) error {
	n, err := vm.loopIndex("j", 1)
	if err != nil {
		return err
	}
	vm.push(Int(n))
	return nil
}
