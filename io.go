package main

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func opDot(_ context.Context, vm *VM) error {
	if err := vm.need(".", 1); err != nil {
		return err
	}
	fmt.Fprintln(vm.out, vm.pop().Text())
	return nil
}

func opType(_ context.Context, vm *VM) error {
	if err := vm.need("type", 1); err != nil {
		return err
	}
	fmt.Fprint(vm.out, vm.pop().Text())
	return nil
}

// opDotS renders the whole stack, bottom first: strings quoted, ints
// bare, outputs guillemet-wrapped with trailing whitespace trimmed.
func opDotS(_ context.Context, vm *VM) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%d> ", len(vm.stack))
	for _, v := range vm.stack {
		switch v.Kind {
		case KindStr:
			fmt.Fprintf(&sb, "%q ", v.Str)
		case KindInt:
			fmt.Fprintf(&sb, "%d ", v.Int)
		case KindOutput:
			fmt.Fprintf(&sb, "«%s» ", strings.TrimRight(v.Str, " \t\n"))
		}
	}
	fmt.Fprintln(vm.out, strings.TrimRight(sb.String(), " "))
	return nil
}

func opToFile(_ context.Context, vm *VM) error {
	return vm.writeFile(">file", os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

func opAppendFile(_ context.Context, vm *VM) error {
	return vm.writeFile(">>file", os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

// writeFile implements ( content filename -- ): the filename is a
// string on top, the content below it may be a string or a captured
// output.
func (vm *VM) writeFile(op string, flag int) error {
	if err := vm.need(op, 2); err != nil {
		return err
	}
	if vm.peek(0).Kind != KindStr {
		return fmt.Errorf("%s: requires a string filename: %w", op, errTypeMismatch)
	}
	if vm.peek(1).Kind == KindInt {
		return fmt.Errorf("%s: requires string or output content: %w", op, errTypeMismatch)
	}
	name := expandTilde(vm.pop().Str)
	content := vm.pop().Str

	f, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("%s: %s: %v", op, name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %s: %v", op, name, err)
	}
	return nil
}
