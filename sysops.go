package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// opExec runs a command named explicitly by a string on top of the
// stack, through the same bridge that handles unresolved words. This
// is the escape hatch for running a command whose name is shadowed by
// a dictionary word.
func opExec(ctx context.Context, vm *VM) error {
	v, err := vm.popStrs("exec", 1)
	if err != nil {
		return err
	}
	return vm.execCommand(ctx, v[0])
}

func opExitCode(_ context.Context, vm *VM) error {
	vm.push(Int(int64(vm.exitCode)))
	return nil
}

func opCd(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("cd", 1)
	if err != nil {
		return err
	}
	dir := expandTilde(v[0])
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %s: %v", dir, err)
	}
	return nil
}

func opPushd(_ context.Context, vm *VM) error {
	if err := vm.needStrTop("pushd"); err != nil {
		return err
	}
	cur, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("pushd: %v", err)
	}
	dir := expandTilde(vm.pop().Str)
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("pushd: %s: %v", dir, err)
	}
	vm.dirs = append(vm.dirs, cur)
	return nil
}

func opPopd(_ context.Context, vm *VM) error {
	if len(vm.dirs) == 0 {
		return fmt.Errorf("popd: directory stack empty")
	}
	dir := vm.dirs[len(vm.dirs)-1]
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("popd: %s: %v", dir, err)
	}
	vm.dirs = vm.dirs[:len(vm.dirs)-1]
	return nil
}

func opGetenv(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("getenv", 1)
	if err != nil {
		return err
	}
	vm.push(Str(os.Getenv(v[0])))
	return nil
}

func opSetenv(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("setenv", 2)
	if err != nil {
		return err
	}
	if err := os.Setenv(v[1], v[0]); err != nil {
		return fmt.Errorf("setenv: %v", err)
	}
	return nil
}

func opUnsetenv(_ context.Context, vm *VM) error {
	v, err := vm.popStrs("unsetenv", 1)
	if err != nil {
		return err
	}
	if err := os.Unsetenv(v[0]); err != nil {
		return fmt.Errorf("unsetenv: %v", err)
	}
	return nil
}

func opEnvAppend(_ context.Context, vm *VM) error {
	return vm.envJoin("env-append", func(existing, v string) string { return existing + ":" + v })
}

func opEnvPrepend(_ context.Context, vm *VM) error {
	return vm.envJoin("env-prepend", func(existing, v string) string { return v + ":" + existing })
}

// envJoin implements the colon-separated path-variable editors,
// ( value key -- ). An unset variable is set to the bare value.
func (vm *VM) envJoin(op string, join func(existing, v string) string) error {
	v, err := vm.popStrs(op, 2)
	if err != nil {
		return err
	}
	val, key := v[0], v[1]
	if existing, ok := os.LookupEnv(key); ok {
		val = join(existing, val)
	}
	if err := os.Setenv(key, val); err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}
	return nil
}

// opEnv pushes every KEY=VALUE pair of the environment, sorted, as
// strings. Pair it with a depth-limited command to grep the lot.
func opEnv(_ context.Context, vm *VM) error {
	env := os.Environ()
	sort.Strings(env)
	for _, entry := range env {
		vm.push(Str(entry))
	}
	return nil
}

func (vm *VM) needStrTop(op string) error {
	if err := vm.need(op, 1); err != nil {
		return err
	}
	if vm.peek(0).Kind != KindStr {
		return fmt.Errorf("%s: requires a string: %w", op, errTypeMismatch)
	}
	return nil
}

// expandTilde rewrites a leading ~ to $HOME.
func expandTilde(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		if home := os.Getenv("HOME"); home != "" {
			return home + rest
		}
	}
	return path
}
