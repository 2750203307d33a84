package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// execCommand runs an external command named by an unresolved word.
//
// Argument window: an integer on top of the stack is popped first and
// bounds how many values become arguments. The scan then walks down
// collecting consecutive Str/Int values until the bound is reached, an
// Output is hit, or the stack is exhausted; collected values are passed
// bottom-to-top as argv. An Output sitting immediately below the window
// is popped and becomes the child's stdin. Stdout is captured onto the
// stack as a new Output; the exit status is recorded whether or not it
// is zero. Only resolution and spawn failures are errors.
func (vm *VM) execCommand(ctx context.Context, name string) error {
	path, err := vm.lookPath(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, errNotFound)
	}

	limit := -1
	if len(vm.stack) > 0 && vm.peek(0).Kind == KindInt {
		limit = int(vm.pop().Int)
		if limit < 0 {
			limit = 0
		}
	}

	bottom := len(vm.stack)
	for bottom > 0 && (limit < 0 || len(vm.stack)-bottom < limit) {
		if vm.stack[bottom-1].Kind == KindOutput {
			break
		}
		bottom--
	}
	args := make([]string, 0, len(vm.stack)-bottom)
	for _, v := range vm.stack[bottom:] {
		args = append(args, v.Text())
	}
	vm.stack = vm.stack[:bottom]

	var stdin string
	hasStdin := false
	if len(vm.stack) > 0 && vm.peek(0).Kind == KindOutput {
		stdin = vm.pop().Str
		hasStdin = true
	}

	cmd := exec.CommandContext(ctx, path, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = vm.errOut
	if hasStdin {
		cmd.Stdin = strings.NewReader(stdin)
	}

	runErr := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		vm.exitCode = 0
	case errors.As(runErr, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			// killed by a signal
			code = 128
		}
		vm.exitCode = code
	default:
		vm.exitCode = 127
		return fmt.Errorf("%s: %v", name, runErr)
	}

	vm.log.Debug().Str("command", path).Strs("args", args).
		Bool("stdin", hasStdin).Int("exit", vm.exitCode).Msg("ran command")

	vm.push(Output(stdout.String()))
	vm.unitOutputs++
	return nil
}
