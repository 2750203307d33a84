package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/rs/zerolog"
)

// maxCallDepth bounds user-word recursion so that a self-referential
// definition becomes an ordinary runtime error instead of exhausting
// the Go stack.
const maxCallDepth = 1024

// loopFrame is one active counted loop. start is kept so +loop can
// tell an ascending loop from a descending one.
type loopFrame struct {
	index int64
	limit int64
	start int64
}

func (f *loopFrame) running() bool {
	if f.start < f.limit {
		return f.index < f.limit
	}
	return f.index > f.limit
}

// eachFrame iterates the lines of a captured output.
type eachFrame struct {
	lines []string
	next  int
}

// splitOutputLines splits captured output on newlines, dropping one
// trailing terminator so a final "\n" does not yield an empty
// iteration. Interior empty lines are preserved.
func splitOutputLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Eval compiles and runs one completed unit of source. It returns
// ErrIncomplete when the unit is unfinished; any other error aborted
// the unit, leaving the stack and dictionary in the documented state.
func (vm *VM) Eval(ctx context.Context, src string) error {
	prog, err := compileUnit(src)
	if err != nil {
		return err
	}
	if vm.log.GetLevel() <= zerolog.DebugLevel {
		vm.log.Debug().Int("instructions", len(prog.code)).Int("definitions", len(prog.defs)).
			Str("program", repr.String(prog.code, repr.Indent(""))).Msg("compiled unit")
	}
	vm.unitOutputs = 0
	vm.traceStep = 0
	defer func() {
		// loop frames are unit-local; an aborted unit must not leak
		// them into the next one
		vm.loops = vm.loops[:0]
		vm.eachs = vm.eachs[:0]
	}()
	return vm.run(ctx, prog, 0)
}

func (vm *VM) run(ctx context.Context, prog *program, depth int) error {
	for _, def := range prog.defs {
		body := def.body
		vm.dict.define(&word{name: def.name, body: body})
		vm.log.Debug().Str("word", def.name).Int("tokens", len(body)).Msg("defined word")
	}

	for ip := 0; ip < len(prog.code); {
		in := prog.code[ip]
		var before []Value
		if vm.trace > 0 {
			before = append(before, vm.stack...)
		}

		next := ip + 1
		switch in.op {
		case opPush:
			vm.push(in.val)

		case opCall:
			if err := vm.call(ctx, in.name, depth); err != nil {
				return err
			}

		case opJump:
			next = in.target

		case opJumpZero:
			vals, err := vm.popInts(in.name, 1)
			if err != nil {
				return err
			}
			if vals[0] == 0 {
				next = in.target
			}

		case opLoopEnter:
			vals, err := vm.popInts("do", 2)
			if err != nil {
				return err
			}
			start, limit := vals[0], vals[1]
			f := loopFrame{index: start, limit: limit, start: start}
			enter := f.index < f.limit
			if in.val.Int != 0 {
				// closed by +loop: descending counts too
				enter = f.running()
			}
			if !enter {
				next = in.target
			} else {
				vm.loops = append(vm.loops, f)
			}

		case opLoopNext:
			f := &vm.loops[len(vm.loops)-1]
			f.index++
			if f.index < f.limit {
				next = in.target
			} else {
				vm.loops = vm.loops[:len(vm.loops)-1]
			}

		case opLoopPlus:
			vals, err := vm.popInts("+loop", 1)
			if err != nil {
				return err
			}
			f := &vm.loops[len(vm.loops)-1]
			f.index += vals[0]
			if f.running() {
				next = in.target
			} else {
				vm.loops = vm.loops[:len(vm.loops)-1]
			}

		case opEachEnter:
			if err := vm.need("each", 1); err != nil {
				return err
			}
			if vm.peek(0).Kind != KindOutput {
				return fmt.Errorf("each: requires an output: %w", errTypeMismatch)
			}
			lines := splitOutputLines(vm.pop().Str)
			if len(lines) == 0 {
				next = in.target
			} else {
				vm.eachs = append(vm.eachs, eachFrame{lines: lines, next: 1})
				vm.push(Str(lines[0]))
			}

		case opEachNext:
			f := &vm.eachs[len(vm.eachs)-1]
			if f.next < len(f.lines) {
				vm.push(Str(f.lines[f.next]))
				f.next++
				next = in.target
			} else {
				vm.eachs = vm.eachs[:len(vm.eachs)-1]
			}
		}

		if vm.trace > 0 {
			vm.tracePrint(in, before)
		}
		if next <= ip {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ip = next
	}
	return nil
}

// call resolves a name: dictionary first (builtin or user word), then
// the external command bridge. User words run as nested programs over
// the same stack and loop frames.
func (vm *VM) call(ctx context.Context, name string, depth int) error {
	w := vm.dict.lookup(name)
	if w == nil {
		return vm.execCommand(ctx, name)
	}
	if w.isBuiltin() {
		return w.fn(ctx, vm)
	}
	if depth >= maxCallDepth {
		return fmt.Errorf("%s: call depth exceeded", name)
	}
	if w.prog == nil {
		prog, err := compile(w.body)
		if err != nil {
			return fmt.Errorf("%s: %v", name, err)
		}
		w.prog = prog
	}
	return vm.run(ctx, w.prog, depth+1)
}

// loopIndex reads the index of the frame i levels out from the
// innermost counted loop, without popping it.
func (vm *VM) loopIndex(op string, out int) (int64, error) {
	i := len(vm.loops) - 1 - out
	if i < 0 {
		return 0, fmt.Errorf("%s: %w", op, errNoLoop)
	}
	return vm.loops[i].index, nil
}
