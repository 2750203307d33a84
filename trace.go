package main

import (
	"fmt"
	"strings"
)

// Step tracing, written to the error stream so it interleaves with
// child stderr rather than captured output. Levels:
//
//	1  pop/push description per step
//	2  level 1 plus the resulting stack
//	3  level 2 plus the word's doc string
const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1m"
	ansiDim     = "\x1b[2m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

func (vm *VM) tracePrint(in instr, before []Value) {
	vm.traceStep++
	desc := traceDiff(before, vm.stack)
	fmt.Fprintf(vm.errOut, "  %sstep %d%s %-20s → %s\n",
		ansiDim, vm.traceStep, ansiReset, in.traceName(), desc)
	if vm.trace >= 3 && in.op == opCall {
		if doc := vm.Doc(in.name); doc != "" {
			fmt.Fprintf(vm.errOut, "  %s%28s %s%s\n", ansiDim, "", doc, ansiReset)
		}
	}
	if vm.trace >= 2 {
		fmt.Fprintf(vm.errOut, "  %s%28s stack:%s %s\n",
			ansiDim, "", ansiReset, traceStack(vm.stack))
	}
}

func (in instr) traceName() string {
	if in.op == opPush {
		if in.val.Kind == KindStr {
			return ansiYellow + "\"" + in.val.Str + "\"" + ansiReset
		}
		return ansiBold + in.val.Text() + ansiReset
	}
	return ansiBold + in.name + ansiReset
}

// traceDiff describes a step as the values it popped and pushed,
// relative to the longest common stack prefix.
func traceDiff(before, after []Value) string {
	common := 0
	for common < len(before) && common < len(after) && before[common] == after[common] {
		common++
	}
	popped, pushed := before[common:], after[common:]

	var parts []string
	if len(popped) > 0 {
		items := make([]string, 0, len(popped))
		for i := len(popped) - 1; i >= 0; i-- {
			items = append(items, traceValue(popped[i], false))
		}
		parts = append(parts, ansiRed+"pop"+ansiReset+" "+strings.Join(items, ", "))
	}
	if len(pushed) > 0 {
		items := make([]string, 0, len(pushed))
		for _, v := range pushed {
			items = append(items, traceValue(v, false))
		}
		parts = append(parts, ansiGreen+"push"+ansiReset+" "+strings.Join(items, ", "))
	}
	if len(parts) == 0 {
		return ansiDim + "(no stack change)" + ansiReset
	}
	return strings.Join(parts, "; ")
}

func traceStack(stack []Value) string {
	if len(stack) == 0 {
		return ansiDim + "(empty)" + ansiReset
	}
	items := make([]string, 0, len(stack))
	for _, v := range stack {
		items = append(items, traceValue(v, true))
	}
	return strings.Join(items, " ")
}

func traceValue(v Value, colored bool) string {
	switch v.Kind {
	case KindStr:
		if colored {
			return ansiYellow + "\"" + v.Str + "\"" + ansiReset
		}
		return "\"" + v.Str + "\""
	case KindInt:
		if colored {
			return ansiCyan + v.Text() + ansiReset
		}
		return v.Text()
	}
	s := strings.TrimRight(v.Str, " \t\n")
	if n := strings.Count(v.Str, "\n"); n > 1 {
		s = fmt.Sprintf("output %d lines", n)
	} else if len(s) > 30 {
		s = s[:27] + "..."
	}
	if colored {
		return ansiMagenta + "<<" + ansiReset + s + ansiMagenta + ">>" + ansiReset
	}
	return "<<" + s + ">>"
}
