package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// repl drives the interactive session: prompt rendering, multi-line
// continuation, history, completion, and auto-printing of freshly
// captured command output.
type repl struct {
	vm      *VM
	cfg     Config
	pending []string
}

func newREPL(vm *VM, cfg Config) *repl {
	return &repl{vm: vm, cfg: cfg}
}

func (r *repl) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          r.prompt(),
		HistoryFile:     r.cfg.historyPath(),
		AutoComplete:    &wordCompleter{vm: r.vm},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Printf("yafsh %s\n", version)
	fmt.Println("Type 'exit' to quit, Ctrl-D for EOF")
	fmt.Println()

	for {
		rl.SetPrompt(r.prompt())
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			// ^C abandons any pending continuation
			r.pending = r.pending[:0]
			continue
		case errors.Is(err, io.EOF):
			fmt.Println("Goodbye!")
			return nil
		case err != nil:
			return err
		}

		if len(r.pending) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if trimmed == "exit" || trimmed == "quit" {
				fmt.Println("Goodbye!")
				return nil
			}
		}

		r.pending = append(r.pending, line)
		src := strings.Join(r.pending, "\n")
		switch err := r.vm.Eval(ctx, src); {
		case errors.Is(err, ErrIncomplete):
			// keep reading; the unit is not finished yet
		case err != nil:
			r.pending = r.pending[:0]
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		default:
			r.pending = r.pending[:0]
			if out, ok := r.vm.PendingOutput(); ok {
				fmt.Print(out)
			}
		}
	}
}

// prompt summarizes the stack: yafsh> when empty, yafsh[3]> with three
// plain values, yafsh[:2]> with two captured outputs, yafsh[3:2]> with
// both. A pending continuation shows ...> instead.
func (r *repl) prompt() string {
	if len(r.pending) > 0 {
		return "...> "
	}
	inputs, outputs := r.vm.StackCounts()
	switch {
	case inputs == 0 && outputs == 0:
		return r.cfg.Prompt + "> "
	case outputs == 0:
		return fmt.Sprintf("%s[%d]> ", r.cfg.Prompt, inputs)
	case inputs == 0:
		return fmt.Sprintf("%s[:%d]> ", r.cfg.Prompt, outputs)
	}
	return fmt.Sprintf("%s[%d:%d]> ", r.cfg.Prompt, inputs, outputs)
}

// runScript evaluates source line by line through the same unit
// interface the prompt uses, accumulating continuation lines. Comment
// and blank lines are skipped between units; an unfinished unit at end
// of input is a hard error.
func runScript(ctx context.Context, vm *VM, src string) error {
	var pending []string
	for _, line := range strings.Split(src, "\n") {
		if len(pending) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
		}
		pending = append(pending, line)
		err := vm.Eval(ctx, strings.Join(pending, "\n"))
		if errors.Is(err, ErrIncomplete) {
			continue
		}
		if err != nil {
			return err
		}
		pending = pending[:0]
	}
	if len(pending) > 0 {
		err := vm.Eval(ctx, strings.Join(pending, "\n"))
		if err != nil {
			return err
		}
	}
	return nil
}

// wordCompleter completes the token under the cursor against the
// dictionary, ranked by fuzzy match distance so shorter and closer
// names come first.
type wordCompleter struct {
	vm *VM
}

func (c *wordCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	start := pos
	for start > 0 && !isSpace(line[start-1]) {
		start--
	}
	word := string(line[start:pos])
	if word == "" || strings.HasPrefix(word, "\"") {
		return nil, 0
	}

	ranks := fuzzy.RankFindFold(word, c.vm.WordNames())
	sort.Sort(ranks)
	for _, rank := range ranks {
		if strings.HasPrefix(rank.Target, word) {
			newLine = append(newLine, []rune(rank.Target[len(word):]))
		}
	}
	return newLine, len(word)
}
