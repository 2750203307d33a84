package main

import (
	"errors"
	"fmt"
)

// ErrIncomplete signals that a unit of source ends inside an open
// construct (quote, definition, or control-flow block). An interactive
// caller should request a continuation line; a caller at true end of
// input should treat it as a parse error.
var ErrIncomplete = errors.New("incomplete input")

type opcode uint8

const (
	opPush     opcode = iota // push a literal value
	opCall                   // invoke a word by name
	opJump                   // unconditional jump to target
	opJumpZero               // pop an integer, jump to target if zero
	opLoopEnter              // pop limit and start, open a counted loop
	opLoopNext               // step the counted loop by one
	opLoopPlus               // pop a step, step the counted loop by it
	opEachEnter              // pop an output, open a line iteration
	opEachNext               // advance the line iteration
)

// instr is one resolved instruction. name doubles as the display name
// of the source keyword for tracing and error messages; target is a
// resolved jump destination.
type instr struct {
	op     opcode
	val    Value
	name   string
	target int
}

// definition is a `: name … ;` form lifted out of the instruction
// stream at compile time.
type definition struct {
	name string
	body []Token
}

// program is the compiled form of one evaluated unit.
type program struct {
	code []instr
	defs []definition
}

type ctrlKind uint8

const (
	ctrlIf ctrlKind = iota
	ctrlElse
	ctrlBegin
	ctrlWhile
	ctrlDo
	ctrlEach
)

// ctrlFrame is one open construct on the compile-time control stack.
// pos is the index of the placeholder instruction to patch (or, for
// begin, the backward-jump target); begin carries the loop head across
// the while keyword.
type ctrlFrame struct {
	kind  ctrlKind
	pos   int
	begin int
}

type compiler struct {
	prog program
	ctrl []ctrlFrame
}

// compileUnit tokenizes and compiles one unit of source. Unterminated
// quotes, open definitions, and unclosed blocks yield ErrIncomplete;
// closers without a matching opener are hard compile errors.
func compileUnit(src string) (*program, error) {
	tokens, open := tokenize(src)
	if open {
		return nil, fmt.Errorf("%w: unterminated string", ErrIncomplete)
	}
	return compile(tokens)
}

func compile(tokens []Token) (*program, error) {
	var c compiler
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Quoted {
			c.emit(instr{op: opPush, val: Str(tok.Text)})
			continue
		}
		if tok.Text == ":" {
			rest, err := c.definition(tokens[i+1:])
			if err != nil {
				return nil, err
			}
			i = len(tokens) - rest - 1
			continue
		}
		if err := c.token(tok.Text); err != nil {
			return nil, err
		}
	}
	if len(c.ctrl) > 0 {
		return nil, fmt.Errorf("%w: open %s", ErrIncomplete, c.ctrl[len(c.ctrl)-1].kind.keyword())
	}
	return &c.prog, nil
}

func (k ctrlKind) keyword() string {
	switch k {
	case ctrlIf, ctrlElse:
		return "if"
	case ctrlBegin, ctrlWhile:
		return "begin"
	case ctrlDo:
		return "do"
	case ctrlEach:
		return "each"
	}
	return "block"
}

func (c *compiler) emit(in instr) int {
	c.prog.code = append(c.prog.code, in)
	return len(c.prog.code) - 1
}

func (c *compiler) here() int { return len(c.prog.code) }

func (c *compiler) push(f ctrlFrame) { c.ctrl = append(c.ctrl, f) }

func (c *compiler) pop() ctrlFrame {
	f := c.ctrl[len(c.ctrl)-1]
	c.ctrl = c.ctrl[:len(c.ctrl)-1]
	return f
}

func (c *compiler) top() (ctrlFrame, bool) {
	if len(c.ctrl) == 0 {
		return ctrlFrame{}, false
	}
	return c.ctrl[len(c.ctrl)-1], true
}

func (c *compiler) patch(pos, target int) { c.prog.code[pos].target = target }

// definition collects `name body… ;` after a `:` token, registering it
// as a pending definition rather than emitting instructions. Returns
// how many tokens remain unconsumed.
func (c *compiler) definition(tokens []Token) (remaining int, err error) {
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: definition name", ErrIncomplete)
	}
	name := tokens[0].Text
	for i := 1; i < len(tokens); i++ {
		if !tokens[i].Quoted && tokens[i].Text == ";" {
			body := make([]Token, i-1)
			copy(body, tokens[1:i])
			c.prog.defs = append(c.prog.defs, definition{name: name, body: body})
			return len(tokens) - i - 1, nil
		}
	}
	return 0, fmt.Errorf("%w: definition of %s", ErrIncomplete, name)
}

func (c *compiler) token(text string) error {
	switch text {
	case ";":
		return fmt.Errorf("compile: ; without :")

	case "if":
		c.push(ctrlFrame{kind: ctrlIf, pos: c.emit(instr{op: opJumpZero, name: "if", target: -1})})
	case "else":
		f, ok := c.top()
		if !ok || f.kind != ctrlIf {
			return fmt.Errorf("compile: else without if")
		}
		c.pop()
		jump := c.emit(instr{op: opJump, name: "else", target: -1})
		c.patch(f.pos, c.here())
		c.push(ctrlFrame{kind: ctrlElse, pos: jump})
	case "then":
		f, ok := c.top()
		if !ok {
			return fmt.Errorf("compile: then without if or each")
		}
		switch f.kind {
		case ctrlIf, ctrlElse:
			c.pop()
			c.patch(f.pos, c.here())
		case ctrlEach:
			c.pop()
			c.emit(instr{op: opEachNext, name: "then", target: f.pos + 1})
			c.patch(f.pos, c.here())
		default:
			return fmt.Errorf("compile: then without if or each")
		}

	case "begin":
		c.push(ctrlFrame{kind: ctrlBegin, pos: c.here()})
	case "until":
		f, ok := c.top()
		if !ok || f.kind != ctrlBegin {
			return fmt.Errorf("compile: until without begin")
		}
		c.pop()
		c.emit(instr{op: opJumpZero, name: "until", target: f.pos})
	case "while":
		f, ok := c.top()
		if !ok || f.kind != ctrlBegin {
			return fmt.Errorf("compile: while without begin")
		}
		c.pop()
		jump := c.emit(instr{op: opJumpZero, name: "while", target: -1})
		c.push(ctrlFrame{kind: ctrlWhile, pos: jump, begin: f.pos})
	case "repeat":
		f, ok := c.top()
		if !ok || f.kind != ctrlWhile {
			return fmt.Errorf("compile: repeat without while")
		}
		c.pop()
		c.emit(instr{op: opJump, name: "repeat", target: f.begin})
		c.patch(f.pos, c.here())

	case "do":
		c.push(ctrlFrame{kind: ctrlDo, pos: c.emit(instr{op: opLoopEnter, name: "do", target: -1})})
	case "loop", "+loop":
		f, ok := c.top()
		if !ok || f.kind != ctrlDo {
			return fmt.Errorf("compile: %s without do", text)
		}
		c.pop()
		op := opLoopNext
		if text == "+loop" {
			op = opLoopPlus
			// a +loop may count downward, so its do must enter on
			// either direction; a plain loop only counts up
			c.prog.code[f.pos].val = Int(1)
		}
		c.emit(instr{op: op, name: text, target: f.pos + 1})
		c.patch(f.pos, c.here())

	case "each":
		c.push(ctrlFrame{kind: ctrlEach, pos: c.emit(instr{op: opEachEnter, name: "each", target: -1})})

	default:
		if isInt(text) {
			c.emit(instr{op: opPush, val: Int(parseInt(text))})
		} else {
			c.emit(instr{op: opCall, name: text})
		}
	}
	return nil
}
