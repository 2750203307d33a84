package main

import "strconv"

// Kind discriminates the three value variants a stack cell can hold.
type Kind uint8

const (
	// KindStr is literal text: quoted input, command arguments.
	KindStr Kind = iota
	// KindInt is a signed 64-bit integer.
	KindInt
	// KindOutput is captured stdout of an external command. It is the
	// only kind fed to a child process as stdin, and it never becomes a
	// command argument without an explicit >string conversion.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindStr:
		return "string"
	case KindInt:
		return "integer"
	case KindOutput:
		return "output"
	}
	return "invalid"
}

// Value is one cell of the data stack.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
}

func Str(s string) Value    { return Value{Kind: KindStr, Str: s} }
func Int(n int64) Value     { return Value{Kind: KindInt, Int: n} }
func Output(s string) Value { return Value{Kind: KindOutput, Str: s} }

// Text renders the value the way it prints and the way it is passed to
// a child process: raw text for strings and outputs, decimal for ints.
func (v Value) Text() string {
	if v.Kind == KindInt {
		return strconv.FormatInt(v.Int, 10)
	}
	return v.Str
}

func (v Value) String() string { return v.Text() }
