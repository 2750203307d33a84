package main

import "context"

type builtin struct {
	name string
	fn   func(context.Context, *VM) error
	doc  string
}

// The builtin table. Control-flow keywords (if/else/then, begin/until,
// while/repeat, do/loop/+loop, each, and `: … ;`) are not words; they
// compile to jumps and never reach the dictionary.
var builtins = []builtin{
	// stack shape
	{"dup", opDup, "( a -- a a ) Duplicate top item"},
	{"swap", opSwap, "( a b -- b a ) Swap top two items"},
	{"drop", opDrop, "( a -- ) Remove top item"},
	{"clear", opClear, "( ... -- ) Clear entire stack"},
	{"over", opOver, "( a b -- a b a ) Copy second item to top"},
	{"rot", opRot, "( a b c -- b c a ) Rotate top three items"},

	// printing and conversion
	{".", opDot, "( a -- ) Print and remove top item with newline"},
	{"type", opType, "( a -- ) Print and remove top item without newline"},
	{".s", opDotS, "( -- ) Display entire stack without modifying it"},
	{">output", opToOutput, "( string -- output ) Convert string to output for piping"},
	{">string", opToString, "( output/int -- string ) Convert output or int to string"},

	// file i/o
	{">file", opToFile, "( content filename -- ) Write output to file"},
	{">>file", opAppendFile, "( content filename -- ) Append output to file"},

	// system
	{"exec", opExec, "( args... cmd -- output ) Execute an external command"},
	{"?", opExitCode, "( -- code ) Push exit code of last command"},
	{"$exitcode", opExitCode, "( -- code ) Push exit code of last command"},
	{"cd", opCd, "( path -- ) Change directory"},
	{"glob", opGlob, "( pattern -- matches... ) Expand a filename pattern"},

	// environment
	{"getenv", opGetenv, "( key -- value ) Get environment variable"},
	{"setenv", opSetenv, "( value key -- ) Set environment variable"},
	{"unsetenv", opUnsetenv, "( key -- ) Unset environment variable"},
	{"env-append", opEnvAppend, "( value key -- ) Append to colon-separated env var"},
	{"env-prepend", opEnvPrepend, "( value key -- ) Prepend to colon-separated env var"},
	{"env", opEnv, "( -- vars... ) Push all environment variables"},

	// directory stack
	{"pushd", opPushd, "( path -- ) Push current dir and change to path"},
	{"popd", opPopd, "( -- ) Pop and change to directory from stack"},

	// arithmetic
	{"+", opAdd, "( a b -- a+b ) Add two numbers"},
	{"-", opSub, "( a b -- a-b ) Subtract b from a"},
	{"*", opMul, "( a b -- a*b ) Multiply two numbers"},
	{"/", opDiv, "( a b -- a/b ) Divide a by b"},
	{"mod", opMod, "( a b -- a%b ) Modulo (remainder of a/b)"},
	{"/mod", opDivMod, "( a b -- quot rem ) Quotient and remainder"},
	{"*/", opMulDiv, "( a b c -- (a*b)/c ) Multiply then divide"},

	// comparison
	{"=", opEq, "( a b -- flag ) Test equality (1 if equal, 0 if not)"},
	{"<>", opNeq, "( a b -- flag ) Test not equal"},
	{">", opGt, "( a b -- flag ) Test greater than"},
	{"<", opLt, "( a b -- flag ) Test less than"},
	{">=", opGte, "( a b -- flag ) Test greater or equal"},
	{"<=", opLte, "( a b -- flag ) Test less or equal"},

	// boolean
	{"and", opAnd, "( a b -- flag ) Boolean AND"},
	{"or", opOr, "( a b -- flag ) Boolean OR"},
	{"not", opNot, "( a -- flag ) Boolean NOT"},
	{"xor", opXor, "( a b -- flag ) Boolean XOR"},

	// strings
	{"concat", opConcat, "( a b -- a+b ) Concatenate two strings"},
	{"?prefix", opMaybePrefix, "( s pre -- s' ) Prefix s with pre unless s is empty"},
	{"?suffix", opMaybeSuffix, "( s suf -- s' ) Suffix s with suf unless s is empty"},
	{"?wrap", opMaybeWrap, "( s pre suf -- s' ) Wrap s in pre/suf unless s is empty"},

	// loop indices
	{"i", opLoopI, "( -- index ) Push current loop index"},
	{"j", opLoopJ, "( -- index ) Push outer loop index (nested loops)"},

	// introspection
	{"words", opWords, "( -- ) List all available words"},
	{"see", opSee, "( name -- ) Show word definition or documentation"},
	{"help", opHelp, "( -- ) Show comprehensive help information"},
	{"trace", opTrace, "( n -- ) Set step-trace verbosity (0-3)"},
}

func registerBuiltins(d *dictionary) {
	for _, b := range builtins {
		d.define(&word{name: b.name, fn: b.fn, doc: b.doc})
	}
}
