// Command yafsh is a Forth-flavored interactive shell.
//
// Input is a stream of whitespace-separated words operating on a typed
// value stack. Quoted text and integer literals push values; known
// words run builtin or user-defined behavior; anything else runs as an
// external command, its arguments drawn from the stack and its stdout
// captured back onto it:
//
//	yafsh> "-l" ls
//	yafsh> each "  " swap concat . then
//
// Control flow (if/else/then, begin/until, begin/while/repeat,
// do/loop, each/then) compiles to resolved jumps before anything
// executes, so a malformed unit fails before touching the stack. New
// words are defined with `: name ... ;`.
package main
