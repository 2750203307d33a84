package main

import (
	"io"

	"github.com/rs/zerolog"
)

type VMOption interface{ apply(vm *VM) }

var defaults = []VMOption{
	withOutput(io.Discard),
	withErrOutput(io.Discard),
	withLogger(zerolog.Nop()),
	withLookPath(defaultLookPath),
}

func (vm *VM) apply(opts ...VMOption) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(vm)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type outputOption struct{ io.Writer }
type errOutputOption struct{ io.Writer }
type loggerOption struct{ zerolog.Logger }
type traceOption int
type lookPathOption func(name string) (string, error)

func withOutput(w io.Writer) outputOption       { return outputOption{w} }
func withErrOutput(w io.Writer) errOutputOption { return errOutputOption{w} }
func withLogger(log zerolog.Logger) loggerOption {
	return loggerOption{log}
}
func withTrace(level int) traceOption { return traceOption(level) }
func withLookPath(f func(name string) (string, error)) lookPathOption {
	return lookPathOption(f)
}

func (o outputOption) apply(vm *VM)    { vm.out = o.Writer }
func (o errOutputOption) apply(vm *VM) { vm.errOut = o.Writer }
func (o loggerOption) apply(vm *VM)    { vm.log = o.Logger }
func (o traceOption) apply(vm *VM)     { vm.trace = int(o) }
func (o lookPathOption) apply(vm *VM)  { vm.lookPath = o }
