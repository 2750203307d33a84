package main

// New builds a VM with the full builtin dictionary and the given
// options applied over the defaults.
func New(opts ...VMOption) *VM {
	vm := &VM{dict: newDictionary()}
	registerBuiltins(vm.dict)
	vm.apply(opts...)
	return vm
}

// ExitCode reports the exit status of the last external command.
func (vm *VM) ExitCode() int { return vm.exitCode }

// Stack returns a copy of the current stack, bottom first.
func (vm *VM) Stack() []Value {
	return append([]Value(nil), vm.stack...)
}
