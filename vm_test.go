package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shTestCases []shTestCase

func (ts shTestCases) run(t *testing.T) {
	for _, tc := range ts {
		t.Run(tc.name, tc.run)
	}
}

func shTest(name string) (tc shTestCase) {
	tc.name = name
	return tc
}

type shTestCase struct {
	name    string
	opts    []VMOption
	setup   []func(vm *VM)
	units   []string
	expect  []func(t *testing.T, vm *VM)
	wantErr error
	errText string
	timeout time.Duration
}

func (tc shTestCase) withOptions(opts ...VMOption) shTestCase {
	tc.opts = append(tc.opts, opts...)
	return tc
}

func (tc shTestCase) withSetup(fns ...func(vm *VM)) shTestCase {
	tc.setup = append(tc.setup, fns...)
	return tc
}

func (tc shTestCase) withStack(values ...Value) shTestCase {
	return tc.withSetup(func(vm *VM) {
		vm.stack = append(vm.stack, values...)
	})
}

// eval queues units to evaluate in order. Only the final unit may
// fail; its error is matched by expectError / expectErrorText.
func (tc shTestCase) eval(units ...string) shTestCase {
	tc.units = append(tc.units, units...)
	return tc
}

func (tc shTestCase) expectError(err error) shTestCase {
	tc.wantErr = err
	return tc
}

func (tc shTestCase) expectErrorText(text string) shTestCase {
	tc.errText = text
	return tc
}

func (tc shTestCase) expectStack(values ...Value) shTestCase {
	tc.expect = append(tc.expect, func(t *testing.T, vm *VM) {
		if values == nil {
			values = []Value{}
		}
		if vm.stack == nil {
			vm.stack = []Value{}
		}
		assert.Equal(t, values, vm.stack, "expected stack values")
	})
	return tc
}

func (tc shTestCase) expectOutput(output string) shTestCase {
	var out strings.Builder
	tc.opts = append(tc.opts, withOutput(&out))
	tc.expect = append(tc.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return tc
}

func (tc shTestCase) expectExitCode(code int) shTestCase {
	tc.expect = append(tc.expect, func(t *testing.T, vm *VM) {
		assert.Equal(t, code, vm.exitCode, "expected exit code")
	})
	return tc
}

func (tc shTestCase) run(t *testing.T) {
	vm := New(tc.opts...)
	for _, setup := range tc.setup {
		setup(vm)
	}

	timeout := tc.timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var last error
	for i, unit := range tc.units {
		err := vm.Eval(ctx, unit)
		if i < len(tc.units)-1 {
			require.NoError(t, err, "unit %d failed early: %q", i, unit)
		}
		last = err
	}

	switch {
	case tc.wantErr != nil:
		assert.True(t, errors.Is(last, tc.wantErr), "expected error %v, got %+v", tc.wantErr, last)
	case tc.errText != "":
		if assert.Error(t, last) {
			assert.Contains(t, last.Error(), tc.errText)
		}
	default:
		assert.NoError(t, last, "unexpected eval error")
	}

	for _, expect := range tc.expect {
		expect(t, vm)
	}
}

func TestStackOps(t *testing.T) {
	shTestCases{
		shTest("dup").eval(`1 dup`).expectStack(Int(1), Int(1)),
		shTest("swap").eval(`1 2 swap`).expectStack(Int(2), Int(1)),
		shTest("drop").eval(`1 2 drop`).expectStack(Int(1)),
		shTest("clear").eval(`1 2 3 clear`).expectStack(),
		shTest("over").eval(`1 2 over`).expectStack(Int(1), Int(2), Int(1)),
		shTest("rot").eval(`1 2 3 rot`).expectStack(Int(2), Int(3), Int(1)),
		shTest("mixed kinds").eval(`"a" 2 swap`).expectStack(Int(2), Str("a")),

		shTest("dup underflow").eval(`dup`).expectError(errUnderflow).expectStack(),
		shTest("swap underflow keeps stack").eval(`1 swap`).
			expectError(errUnderflow).expectStack(Int(1)),
		shTest("rot underflow keeps stack").eval(`1 2 rot`).
			expectError(errUnderflow).expectStack(Int(1), Int(2)),
	}.run(t)
}

func TestArithmetic(t *testing.T) {
	shTestCases{
		shTest("add").eval(`3 7 +`).expectStack(Int(10)),
		shTest("sub").eval(`10 3 -`).expectStack(Int(7)),
		shTest("sub negative").eval(`3 10 -`).expectStack(Int(-7)),
		shTest("mul").eval(`6 7 *`).expectStack(Int(42)),
		shTest("div").eval(`15 3 /`).expectStack(Int(5)),
		shTest("mod").eval(`10 3 mod`).expectStack(Int(1)),
		shTest("divmod").eval(`10 3 /mod`).expectStack(Int(3), Int(1)),
		shTest("divmod negative").eval(`-7 2 /mod`).expectStack(Int(-3), Int(-1)),
		shTest("muldiv").eval(`2 6 4 */`).expectStack(Int(3)),

		shTest("div by zero keeps operands").eval(`10 0 /`).
			expectError(errDivideByZero).expectStack(Int(10), Int(0)),
		shTest("mod by zero keeps operands").eval(`10 0 mod`).
			expectError(errDivideByZero).expectStack(Int(10), Int(0)),
		shTest("divmod by zero keeps operands").eval(`10 0 /mod`).
			expectError(errDivideByZero).expectStack(Int(10), Int(0)),
		shTest("muldiv by zero keeps operands").eval(`2 6 0 */`).
			expectError(errDivideByZero).expectStack(Int(2), Int(6), Int(0)),
		shTest("add type error keeps operands").eval(`"x" 1 +`).
			expectError(errTypeMismatch).expectStack(Str("x"), Int(1)),
		shTest("add underflow").eval(`1 +`).
			expectError(errUnderflow).expectStack(Int(1)),
	}.run(t)
}

func TestDivModInvariant(t *testing.T) {
	pairs := [][2]int64{{10, 3}, {7, 7}, {-10, 3}, {10, -3}, {-10, -3}, {0, 5}, {100, 7}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		vm := New()
		vm.push(Int(a))
		vm.push(Int(b))
		require.NoError(t, vm.Eval(context.Background(), `/mod`))
		require.Len(t, vm.stack, 2)
		quot, rem := vm.stack[0].Int, vm.stack[1].Int
		assert.Equal(t, a, quot*b+rem, "quot*b+rem for %d /mod %d", a, b)
	}
}

func TestComparisons(t *testing.T) {
	shTestCases{
		shTest("eq ints").eval(`5 5 =`).expectStack(Int(1)),
		shTest("eq ints false").eval(`5 7 =`).expectStack(Int(0)),
		shTest("eq strings").eval(`"a" "a" =`).expectStack(Int(1)),
		shTest("neq strings").eval(`"a" "b" <>`).expectStack(Int(1)),
		shTest("eq mixed keeps operands").eval(`1 "1" =`).
			expectError(errTypeMismatch).expectStack(Int(1), Str("1")),
		shTest("gt").eval(`3 2 >`).expectStack(Int(1)),
		shTest("lt").eval(`3 2 <`).expectStack(Int(0)),
		shTest("gte equal").eval(`2 2 >=`).expectStack(Int(1)),
		shTest("lte").eval(`3 2 <=`).expectStack(Int(0)),
		shTest("gt on strings is a type error").eval(`"a" "b" >`).
			expectError(errTypeMismatch).expectStack(Str("a"), Str("b")),
	}.run(t)
}

func TestBoolean(t *testing.T) {
	shTestCases{
		shTest("and").eval(`1 1 and`).expectStack(Int(1)),
		shTest("and false").eval(`1 0 and`).expectStack(Int(0)),
		shTest("and nonzero is true").eval(`7 -2 and`).expectStack(Int(1)),
		shTest("or").eval(`0 1 or`).expectStack(Int(1)),
		shTest("or false").eval(`0 0 or`).expectStack(Int(0)),
		shTest("not").eval(`0 not`).expectStack(Int(1)),
		shTest("not nonzero").eval(`5 not`).expectStack(Int(0)),
		shTest("xor").eval(`1 0 xor`).expectStack(Int(1)),
		shTest("xor both true").eval(`3 5 xor`).expectStack(Int(0)),
	}.run(t)
}

func TestStrings(t *testing.T) {
	shTestCases{
		shTest("concat").eval(`"x" "y" concat`).expectStack(Str("xy")),
		shTest("concat type error keeps operands").eval(`1 "y" concat`).
			expectError(errTypeMismatch).expectStack(Int(1), Str("y")),

		shTest("prefix").eval(`"v" "--tag=" ?prefix`).expectStack(Str("--tag=v")),
		shTest("prefix empty base").eval(`"" "--tag=" ?prefix`).expectStack(Str("")),
		shTest("suffix").eval(`"name" ".txt" ?suffix`).expectStack(Str("name.txt")),
		shTest("suffix empty base").eval(`"" ".txt" ?suffix`).expectStack(Str("")),
		shTest("wrap").eval(`"x" "(" ")" ?wrap`).expectStack(Str("(x)")),
		shTest("wrap empty base").eval(`"" "(" ")" ?wrap`).expectStack(Str("")),

		shTest("to string from int").eval(`42 >string`).expectStack(Str("42")),
		shTest("to string passthrough").eval(`"s" >string`).expectStack(Str("s")),
		shTest("to output").eval(`"s" >output`).expectStack(Output("s")),
		shTest("to output passthrough").withStack(Output("o")).eval(`>output`).
			expectStack(Output("o")),
		shTest("to output rejects int").eval(`1 >output`).
			expectError(errTypeMismatch).expectStack(Int(1)),
		shTest("to string from output").withStack(Output("raw")).eval(`>string`).
			expectStack(Str("raw")),
	}.run(t)
}

func TestPrinting(t *testing.T) {
	shTestCases{
		shTest("dot").eval(`42 .`).expectStack().expectOutput("42\n"),
		shTest("dot string").eval(`"hi" .`).expectOutput("hi\n"),
		shTest("type no newline").eval(`"hi" type`).expectOutput("hi"),
		shTest("dot underflow").eval(`.`).expectError(errUnderflow),
		shTest("dot-s keeps stack").withStack(Int(5), Str("str"), Output("out\n")).
			eval(`.s`).
			expectStack(Int(5), Str("str"), Output("out\n")).
			expectOutput("<3> 5 \"str\" «out»\n"),
		shTest("dot-s empty").eval(`.s`).expectOutput("<0>\n"),
	}.run(t)
}

func TestConditionals(t *testing.T) {
	shTestCases{
		shTest("if taken").eval(`1 if 10 then`).expectStack(Int(10)),
		shTest("if skipped").eval(`0 if 10 then`).expectStack(),
		shTest("if else true").eval(`1 if 10 else 20 then`).expectStack(Int(10)),
		shTest("if else false").eval(`0 if 10 else 20 then`).expectStack(Int(20)),
		shTest("nested if").eval(`1 if 0 if 1 else 2 then else 3 then`).expectStack(Int(2)),
		shTest("if wants int").eval(`"x" if 1 then`).expectError(errTypeMismatch),
		shTest("if underflow").eval(`if 1 then`).expectError(errUnderflow),
	}.run(t)
}

func TestLoops(t *testing.T) {
	shTestCases{
		shTest("begin until").eval(`0 begin 1 + dup 5 = until`).expectStack(Int(5)),
		shTest("while repeat").eval(`5 begin dup 0 > while dup 1 - repeat drop`).
			expectStack(),
		shTest("do loop").eval(`0 3 do i loop`).expectStack(Int(0), Int(1), Int(2)),
		shTest("do loop zero trips").eval(`0 0 do i loop`).expectStack(),
		shTest("do loop start above limit").eval(`3 0 do i loop`).expectStack(),
		shTest("nested do loops").eval(`0 2 do 0 2 do j 10 * i + loop loop`).
			expectStack(Int(0), Int(1), Int(10), Int(11)),
		shTest("plus loop").eval(`0 10 do i 3 +loop`).
			expectStack(Int(0), Int(3), Int(6), Int(9)),
		shTest("plus loop descending").eval(`3 0 do i -1 +loop`).
			expectStack(Int(3), Int(2), Int(1)),
		shTest("i outside loop").eval(`i`).expectError(errNoLoop),
		shTest("j needs nesting").eval(`0 2 do j loop`).expectError(errNoLoop),
		shTest("loop frame popped on exit").eval(`0 1 do i loop`, `i`).
			expectError(errNoLoop),
	}.run(t)
}

func TestWhileRepeatVisitOrder(t *testing.T) {
	var seen []int64
	vm := New()
	vm.dict.define(&word{name: "probe", fn: func(_ context.Context, vm *VM) error {
		if err := vm.need("probe", 1); err != nil {
			return err
		}
		seen = append(seen, vm.peek(0).Int)
		return nil
	}})

	err := vm.Eval(context.Background(), `5 begin dup 0 > while probe dup 1 - repeat drop`)
	require.NoError(t, err)
	assert.Empty(t, vm.stack)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, seen)
}

func TestEach(t *testing.T) {
	shTestCases{
		shTest("iterates lines").withStack(Output("a\nb\nc\n")).
			eval(`each then`).
			expectStack(Str("a"), Str("b"), Str("c")),
		shTest("final line without terminator").withStack(Output("a\nb")).
			eval(`each then`).
			expectStack(Str("a"), Str("b")),
		shTest("empty output skips body").withStack(Output("")).
			eval(`each 99 then`).
			expectStack(),
		shTest("newline only output skips body").withStack(Output("\n")).
			eval(`each 99 then`).
			expectStack(),
		shTest("body runs per line").withStack(Output("x\ny\n")).
			eval(`each "!" concat then`).
			expectStack(Str("x!"), Str("y!")),
		shTest("requires output").eval(`"s" each then`).
			expectError(errTypeMismatch).expectStack(Str("s")),
		shTest("underflow").eval(`each then`).expectError(errUnderflow),
	}.run(t)
}

func TestDefinitions(t *testing.T) {
	shTestCases{
		shTest("define and call").eval(`: sq dup * ;`, `5 sq`).expectStack(Int(25)),
		shTest("define and call same unit").eval(`: sq dup * ; 5 sq`).expectStack(Int(25)),
		shTest("redefinition wins").
			eval(`: sq dup * ;`, `: sq drop 0 ;`, `5 sq`).
			expectStack(Int(0)),
		shTest("late binding").
			eval(`: a b ;`, `: b 1 ;`, `a`).
			expectStack(Int(1)),
		shTest("rebinding a callee").
			eval(`: a b ;`, `: b 1 ;`, `a`, `: b 2 ;`, `a`).
			expectStack(Int(1), Int(2)),
		shTest("shadowing a builtin").
			eval(`: + - ;`, `10 3 +`).
			expectStack(Int(7)),
		shTest("quoted literals survive").
			eval(`: greet "hello" ;`, `greet`).
			expectStack(Str("hello")),
		shTest("control flow in body").
			eval(`: abs dup 0 < if 0 swap - then ;`, `-4 abs 4 abs`).
			expectStack(Int(4), Int(4)),
		shTest("loop in body").
			eval(`: thrice 0 3 do dup loop ;`, `7 thrice`).
			expectStack(Int(7), Int(7), Int(7), Int(7)),
		shTest("unbounded recursion errors").
			eval(`: r r ;`, `r`).
			expectErrorText("call depth exceeded"),
		shTest("stray semicolon").eval(`;`).expectErrorText("; without :"),
	}.run(t)
}

func TestLoopIndexVisibleInCalledWord(t *testing.T) {
	shTest("called word sees caller's loop index").
		eval(`: push-i i ;`, `0 3 do push-i loop`).
		expectStack(Int(0), Int(1), Int(2)).
		run(t)
}

func TestErrorAbortsUnitButKeepsSession(t *testing.T) {
	vm := New()
	ctx := context.Background()
	require.Error(t, vm.Eval(ctx, `1 2 + "x" 1 +`))
	// the successful prefix of the unit already ran
	assert.Equal(t, []Value{Int(3), Str("x"), Int(1)}, vm.stack)

	// session continues: same VM, next unit works
	require.NoError(t, vm.Eval(ctx, `drop drop drop`))
	assert.Empty(t, vm.stack)
}

func TestEvalCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	vm := New()
	err := vm.Eval(ctx, `begin 0 until`)
	assert.ErrorIs(t, err, context.Canceled)
}
