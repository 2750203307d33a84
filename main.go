package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
)

func main() {
	var (
		expr     = flag.String("c", "", "evaluate an expression and exit")
		trace    = flag.Int("trace", -1, "step-trace verbosity (0-3), overrides config")
		debug    = flag.Bool("debug", false, "enable debug logging")
		noRC     = flag.Bool("norc", false, "skip the startup rc file")
		showVers = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVers {
		fmt.Printf("yafsh %s\n", version)
		return
	}

	if err := run(*expr, *trace, *debug, *noRC, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "yafsh: %v\n", err)
		os.Exit(1)
	}
}

func run(expr string, trace int, debug, noRC bool, args []string) error {
	cfg, err := loadConfig(configPath())
	if err != nil {
		return err
	}
	if trace < 0 {
		trace = cfg.Trace
	}

	level := zerolog.Disabled
	if debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	vm := New(
		withOutput(os.Stdout),
		withErrOutput(os.Stderr),
		withLogger(log),
		withTrace(trace),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !noRC {
		if err := loadRC(ctx, vm, cfg.rcPath()); err != nil {
			fmt.Fprintf(os.Stderr, "yafsh: %v\n", err)
		}
	}

	switch {
	case expr != "":
		if err := runScript(ctx, vm, expr); err != nil {
			return err
		}
		if out, ok := vm.PendingOutput(); ok {
			fmt.Print(out)
		}
		return nil

	case len(args) > 0:
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return runScript(ctx, vm, string(src))
	}

	return newREPL(vm, cfg).Run(ctx)
}

// loadRC evaluates the startup file when it exists.
func loadRC(ctx context.Context, vm *VM, path string) error {
	if path == "" {
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := runScript(ctx, vm, string(src)); err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	return nil
}
