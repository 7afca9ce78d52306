package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain wires the production environment and maps errors to exit codes.
func realMain(args []string) int {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	// Ctrl+C cancels the batch: in-flight records finish, the rest are
	// reported as not attempted.
	ctx, stop := notifyContext(context.Background())
	defer stop()

	env := DefaultEnv()
	if err := run(ctx, args, env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}

	return ExitSuccess
}

// run dispatches to the requested command. Unrecognized first arguments
// fall through to generate, so "docmill students.json" works bare.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) > 0 {
		switch args[0] {
		case "generate":
			args = args[1:]
		case "sample":
			flags, err := parseSampleFlags(args[1:])
			if err != nil {
				return suppressHelp(err)
			}
			return runSample(flags, env)
		case "countries":
			return runCountries(env)
		case "doctor":
			return runDoctor(args[1:], env)
		case "completion":
			return runCompletion(args[1:], env)
		case "version", "--version":
			fmt.Fprintf(env.Stdout, "docmill %s\n", Version)
			return nil
		case "help":
			runHelp(args[1:], env)
			return nil
		case "-h", "--help":
			printUsage(env.Stdout)
			return nil
		}
	}

	flags, positional, err := parseGenerateFlags(args)
	if err != nil {
		return suppressHelp(err)
	}

	return runGenerate(ctx, positional, flags, env)
}

// suppressHelp treats an explicit help request as success. The FlagSet
// already printed usage before returning ErrHelp.
func suppressHelp(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// hasVerboseFlag peeks at raw args before any FlagSet parses them.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
