package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmill <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate     Generate enrollment documents from a roster (default)")
	fmt.Fprintln(w, "  sample       Write a sample roster for demos and smoke tests")
	fmt.Fprintln(w, "  countries    List supported countries and billing locales")
	fmt.Fprintln(w, "  doctor       Diagnose browser and environment issues")
	fmt.Fprintln(w, "  completion   Generate shell completion scripts")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docmill help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmill [generate] <roster.json> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a fee receipt PDF and student ID card PNG per roster record.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  roster    Roster JSON file (optional if config has input.roster)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: output)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto, max 8)")
	fmt.Fprintln(w, "      --ops <list>          Documents per record: receipt, id_card")
	fmt.Fprintln(w, "      --batch-timeout <d>   Whole-batch timeout (e.g., 10m)")
	fmt.Fprintln(w, "      --memory-limit <mb>   Memory ceiling for dispatch pacing (0 = off)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Photo Fetching:")
	fmt.Fprintln(w, "      --fetch-timeout <d>   Per-attempt fetch timeout (e.g., 30s)")
	fmt.Fprintln(w, "      --retries <n>         Retries per photo source")
	fmt.Fprintln(w, "      --backoff <d>         Linear backoff base between attempts")
	fmt.Fprintln(w, "      --cache-size <n>      Photo cache entries (0 = default)")
	fmt.Fprintln(w, "      --fallback <url>      Fallback photo URL, tried in order (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --theme <s>           ID card theme: modern, classic, minimal")
	fmt.Fprintln(w, "      --no-qr               Disable the ID card verification QR code")
	fmt.Fprintln(w, "      --render-timeout <d>  Per-document render timeout")
	fmt.Fprintln(w, "      --date-format <s>     Issue date tokens or preset: iso, european, us, long")
	fmt.Fprintln(w, "      --institution <s>     Institution name printed on documents")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-record timing")
}

// printSampleUsage prints usage for the sample command.
func printSampleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmill sample [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a sample roster JSON for demos and smoke tests.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -n, --count <n>           Number of records (default: 10)")
	fmt.Fprintln(w, "  -o, --output <path>       Roster file to write (default: students.json)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "sample":
		printSampleUsage(env.Stdout)
	case "countries":
		fmt.Fprintln(env.Stdout, "Usage: docmill countries")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List supported countries and billing locales.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: docmill doctor")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Diagnose browser and environment issues.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docmill version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docmill help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
