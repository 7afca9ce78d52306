package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.json")
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"theme": {Values: []string{"modern", "classic", "minimal"}},
	"ops":   {Values: []string{"receipt", "id_card"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// buildGenerateFlagSet creates a FlagSet with all generate command flags.
// This reuses the same flag registration as parseGenerateFlags.
func buildGenerateFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")

	// Flag groups - same as parseGenerateFlags
	addCommonFlags(fs, &f.common)
	addBatchFlags(fs, &f.batch)
	addFetchFlags(fs, &f.fetch)
	addRenderFlags(fs, &f.render)

	return fs
}

// buildSampleFlagSet creates a FlagSet with all sample command flags.
func buildSampleFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	f := &sampleFlags{}

	fs.IntVarP(&f.count, "count", "n", 10, "number of records to generate")
	fs.StringVarP(&f.output, "output", "o", "students.json", "roster file to write")

	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets - single source of truth.
func getCommands() []commandDef {
	generateFlags := extractFlagsFromFlagSet(buildGenerateFlagSet())
	sampleFlags := extractFlagsFromFlagSet(buildSampleFlagSet())

	return []commandDef{
		{
			Name:        "generate",
			Desc:        "Generate enrollment documents from a roster",
			Flags:       generateFlags,
			TakesFiles:  true,
			FilePattern: "*.json",
		},
		{
			Name:  "sample",
			Desc:  "Write a sample roster for demos and smoke tests",
			Flags: sampleFlags,
		},
		{
			Name:  "countries",
			Desc:  "List supported countries and billing locales",
			Flags: nil,
		},
		{
			Name:  "doctor",
			Desc:  "Diagnose browser and environment issues",
			Flags: nil,
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Flags: nil,
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Flags: nil,
		},
	}
}

// mergedFlags returns the unique flags across all commands in first-seen
// order. Bash and PowerShell complete flags without tracking which command
// is active, so they work from the merged set.
func mergedFlags(commands []commandDef) []flagDef {
	seen := map[string]bool{}
	var merged []flagDef
	for _, cmd := range commands {
		for _, f := range cmd.Flags {
			if seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			merged = append(merged, f)
		}
	}
	return merged
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docmill completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(docmill completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(docmill completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    docmill completion fish > ~/.config/fish/completions/docmill.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    docmill completion powershell | Out-String | Invoke-Expression")
}

// generateBash writes a bash completion script built from the command
// registry. Flag values complete through compgen; roster paths complete
// as files.
func generateBash(w io.Writer) error {
	commands := getCommands()

	var names []string
	for _, cmd := range commands {
		names = append(names, cmd.Name)
	}

	var b strings.Builder
	b.WriteString("# bash completion for docmill\n")
	b.WriteString("_docmill_completions() {\n")
	b.WriteString("    local cur prev commands\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	fmt.Fprintf(&b, "    commands=%q\n\n", strings.Join(names, " "))

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"${commands}\" -- \"${cur}\") )\n")
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${prev}\" in\n")
	b.WriteString("        completion)\n")
	b.WriteString("            COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"${cur}\") )\n")
	b.WriteString("            return 0\n")
	b.WriteString("            ;;\n")
	for _, f := range mergedFlags(commands) {
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        --%s)\n", f.Long)
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(f.Values, " "))
			b.WriteString("            return 0\n")
			b.WriteString("            ;;\n")
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n", bashFlagPattern(f))
			b.WriteString("            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n")
			b.WriteString("            return 0\n")
			b.WriteString("            ;;\n")
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n", bashFlagPattern(f))
			b.WriteString("            COMPREPLY=( $(compgen -d -- \"${cur}\") )\n")
			b.WriteString("            return 0\n")
			b.WriteString("            ;;\n")
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ \"${cur}\" == -* ]]; then\n")
	var longs []string
	for _, f := range mergedFlags(commands) {
		longs = append(longs, "--"+f.Long)
	}
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(longs, " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    COMPREPLY=( $(compgen -f -- \"${cur}\") )\n")
	b.WriteString("    return 0\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _docmill_completions docmill\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// bashFlagPattern returns the case pattern matching a flag's long and
// short spellings, e.g. "--output|-o".
func bashFlagPattern(f flagDef) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return fmt.Sprintf("--%s|-%s", f.Long, f.Short)
}

// generateZsh writes a zsh completion script built from the command registry.
func generateZsh(w io.Writer) error {
	commands := getCommands()

	var b strings.Builder
	b.WriteString("#compdef docmill\n\n")

	b.WriteString("_docmill() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    _arguments -C \\\n")
	b.WriteString("        '1: :->command' \\\n")
	b.WriteString("        '*: :->args'\n\n")

	b.WriteString("    case $state in\n")
	b.WriteString("        command)\n")
	b.WriteString("            _describe 'command' commands\n")
	b.WriteString("            ;;\n")
	b.WriteString("        args)\n")
	b.WriteString("            case $words[2] in\n")
	b.WriteString("                completion)\n")
	b.WriteString("                    _values 'shell' bash zsh fish powershell\n")
	b.WriteString("                    ;;\n")
	b.WriteString("                *)\n")
	b.WriteString("                    _docmill_flags\n")
	b.WriteString("                    ;;\n")
	b.WriteString("            esac\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")

	b.WriteString("_docmill_flags() {\n")
	b.WriteString("    _arguments \\\n")
	for _, f := range mergedFlags(commands) {
		fmt.Fprintf(&b, "        '%s' \\\n", zshFlagSpec(f))
	}
	b.WriteString("        '*:roster:_files -g \"*.json\"'\n")
	b.WriteString("}\n\n")

	b.WriteString("_docmill \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec for a flag.
func zshFlagSpec(f flagDef) string {
	spec := "--" + f.Long + "[" + f.Desc + "]"

	switch f.Type {
	case flagBool:
		return spec
	case flagEnum:
		return spec + ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		return spec + ":file:_files"
	case flagDir:
		return spec + ":directory:_files -/"
	case flagInt:
		return spec + ":number:"
	default:
		return spec + ":value:"
	}
}

// generateFish writes a fish completion script built from the command
// registry. Fish binds flags per command, so each command's flags only
// complete after its name.
func generateFish(w io.Writer) error {
	commands := getCommands()

	var b strings.Builder
	b.WriteString("# fish completion for docmill\n\n")

	b.WriteString("function __fish_docmill_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")

	b.WriteString("function __fish_docmill_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")

	b.WriteString("complete -c docmill -f\n\n")

	for _, cmd := range commands {
		fmt.Fprintf(&b, "complete -c docmill -n __fish_docmill_needs_command -a %s -d '%s'\n", cmd.Name, cmd.Desc)
	}
	b.WriteString("\n")

	for _, cmd := range commands {
		cond := fmt.Sprintf("__fish_docmill_using_command %s", cmd.Name)
		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, "complete -c docmill -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -d '%s'", f.Desc)
			switch f.Type {
			case flagBool:
				// no argument
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -r")
			}
			b.WriteString("\n")
		}
		if cmd.TakesFiles {
			fmt.Fprintf(&b, "complete -c docmill -n '%s' -k -a '(__fish_complete_suffix .json)'\n", cond)
		}
	}
	b.WriteString("\n")

	b.WriteString("complete -c docmill -n '__fish_docmill_using_command completion' -x -a 'bash zsh fish powershell'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generatePowerShell writes a PowerShell completion script built from the
// command registry.
func generatePowerShell(w io.Writer) error {
	commands := getCommands()

	var b strings.Builder
	b.WriteString("# powershell completion for docmill\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName docmill -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = @(\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "        [System.Management.Automation.CompletionResult]::new('%s', '%s', 'ParameterValue', '%s')\n",
			cmd.Name, cmd.Name, cmd.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    $flags = @(\n")
	for _, f := range mergedFlags(commands) {
		fmt.Fprintf(&b, "        [System.Management.Automation.CompletionResult]::new('--%s', '--%s', 'ParameterName', '%s')\n",
			f.Long, f.Long, f.Desc)
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if ($wordToComplete -like '-*') {\n")
	b.WriteString("        $flags | Where-Object { $_.CompletionText -like \"$wordToComplete*\" }\n")
	b.WriteString("    } else {\n")
	b.WriteString("        $commands | Where-Object { $_.CompletionText -like \"$wordToComplete*\" }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
