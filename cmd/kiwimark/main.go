package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-kiwimark/internal/config"
	"github.com/alnah/go-kiwimark/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Configure GOMAXPROCS before worker sizing; logs only with --verbose.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(os.Args, env.Stderr)))

	os.Exit(runMain(os.Args, env))
}

// maxprocsLogger returns a printf-style logger that writes to w when the
// command line asks for verbose output, and discards otherwise.
func maxprocsLogger(args []string, w io.Writer) func(string, ...interface{}) {
	if !slices.Contains(args, "-v") && !slices.Contains(args, "--verbose") {
		return func(string, ...interface{}) {}
	}
	return func(format string, a ...interface{}) {
		fmt.Fprintf(w, format+"\n", a...)
	}
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that looks like an input file runs convert.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "serve":
		return runServeCmd(rest, env)
	case "config":
		return runConfigCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "kiwimark %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	}

	if looksLikeInput(cmd) {
		return runConvertCmd(args[1:], env)
	}

	fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// looksLikeInput reports whether arg names an input rather than a command:
// stdin, a path, or a file with a default input extension.
func looksLikeInput(arg string) bool {
	if arg == stdinPath {
		return true
	}
	if fileutil.IsFilePath(arg) {
		return true
	}
	return fileutil.HasExtension(arg, config.DefaultInputExtensions)
}
