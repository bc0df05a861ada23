package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-kiwimark/internal/assets"
	"github.com/alnah/go-kiwimark/internal/config"
)

const defaultAddrHelp = config.DefaultAddr

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kiwimark <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Kiwi files to HTML")
	fmt.Fprintln(w, "  serve      Run the HTTP conversion service")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check configuration and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'kiwimark help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kiwimark convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Kiwi files to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory, or - for stdin (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to each source)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markup:")
	fmt.Fprintln(w, "      --org-mode <s>        Org mode: auto, on, off (default auto)")
	fmt.Fprintln(w, "      --escape-html         Escape HTML in the source (default true)")
	fmt.Fprintln(w, "      --no-normalize        Skip Unicode NFC normalization")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --standalone          Write a complete HTML document")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = first header)")
	fmt.Fprintln(w, "      --css <path>          Stylesheet to inline")
	fmt.Fprintf(w, "      --style <name>        Built-in style: %s\n", strings.Join(assets.Names(), ", "))
	fmt.Fprintln(w, "      --base-url <url>      Resolve relative links against this URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kiwimark serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve conversions over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  POST /v1/convert          Body: Kiwi text. Returns an HTML fragment.")
	fmt.Fprintln(w, "                            Query: org_mode=auto|on|off, escape_html=true|false,")
	fmt.Fprintln(w, "                            standalone=true, title=<s>, style=<name>, base_url=<url>")
	fmt.Fprintln(w, "                            Accept: application/json for a JSON envelope")
	fmt.Fprintln(w, "  GET  /v1/version          Server version")
	fmt.Fprintln(w, "  GET  /v1/styles           Built-in style names")
	fmt.Fprintln(w, "  GET  /health              Liveness check")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintf(w, "      --addr <host:port>    Listen address (default %s)\n", defaultAddrHelp)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log at debug level")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kiwimark config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after applying the config file,")
	fmt.Fprintln(w, "KIWIMARK_* environment variables and defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: kiwimark doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check configuration, environment, and system readiness.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 = ready (warnings allowed), 1 = errors found")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: kiwimark version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: kiwimark help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
