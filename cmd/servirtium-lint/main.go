// main.go — servirtium-lint: a standalone CLI for validating and diffing
// conversation files outside of a test run. os.Exit wraps a testable
// run(args) function; flags are parsed manually against a usage const.
//
// Usage: servirtium-lint <path> [--diff <other-path>] [--format human|json]
//
// Exit codes:
//
//	0 = valid (and, with --diff, unchanged)
//	1 = parse error or diff found
//	2 = usage error
package main

import (
	"fmt"
	"os"

	"github.com/dev-console/servirtium-go/internal/markdown"
)

const usageText = `servirtium-lint — validate and diff conversation files

Usage:
  servirtium-lint <path> [--diff <other-path>] [--format human|json]

Flags:
  --diff <path>          Compare <path> against another conversation file
  --format <human|json>  Output format (default: human)
  --help                 Show this help
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usageText)
		return 2
	}

	var path, diffPath, format string
	format = "human"

	positional := 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			fmt.Print(usageText)
			return 0
		case "--diff":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "servirtium-lint: --diff requires a path")
				return 2
			}
			i++
			diffPath = args[i]
		case "--format":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "servirtium-lint: --format requires a value")
				return 2
			}
			i++
			format = args[i]
		default:
			if positional > 0 {
				fmt.Fprintf(os.Stderr, "servirtium-lint: unexpected argument %q\n", args[i])
				return 2
			}
			path = args[i]
			positional++
		}
	}

	if path == "" {
		fmt.Fprint(os.Stderr, usageText)
		return 2
	}

	data, err := markdown.NewFileStore(path).Load()
	if err != nil {
		report(format, false, fmt.Sprintf("parse error: %v", err))
		return 1
	}

	if diffPath == "" {
		report(format, true, fmt.Sprintf("%s: %d interactions, valid", path, len(data)))
		return 0
	}

	other, err := markdown.NewFileStore(diffPath).Load()
	if err != nil {
		report(format, false, fmt.Sprintf("parse error in %s: %v", diffPath, err))
		return 1
	}
	if err := markdown.Compare(other, data); err != nil {
		report(format, false, err.Error())
		return 1
	}
	report(format, true, fmt.Sprintf("%s and %s are equivalent", path, diffPath))
	return 0
}

func report(format string, ok bool, message string) {
	if format == "json" {
		fmt.Printf("{\"ok\":%t,\"message\":%q}\n", ok, message)
		return
	}
	if ok {
		fmt.Println(message)
	} else {
		fmt.Fprintln(os.Stderr, message)
	}
}
