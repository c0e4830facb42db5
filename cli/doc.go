// Package cli contains the command line interface for skoobert.
//
// # Usage
//
// Programs are run by naming their files; "-" (or no file at all) reads
// standard input:
//
//	skoobert prog.sk
//	skoobert run lib.sk main.sk
//	echo 'console.log(1 + 2);' | skoobert
//
// All files named in one invocation share a single global environment, so a
// later file may use the bindings of an earlier one. Bare file names are
// searched for in the working directory and then in each directory of
// --path (or the SKOOBERT_PATH environment variable).
//
// # Commands
//
//   - run: Run programs and print their output (default)
//   - check: Run programs and assert expr-lang predicates over the outputs
//   - fmt: Print programs in canonical form
//   - tokens, ast: Dump the token stream or syntax tree as JSON or YAML
//   - expand: Print symbolic expansions against a program's bindings
//   - repl: Start an interactive session
//   - init: Write the current flag values to the configuration file
//   - version: Print version information
//
// # Configuration File
//
// Flag defaults are read from the "config" section of config.yaml in the
// user configuration directory:
//
//	config:
//	  log-level: debug
//	  max-depth: 65536
//
// Keys may be written with hyphens or underscores. Command line flags take
// precedence over the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o skoobert .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/skoobert/pprof)
//
// # Examples
//
//	# Trace every thunk forced while running a program
//	skoobert --log-level=trace run prog.sk
//
//	# CPU profile of a long-running program
//	skoobert --pprof-mode=cpu run sk.sk
//
//	# Assert over the outputs of a program
//	skoobert check prog.sk -e 'count == 2' -e 'outputs[0] == 42'
package cli
