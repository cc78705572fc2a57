// Command jsonfmt formats and verifies JSON documents.
//
// Stable ABI:
//
//	jsonfmt format [--pretty] [--allow-nan] [file|-]
//	jsonfmt verify [--quiet] [--allow-nan] [file|-]
//	jsonfmt --help
//	jsonfmt --version
//
// Exit codes: 0 (success), 2 (input/grammar/usage), 10 (internal/IO).
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lattice-substrate/gojson/jsonalloc"
	"github.com/lattice-substrate/gojson/jsonerr"
	"github.com/lattice-substrate/gojson/jsonvalue"
	"github.com/lattice-substrate/gojson/jsonwriter"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 1 {
		switch args[0] {
		case "--help", "-h":
			_ = writeGlobalHelp(stdout)
			return 0
		case "--version":
			_ = writeVersion(stdout)
			return 0
		}
	}

	if len(args) == 0 {
		_ = writeGlobalHelp(stderr)
		return jsonerr.CLIUsage.ExitCode()
	}

	switch args[0] {
	case "format":
		return cmdFormat(args[1:], stdin, stdout, stderr)
	case "verify":
		return cmdVerify(args[1:], stdin, stderr)
	default:
		_ = writef(stderr, "unknown command: %s\n", args[0])
		_ = writeGlobalHelp(stderr)
		return jsonerr.CLIUsage.ExitCode()
	}
}

type flags struct {
	quiet     bool
	pretty    bool
	allowNan  bool
	help      bool
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for _, arg := range args {
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		switch arg {
		case "--quiet", "-q":
			f.quiet = true
		case "--pretty", "-p":
			f.pretty = true
		case "--allow-nan":
			f.allowNan = true
		case "--help", "-h":
			f.help = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, fmt.Errorf("unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func cmdFormat(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, jsonerr.CLIUsage.ExitCode(), "error: %v\n", err)
	}
	if fl.help {
		_ = writeFormatHelp(stderr)
		return 0
	}
	if exitCode, ok := ensureSingleInput(positional, stderr); ok {
		return exitCode
	}

	input, rerr := readInput(positional, stdin, jsonvalue.DefaultMaxInputSize)
	if rerr != nil {
		return writeClassifiedError(stderr, rerr)
	}

	readOpts := &jsonvalue.ReadOptions{}
	if fl.allowNan {
		readOpts.Flags |= jsonvalue.AllowInfAndNaN
	}
	val, perr := jsonvalue.ParseWithOptions(input, readOpts)
	if perr != nil {
		return writeClassifiedError(stderr, perr)
	}

	var writeFlags jsonwriter.Flags
	if fl.pretty {
		writeFlags |= jsonwriter.Pretty
	}
	if fl.allowNan {
		writeFlags |= jsonwriter.AllowInfAndNaN
	}

	var alloc jsonalloc.System
	out, werr := jsonwriter.Write(&val, writeFlags, &alloc)
	if werr != nil {
		return writeClassifiedError(stderr, werr)
	}

	if _, err := stdout.Write(out); err != nil {
		return writeErrorAndReturn(stderr, jsonerr.FileWrite.ExitCode(), "error: writing output: %v\n", err)
	}
	return 0
}

func cmdVerify(args []string, stdin io.Reader, stderr io.Writer) int {
	fl, positional, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, jsonerr.CLIUsage.ExitCode(), "error: %v\n", err)
	}
	if fl.help {
		_ = writeVerifyHelp(stderr)
		return 0
	}
	if exitCode, ok := ensureSingleInput(positional, stderr); ok {
		return exitCode
	}

	input, rerr := readInput(positional, stdin, jsonvalue.DefaultMaxInputSize)
	if rerr != nil {
		return writeClassifiedError(stderr, rerr)
	}

	readOpts := &jsonvalue.ReadOptions{}
	if fl.allowNan {
		readOpts.Flags |= jsonvalue.AllowInfAndNaN
	}
	if _, perr := jsonvalue.ParseWithOptions(input, readOpts); perr != nil {
		return writeClassifiedError(stderr, perr)
	}

	if !fl.quiet {
		_ = writeLine(stderr, "ok")
	}
	return 0
}

// writeClassifiedError extracts *jsonerr.Error if possible and uses its exit code.
func writeClassifiedError(stderr io.Writer, err error) int {
	var je *jsonerr.Error
	if errors.As(err, &je) {
		_ = writef(stderr, "error: %v\n", err)
		return je.Class.ExitCode()
	}
	return writeErrorAndReturn(stderr, jsonerr.InternalError.ExitCode(), "error: %v\n", err)
}

func readInput(positional []string, stdin io.Reader, maxInputSize int) ([]byte, error) {
	if len(positional) == 0 || positional[0] == "-" {
		return readBounded(stdin, maxInputSize)
	}

	f, err := os.Open(positional[0])
	if err != nil {
		return nil, jsonerr.Wrap(jsonerr.CLIUsage, -1, fmt.Sprintf("read file %q", positional[0]), err)
	}
	defer func() { _ = f.Close() }()

	data, err := readBounded(f, maxInputSize)
	if err != nil {
		var je *jsonerr.Error
		if errors.As(err, &je) && je.Class == jsonerr.BoundExceeded {
			return nil, err
		}
		return nil, jsonerr.Wrap(jsonerr.CLIUsage, -1, fmt.Sprintf("read file %q", positional[0]), err)
	}
	return data, nil
}

func readBounded(r io.Reader, maxInputSize int) ([]byte, error) {
	lr := io.LimitReader(r, int64(maxInputSize)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, jsonerr.Wrap(jsonerr.FileWrite, -1, "read input stream", err)
	}
	if len(data) > maxInputSize {
		return nil, jsonerr.New(jsonerr.BoundExceeded, 0,
			fmt.Sprintf("input exceeds maximum size %d bytes", maxInputSize))
	}
	return data, nil
}

func ensureSingleInput(positional []string, stderr io.Writer) (int, bool) {
	if len(positional) <= 1 {
		return 0, false
	}
	_ = writeLine(stderr, "error: multiple input files specified")
	return jsonerr.CLIUsage.ExitCode(), true
}

func writeErrorAndReturn(stderr io.Writer, code int, format string, args ...any) int {
	_ = writef(stderr, format, args...)
	return code
}

func writeFormatHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: jsonfmt format [--pretty] [--allow-nan] [file|-]"); err != nil {
		return err
	}
	if err := writeLine(stderr, "  Read JSON from file (or stdin), emit re-serialized bytes to stdout."); err != nil {
		return err
	}
	if err := writeLine(stderr, "  --pretty      4-space indented, multi-line output"); err != nil {
		return err
	}
	return writeLine(stderr, "  --allow-nan   Permit NaN/Infinity/-Infinity literals on input and output")
}

func writeGlobalHelp(w io.Writer) error {
	if err := writeLine(w, "usage: jsonfmt <format|verify> [options] [file|-]"); err != nil {
		return err
	}
	if err := writeLine(w, "       jsonfmt --help"); err != nil {
		return err
	}
	if err := writeLine(w, "       jsonfmt --version"); err != nil {
		return err
	}
	if err := writeLine(w, "commands: format, verify"); err != nil {
		return err
	}
	return writeLine(w, "flags: --help, -h, --version")
}

func writeVersion(w io.Writer) error {
	return writeLine(w, "jsonfmt "+version)
}

func writeVerifyHelp(stderr io.Writer) error {
	if err := writeLine(stderr, "usage: jsonfmt verify [--quiet] [--allow-nan] [file|-]"); err != nil {
		return err
	}
	return writeLine(stderr, "  Parse input and report whether it is well-formed JSON.")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}

var version = "v0.0.0-dev"
