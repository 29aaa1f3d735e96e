// This is the main-driver for our compiler.
//
// It reads a single expression-and-statement program from its
// command-line argument, compiles it, and writes the resulting
// x86-64 assembly (Intel syntax, System V AMD64 calling convention)
// to standard output.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/fatih/color"

	"github.com/benhoyle/ninecc/ast"
	"github.com/benhoyle/ninecc/codegen"
	"github.com/benhoyle/ninecc/diagnostics"
	"github.com/benhoyle/ninecc/lexer"
	"github.com/benhoyle/ninecc/parser"
	"github.com/benhoyle/ninecc/token"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run implements the whole driver and returns the process exit code,
// so tests can exercise it without touching the real os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ninecc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dumpTokens := fs.Bool("dump-tokens", false, "Print the scanned tokens to stderr before compiling.")
	dumpAST := fs.Bool("dump-ast", false, "Pretty-print the parsed program to stderr before compiling.")
	trace := fs.Bool("trace", false, "Print the name of each pipeline stage to stderr as it runs.")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	//
	// Ensure we have an expression-and-statement program as our
	// single positional argument.
	//
	if len(fs.Args()) != 1 {
		fmt.Fprintf(stderr, "Usage: ninecc [flags] 'program'\n")
		return 1
	}
	source := fs.Args()[0]

	if *dumpTokens {
		dumpAllTokens(source, stderr)
	}

	if *trace {
		fmt.Fprintln(stderr, "# scanning and parsing")
	}
	prog, err := parser.Parse(source)
	if err != nil {
		report(stderr, err)
		return 1
	}

	if err := requireMain(prog); err != nil {
		report(stderr, err)
		return 1
	}

	if *dumpAST {
		fmt.Fprintln(stderr, repr.String(prog, repr.Indent("  ")))
	}

	if *trace {
		fmt.Fprintln(stderr, "# generating assembly")
	}
	out, err := codegen.Generate(prog)
	if err != nil {
		report(stderr, err)
		return 1
	}

	fmt.Fprint(stdout, out)
	return 0
}

// requireMain enforces spec.md §3's program invariant: at least one
// function definition must be named "main".
func requireMain(prog *ast.Program) error {
	for _, fn := range prog.Funcs {
		if fn.Name == "main" {
			return nil
		}
	}
	return diagnostics.New("no function named \"main\" was found")
}

// dumpAllTokens re-lexes source (lexing is cheap and side-effect free)
// purely to print each token for -dump-tokens; the parser does its
// own, independent tokenize pass.
func dumpAllTokens(source string, stderr io.Writer) {
	lx := lexer.New(source)
	for {
		tok, err := lx.NextToken()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return
		}
		fmt.Fprintf(stderr, "# token: %s\n", tok.String())
		if tok.Kind == token.EOF {
			return
		}
	}
}

// report prints a compiler diagnostic to stderr, colorizing the
// "error:" prefix when stderr is a real terminal (fatih/color detects
// this itself and respects NO_COLOR).
func report(stderr io.Writer, err error) {
	fmt.Fprintf(stderr, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err.Error())
}
