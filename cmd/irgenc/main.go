// Command irgenc is a thin driver over the lowering core: it reads a
// typed AST encoded as JSON, lowers it, and prints the resulting LLVM
// IR. It is not part of the lowering core itself (spec §6); parsing,
// type inference and optimization remain out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/emberlang/irgen/ir"
	"github.com/emberlang/irgen/lower"
)

var (
	flagOutput = flag.String("o", "", "write IR to `path` instead of stdout")
	flagTarget = flag.String("target", "", "set the module's target triple to `triple`")
	flagExit   = flag.Int64("exit-code", 0, "value main returns after the lowered statements run")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] ast.json\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "irgenc:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	body, err := decodeModule(data)
	if err != nil {
		return err
	}

	builder := ir.NewLLVMBuilder(*flagTarget)
	lowerer := lower.New(builder)

	mod, err := lowerer.LowerModule(body, *flagExit)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *flagOutput != "" {
		f, err := os.Create(*flagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	_, err = fmt.Fprint(out, mod.String())
	return err
}
