package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agenthands/minitri/pkg/compiler/backend"
	"github.com/agenthands/minitri/pkg/stdlib"
)

func cmdRun(args []string) int {
	fs := newFlagSet("run")
	configPath := fs.String("config", "", "TOML configuration file")
	inputPath := fs.String("input", "", "read getint values from this file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-config file] [-input file] <file.mt>\n", appName)
		return 2
	}

	e, err := setup(*configPath)
	if err != nil {
		printError(os.Stderr, "", err)
		return 1
	}

	file := fs.Arg(0)
	src, err := readSource(file, e.cfg.Limits.MaxFileSize)
	if err != nil {
		printError(os.Stderr, file, err)
		return 1
	}

	var in io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			printError(os.Stderr, *inputPath, err)
			return 1
		}
		defer f.Close()
		in = f
	}

	if err := e.runner.Execute(src, stdlib.NewConsole(in, os.Stdout)); err != nil {
		printError(os.Stderr, file, err)
		return 1
	}
	return 0
}

func cmdDump(args []string) int {
	fs := newFlagSet("dump")
	format := fs.String("format", "source", "output backend: source or yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s dump [-format source|yaml] <file.mt>\n", appName)
		return 2
	}

	b, err := backend.Lookup(*format)
	if err != nil {
		printError(os.Stderr, "", err)
		return 2
	}

	e, err := setup("")
	if err != nil {
		printError(os.Stderr, "", err)
		return 1
	}

	file := fs.Arg(0)
	src, err := readSource(file, e.cfg.Limits.MaxFileSize)
	if err != nil {
		printError(os.Stderr, file, err)
		return 1
	}
	prog, err := e.runner.Compile(src)
	if err != nil {
		printError(os.Stderr, file, err)
		return 1
	}
	if err := b.Emit(os.Stdout, prog); err != nil {
		printError(os.Stderr, file, err)
		return 1
	}
	return 0
}

// readSource reads the program named on the command line. The sandbox is
// rooted at the file's own directory, so it only enforces the size cap.
func readSource(path string, limit int64) ([]byte, error) {
	sb, err := stdlib.NewSandbox(filepath.Dir(path), limit)
	if err != nil {
		return nil, err
	}
	return sb.ReadFile(filepath.Base(path))
}
