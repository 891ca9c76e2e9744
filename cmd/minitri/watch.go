package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/agenthands/minitri/pkg/stdlib"
	"github.com/agenthands/minitri/pkg/watch"
)

func cmdWatch(args []string) int {
	fs := newFlagSet("watch")
	configPath := fs.String("config", "", "TOML configuration file")
	pattern := fs.String("pattern", "", "glob matched against file names (default from config)")
	inputPath := fs.String("input", "", "getint values for every run")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s watch [-config file] [-pattern glob] <dir>\n", appName)
		return 2
	}

	e, err := setup(*configPath)
	if err != nil {
		printError(os.Stderr, "", err)
		return 1
	}
	if *pattern == "" {
		*pattern = e.cfg.Watch.Pattern
	}

	var input []byte
	if *inputPath != "" {
		if input, err = os.ReadFile(*inputPath); err != nil {
			printError(os.Stderr, *inputPath, err)
			return 1
		}
	}

	root := fs.Arg(0)
	sb, err := stdlib.NewSandbox(root, e.cfg.Limits.MaxFileSize)
	if err != nil {
		printError(os.Stderr, root, err)
		return 1
	}

	runAll := func(paths []string) {
		for _, path := range paths {
			rel, _ := filepath.Rel(sb.Root, path)
			fmt.Println(statusStyle.Render("── " + rel))

			src, err := sb.ReadFile(path)
			if err != nil {
				printError(os.Stderr, rel, err)
				continue
			}
			console := stdlib.NewConsole(bytes.NewReader(input), os.Stdout)
			if err := e.runner.Execute(src, console); err != nil {
				printError(os.Stderr, rel, err)
				continue
			}
			fmt.Println(successStyle.Render("ok"))
		}
	}

	w, err := watch.New(*pattern, e.cfg.Watch.Debounce, e.logger, runAll)
	if err != nil {
		printError(os.Stderr, "", err)
		return 1
	}
	defer w.Close()

	existing, err := w.Existing(sb.Root)
	if err != nil {
		printError(os.Stderr, root, err)
		return 1
	}
	runAll(existing)

	if err := w.Watch(sb.Root); err != nil {
		printError(os.Stderr, root, err)
		return 1
	}
	e.logger.Info("watching", "dir", sb.Root, "pattern", *pattern)
	fmt.Println(statusStyle.Render("watching " + strings.TrimSuffix(root, "/") + " for " + *pattern + "; Ctrl+C stops"))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc
	return 0
}
