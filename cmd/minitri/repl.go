package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/agenthands/minitri/pkg/compiler/parser"
	"github.com/agenthands/minitri/pkg/stdlib"
	"github.com/peterh/liner"
)

const (
	historyFile = ".minitri_history"
	promptMain  = "mt> "
	promptCont  = "... "
	promptInput = "getint> "
)

// lineIO reads getint values through the line editor so the REPL keeps
// control of the terminal.
type lineIO struct {
	ln  *liner.State
	out io.Writer
}

func (l *lineIO) ReadInt() (int64, error) {
	line, err := l.ln.Prompt(promptInput)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, stdlib.ErrNoInput
		}
		return 0, err
	}
	word := strings.TrimSpace(line)
	n, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		return 0, &stdlib.InputError{Word: word, Err: err}
	}
	return n, nil
}

func (l *lineIO) WriteInt(n int64) error {
	_, err := fmt.Fprintln(l.out, n)
	return err
}

func cmdRepl(args []string) int {
	fs := newFlagSet("repl")
	configPath := fs.String("config", "", "TOML configuration file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	e, err := setup(*configPath)
	if err != nil {
		printError(os.Stderr, "", err)
		return 1
	}

	fmt.Println(statusStyle.Render("Mini Triangle REPL. Enter a let program; Ctrl+D exits, :quit too."))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	console := &lineIO{ln: ln, out: os.Stdout}
	for {
		src, ok := readByParseProbe(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return 0
		case strings.HasPrefix(trimmed, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		prog, err := e.runner.Compile([]byte(src))
		if err != nil {
			printError(os.Stderr, "", err)
			continue
		}
		if err := e.runner.Run(prog, console); err != nil {
			printError(os.Stderr, "", err)
			continue
		}
		fmt.Println(successStyle.Render("ok"))
	}
}

// readByParseProbe keeps reading lines while the buffered text is a
// parseable prefix that ran out of tokens.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.Parse([]byte(src)); parser.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
