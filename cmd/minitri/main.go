package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/agenthands/minitri/pkg/compiler/lexer"
	"github.com/agenthands/minitri/pkg/compiler/parser"
	"github.com/agenthands/minitri/pkg/config"
	"github.com/agenthands/minitri/pkg/interp"
	"github.com/agenthands/minitri/pkg/metrics"
	"github.com/agenthands/minitri/pkg/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
)

const appName = "minitri"

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "run":
		os.Exit(cmdRun(args))
	case "dump":
		os.Exit(cmdDump(args))
	case "repl":
		os.Exit(cmdRepl(args))
	case "watch":
		os.Exit(cmdWatch(args))
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  %[1]s run [-config file] [-input file] <file.mt>   Run a program.
  %[1]s dump [-format source|yaml] <file.mt>         Print the parsed tree.
  %[1]s repl [-config file]                          Start the REPL.
  %[1]s watch [-config file] [-pattern glob] <dir>   Re-run programs when they change.
`, appName)
}

// env is what every subcommand builds from -config.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	runner *pipeline.Runner
}

func setup(configPath string) (*env, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		go func() {
			logger.Info("serving metrics", "listen", cfg.Metrics.Listen)
			if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.Handler(reg)); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		runner: pipeline.NewRunner(cfg, logger, m),
	}, nil
}

// stage names the phase an error came from.
func stage(err error) string {
	var (
		serr *lexer.ScanError
		perr *parser.ParseError
		rerr *interp.RuntimeError
	)
	switch {
	case errors.As(err, &serr):
		return "scan error"
	case errors.As(err, &perr):
		return "parse error"
	case errors.As(err, &rerr):
		return "runtime error"
	default:
		return "error"
	}
}

func printError(w io.Writer, name string, err error) {
	prefix := stageStyle.Render(stage(err))
	if name != "" {
		prefix = name + ": " + prefix
	}
	fmt.Fprintf(w, "%s: %s\n", prefix, errorStyle.Render(err.Error()))
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}
