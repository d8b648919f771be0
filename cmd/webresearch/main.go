package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webresearch/internal/app"
	"github.com/hyperifyio/webresearch/internal/fetch"
	"github.com/hyperifyio/webresearch/internal/installer"
)

const usageText = `Usage: webresearch [global flags] <command> [flags]

Commands:
  serve      run the MCP server on stdio (default)
  install    write agent/skill files for claude or opencode
  search     run multi_search and print its JSON
  fetch      run fetch_pages and print its JSON
  tools      print tool definitions (-format mcp|openai)
  version    print build information

Global flags:
`

func main() {
	// Logging setup; stdout belongs to the MCP protocol
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code: 0 on success,
// 1 on failure, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("webresearch", flag.ContinueOnError)
	global.SetOutput(stderr)
	var flagged app.Config
	app.BindFlags(global, &flagged)
	configPath := global.String("config", os.Getenv("WEBRESEARCH_CONFIG"), "Path to YAML or JSON config file")
	envFiles := global.String("env", ".env", "Comma-separated dotenv files to load (missing files are skipped)")
	global.Usage = func() {
		fmt.Fprint(stderr, usageText)
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := app.LoadEnvFiles(splitList(*envFiles)...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	cmd, rest := "serve", global.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "webresearch %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return 0
	case "install":
		return exitCode(runInstall(rest, stdout, stderr))
	case "help":
		global.Usage()
		return 0
	case "serve", "search", "fetch", "tools":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}

	cfg, err := app.Resolve(global, flagged, *configPath)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		return 1
	}
	defer a.Close()

	switch cmd {
	case "search":
		err = runSearch(ctx, a, rest, stdout, stderr)
	case "fetch":
		err = runFetch(ctx, a, rest, stdout, stderr)
	case "tools":
		err = runTools(a, rest, stdout, stderr)
	default:
		err = a.Serve(ctx)
	}
	return exitCode(err)
}

var errUsage = errors.New("usage")

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		log.Error().Err(err).Msg("invalid arguments")
		return 2
	default:
		log.Error().Err(err).Msg("command failed")
		return 1
	}
}

func runInstall(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(stderr)
	target := fs.String("target", "claude", "Target platform: claude or opencode")
	dir := fs.String("dir", ".", "Project root to install into")
	name := fs.String("name", installer.DefaultName, "Agent name")
	description := fs.String("description", installer.DefaultDescription, "Agent description")
	force := fs.Bool("force", false, "Overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return usageErr(err)
	}
	paths, err := installer.Install(installer.Options{
		Target:      *target,
		Dir:         *dir,
		Name:        *name,
		Description: *description,
		Force:       *force,
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	log.Info().Str("target", *target).Int("files", len(paths)).Msg("installed")
	return nil
}

func runSearch(ctx context.Context, a *app.App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 0, "Results per query (default from config)")
	if err := fs.Parse(args); err != nil {
		return usageErr(err)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "search: at least one query is required")
		return errUsage
	}
	out, err := a.Search(ctx, fs.Args(), *n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

func runFetch(ctx context.Context, a *app.App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	maxChars := fs.Int("max-chars", 0, "Maximum characters per page (default from config)")
	timeout := fs.Duration("timeout", 0, "Per-page timeout (default from config)")
	pdfPath := fs.String("pdf", "", "Also write a PDF digest of the fetched pages to this path")
	if err := fs.Parse(args); err != nil {
		return usageErr(err)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "fetch: at least one URL is required")
		return errUsage
	}
	res, err := a.Fetch(ctx, fs.Args(), fetch.Options{MaxChars: *maxChars, Timeout: *timeout})
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(stdout, string(b)); err != nil {
		return err
	}
	if *pdfPath != "" {
		if err := app.WriteDigestPDF(res, fs.Args(), *pdfPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", *pdfPath).Msg("wrote PDF digest")
	}
	return nil
}

func runTools(a *app.App, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tools", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", app.FormatMCP, "Output format: mcp or openai")
	if err := fs.Parse(args); err != nil {
		return usageErr(err)
	}
	b, err := a.ToolDefinitions(*format)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	_, err = fmt.Fprintln(stdout, string(b))
	return err
}

func usageErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
