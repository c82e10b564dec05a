package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hpungsan/acta/internal/config"
	"github.com/hpungsan/acta/internal/extract"
	"github.com/hpungsan/acta/internal/llm"
	"github.com/hpungsan/acta/internal/logging"
	"github.com/hpungsan/acta/internal/mcp"
	"github.com/hpungsan/acta/internal/metrics"
	"github.com/hpungsan/acta/internal/pipeline"
	"github.com/hpungsan/acta/internal/render"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"template": true, "validate": true, "map": true, "preview": true,
	"render": true, "generate": true, "transcribe": true, "summarize": true,
	"serve": true, "mcp": true, "auth": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
     _    ____ _____  _
    / \  / ___|_   _|/ \
   / _ \| |     | | / _ \
  / ___ \ |___  | |/ ___ \
 /_/   \_\____| |_/_/   \_\

  Actas de juntas de propietarios

  Usage: acta <command> [options]
         acta --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before loading config
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr: stdout carries CLI output and the MCP stdio stream.
	log := logging.New(logging.Config{
		Level:      logging.Level(cfg.Log.Level),
		JSONFormat: cfg.Log.JSON,
		Output:     os.Stderr,
	})

	if err := cfg.ResolveAPIKey(); err != nil {
		log.Warn("config.keyring_unavailable", logging.Err(err))
	}

	rt := newRuntime(cfg, log)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(rt)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'acta --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(rt.pipeline, cfg, Version, log); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges ~/.acta/config.yaml (or $ACTA_CONFIG_DIR), the nearest
// .acta/config.yaml above the working directory and the environment.
func loadConfig() (*config.Config, error) {
	globalDir := os.Getenv("ACTA_CONFIG_DIR")
	if globalDir == "" {
		var err error
		if globalDir, err = config.DefaultDir(); err != nil {
			return nil, err
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	cfg, err := config.LoadWithRepo(globalDir, cwd)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runtime holds everything the commands share.
type runtime struct {
	cfg      *config.Config
	log      logging.Logger
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
	registry *prometheus.Registry
}

// newRuntime builds the pipeline and its collaborators once per process.
// Without an API key the model-backed stages stay unset and report a
// configuration error when used.
func newRuntime(cfg *config.Config, log logging.Logger) *runtime {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	deps := pipeline.Deps{
		Renderer: render.NewChromeRenderer(cfg.Render.ChromePath, cfg.Render.Timeout, log),
		Logger:   log,
		Metrics:  m,
	}
	// A broken header image only fails the commands that build a document.
	header, err := render.LoadHeaderImage(cfg.Render.HeaderImage)
	if err != nil {
		log.Warn("config.header_image_unavailable", logging.Err(err))
		deps.HeaderImageErr = err
	}
	deps.HeaderImage = header
	if cfg.LLM.APIKey != "" {
		client := llm.New(cfg.LLMClient(), log)
		deps.Extractor = extract.New(client, log)
		deps.Transcriber = client
		deps.Summarizer = client
	} else {
		log.Debug("config.no_api_key")
	}

	return &runtime{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline.New(deps),
		metrics:  m,
		registry: reg,
	}
}

// errKeyringUnavailable reports whether err came from a missing OS keyring.
func errKeyringUnavailable(err error) bool {
	return stderrors.Is(err, config.ErrKeyringUnavailable)
}
