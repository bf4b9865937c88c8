/*
Package main implements the wordlex HTTP service and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordlex serves three lexical query families over plain HTTP: fixed-length
pattern matching against a wordlist, constrained anagram search, and
WordNet dictionary/related-word lookup via morphological analysis.

# Usage

Start the server with default settings:

	wordlex

Report a custom data directory at startup and enable debug mode (the
wordlist and WordNet files are read from the paths in the config, not
from -data):

	wordlex -data /path/to/dictionaries -d

Run in CLI mode for interactive testing without HTTP:

	wordlex -c

# Configuration

Runtime configuration is managed through a TOML file with environment
variable overrides for deployment:

	[server]
	host = "127.0.0.1"
	port = 8080
	max_page_size = 100
	rate_limit_rps = 5
	rate_limit_burst = 20

	[wordlist]
	path = "data/wordlist.txt"
	max_len = 25

	[wordnet]
	dir = "data/wordnet"
	load_mode = "owned"

The config file is automatically created with defaults if it doesn't exist.

# HTTP Surface

	GET /v1/matches?pattern=c_t&must_include=a
	GET /v1/anagrams?letters=tac
	GET /v1/wordnet/dictionary?word=running&pos=v
	GET /v1/wordnet/related?word=dog
	GET /healthz
	GET /robots.txt
*/
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wordlex/wordlex/internal/cli"
	"github.com/wordlex/wordlex/internal/utils"
	"github.com/wordlex/wordlex/pkg/config"
	"github.com/wordlex/wordlex/pkg/httpapi"
	"github.com/wordlex/wordlex/pkg/morphy"
	"github.com/wordlex/wordlex/pkg/query"
	"github.com/wordlex/wordlex/pkg/wordlist"
	"github.com/wordlex/wordlex/pkg/wordnet"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordlex"
	gh      = "https://github.com/wordlex/wordlex"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing wordlist.txt and the WordNet data files")
	configPathFlag := flag.String("config", "", "Path to config.toml (default: platform config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI debug REPL instead of the HTTP server")
	noCache := flag.Bool("no-cache", false, "Disable Cache-Control headers on responses")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			log.Warnf("Ignoring invalid LOG_LEVEL=%q: %v", lvl, err)
			parsed = log.InfoLevel
		}
		log.SetLevel(parsed)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	resolvedDataDir, err := pathResolver.GetDataDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to resolve data dir: %v", err)
	}
	log.Debugf("Using data dir at: %s", resolvedDataDir)

	cfg, activePath, err := config.LoadConfigWithPriority(*configPathFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: %s", activePath)

	service, err := buildService(cfg)
	if err != nil {
		log.Fatalf("Failed to build query service: %v", err)
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		repl := cli.NewQueryREPL(service)
		if err := repl.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	handler := httpapi.NewHandler(service, *noCache)
	rateLimiter := httpapi.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	router := httpapi.NewRouter(handler, rateLimiter)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	showStartupInfo(addr, resolvedDataDir)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildService loads the wordlist index, WordNet dictionary and Morphy
// exception tables described by cfg into a ready-to-query service.
func buildService(cfg *config.Config) (*query.Service, error) {
	idx, err := wordlist.LoadOrBuild(cfg.Wordlist.Path, cfg.Wordlist.CachePath, cfg.Wordlist.MaxLen)
	if err != nil {
		return nil, fmt.Errorf("load wordlist: %w", err)
	}

	loadMode := wordnet.Owned
	if cfg.WordNet.LoadMode == "mmap" {
		loadMode = wordnet.Mmap
	}
	dict, err := wordnet.Load(cfg.WordNet.Dir, loadMode)
	if err != nil {
		return nil, fmt.Errorf("load wordnet: %w", err)
	}

	morph, err := morphy.Load(cfg.WordNet.Dir)
	if err != nil {
		return nil, fmt.Errorf("load morphy exceptions: %w", err)
	}

	maxPageSize := cfg.Server.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = query.DefaultPageSize
	}

	return &query.Service{
		Index:       idx,
		WordNet:     dict,
		Morphy:      morph,
		MaxPageSize: maxPageSize,
	}, nil
}

// printVersion prints a short version banner styled with lipgloss.
func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordlex ] Pattern, anagram and WordNet lookups over HTTP")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(addr, dataDir string) {
	pid := os.Getpid()
	println("===========")
	println(" wordlex ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data dir: ( %s )", dataDir)
	log.Infof("listening on: http://%s", addr)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
