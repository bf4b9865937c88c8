/*
Package main implements wordlexctl, a local debug CLI for the lexical
query service. It loads the same wordlist index, WordNet dictionary and
Morphy tables the HTTP server uses, and lets you issue queries directly
against pkg/query.Service without a network round trip.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wordlex/wordlex/internal/cli"
	"github.com/wordlex/wordlex/internal/utils"
	"github.com/wordlex/wordlex/pkg/config"
	"github.com/wordlex/wordlex/pkg/morphy"
	"github.com/wordlex/wordlex/pkg/query"
	"github.com/wordlex/wordlex/pkg/wordlist"
	"github.com/wordlex/wordlex/pkg/wordnet"
	"github.com/charmbracelet/log"
)

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	dataDir := flag.String("data", "data/", "Directory containing wordlist.txt and the WordNet data files")
	configPathFlag := flag.String("config", "", "Path to config.toml (default: platform config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")

	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(false)
	} else {
		log.SetLevel(log.ErrorLevel)
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

	if cfg.Wordlist.Path == "" {
		cfg.Wordlist.Path = resolvedDataDir
	}
	if cfg.WordNet.Dir == "" {
		cfg.WordNet.Dir = resolvedDataDir
	}

	idx, err := wordlist.LoadOrBuild(cfg.Wordlist.Path, cfg.Wordlist.CachePath, cfg.Wordlist.MaxLen)
	if err != nil {
		log.Fatalf("Failed to load wordlist: %v", err)
	}

	loadMode := wordnet.Owned
	if cfg.WordNet.LoadMode == "mmap" {
		loadMode = wordnet.Mmap
	}
	dict, err := wordnet.Load(cfg.WordNet.Dir, loadMode)
	if err != nil {
		log.Fatalf("Failed to load wordnet: %v", err)
	}

	morph, err := morphy.Load(cfg.WordNet.Dir)
	if err != nil {
		log.Fatalf("Failed to load morphy exceptions: %v", err)
	}

	maxPageSize := cfg.Server.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = query.DefaultPageSize
	}

	service := &query.Service{
		Index:       idx,
		WordNet:     dict,
		Morphy:      morph,
		MaxPageSize: maxPageSize,
	}

	repl := cli.NewQueryREPL(service)
	if err := repl.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}
