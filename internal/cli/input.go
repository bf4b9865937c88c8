// Package cli handles cmd line input for DBG and testing of the lexical
// query service without going through HTTP.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wordlex/wordlex/pkg/query"
	"github.com/charmbracelet/log"
)

// QueryREPL reads query commands from stdin and prints their results
// using the same query.Service the HTTP server is built on.
//
// Supported commands:
//
//	match <pattern> [must=<letters>] [cannot=<letters>]
//	ana <letters> [pattern=<pattern>]
//	dict <word> [pos=<n|v|a|r>]
//	rel <word> [pos=<n|v|a|r>]
type QueryREPL struct {
	service      *query.Service
	requestCount int
}

// NewQueryREPL builds a REPL bound to the given service.
func NewQueryREPL(service *query.Service) *QueryREPL {
	return &QueryREPL{service: service}
}

// Start begins the interface loop. It continuously prompts for a command,
// reads a line from stdin, and dispatches it. The loop terminates if an
// error occurs while reading from stdin.
func (r *QueryREPL) Start() error {
	log.Print("wordlex CLI [BETA]")
	log.Print("commands: match <pattern> | ana <letters> | dict <word> | rel <word> (Ctrl+C to exit)")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.handleLine(line)
	}
}

func (r *QueryREPL) handleLine(line string) {
	r.requestCount++
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	start := time.Now()
	switch cmd {
	case "match", "m":
		r.handleMatch(args)
	case "ana", "a":
		r.handleAnagram(args)
	case "dict", "d":
		r.handleDictionary(args)
	case "rel", "r":
		r.handleRelated(args)
	default:
		log.Errorf("unknown command: %s", cmd)
		return
	}
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), line)
}

func parseKV(args []string) (positional []string, kv map[string]string) {
	kv = make(map[string]string)
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok {
			kv[k] = v
			continue
		}
		positional = append(positional, a)
	}
	return positional, kv
}

func (r *QueryREPL) handleMatch(args []string) {
	positional, kv := parseKV(args)
	if len(positional) == 0 {
		log.Error("usage: match <pattern> [must=<letters>] [cannot=<letters>]")
		return
	}
	result, err := r.service.Matches(query.MatchesParams{
		Pattern:       positional[0],
		MustInclude:   kv["must"],
		CannotInclude: kv["cannot"],
	})
	if err != nil {
		log.Errorf("match: %v", err)
		return
	}
	printWords(result.Items, result.Total)
}

func (r *QueryREPL) handleAnagram(args []string) {
	positional, kv := parseKV(args)
	if len(positional) == 0 {
		log.Error("usage: ana <letters> [pattern=<pattern>]")
		return
	}
	result, err := r.service.Anagrams(query.AnagramParams{
		Letters: positional[0],
		Pattern: kv["pattern"],
	})
	if err != nil {
		log.Errorf("ana: %v", err)
		return
	}
	printWords(result.Items, result.Total)
}

func (r *QueryREPL) handleDictionary(args []string) {
	positional, kv := parseKV(args)
	if len(positional) == 0 {
		log.Error("usage: dict <word> [pos=<n|v|a|r>]")
		return
	}
	result, err := r.service.Dictionary(positional[0], kv["pos"])
	if err != nil {
		log.Errorf("dict: %v", err)
		return
	}
	if len(result.Results) == 0 {
		log.Warnf("no synsets found for '%s'", positional[0])
		return
	}
	log.Printf("Found %d synsets for '%s' (lemmas: %s):", len(result.Results), result.Word, strings.Join(result.Lemmas, ", "))
	for i, syn := range result.Results {
		cl := fmt.Sprintf("\033[38;5;75m%s\033[0m", syn.Pos)
		log.Printf("%2d. [%s] %s", i+1, cl, syn.Definition)
	}
}

func (r *QueryREPL) handleRelated(args []string) {
	positional, kv := parseKV(args)
	if len(positional) == 0 {
		log.Error("usage: rel <word> [pos=<n|v|a|r>]")
		return
	}
	result, err := r.service.Related(positional[0], kv["pos"])
	if err != nil {
		log.Errorf("rel: %v", err)
		return
	}
	if len(result.Synsets) == 0 {
		log.Warnf("no related synsets found for '%s'", positional[0])
		return
	}
	for i, syn := range result.Synsets {
		log.Printf("%2d. [%s] %s", i+1, syn.Pos, syn.Definition)
		for _, group := range syn.Relations {
			names := make([]string, 0, len(group.Targets))
			for _, t := range group.Targets {
				if len(t.Lemmas) > 0 {
					names = append(names, t.Lemmas[0])
				}
			}
			log.Printf("     %s: %s", group.Label, strings.Join(names, ", "))
		}
	}
}

func printWords(items []string, total int) {
	if len(items) == 0 {
		log.Warn("no results found")
		return
	}
	log.Printf("Found %d results (showing %d):", total, len(items))
	for i, w := range items {
		cl := fmt.Sprintf("\033[38;5;75m%s\033[0m", w)
		log.Printf("%2d. %s", i+1, cl)
	}
}
