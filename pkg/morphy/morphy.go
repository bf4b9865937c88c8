// Package morphy implements WordNet's morphological analysis algorithm
// (morphy): turn a surface word form into candidate dictionary lemmas by
// checking exceptions and applying ordered suffix rules, verifying every
// candidate against a caller-supplied lemma existence predicate.
package morphy

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wordlex/wordlex/pkg/wordnet"
)

// CandidateSource records where a lemma candidate came from.
type CandidateSource int

const (
	Surface CandidateSource = iota
	Exception
	Rule
)

func (s CandidateSource) String() string {
	switch s {
	case Surface:
		return "surface"
	case Exception:
		return "exception"
	case Rule:
		return "rule"
	default:
		return "unknown"
	}
}

// Candidate is a lemma guess paired with its part of speech and provenance.
type Candidate struct {
	Pos    wordnet.Pos
	Lemma  string
	Source CandidateSource
}

// LemmaExists mirrors the callback morphy needs to verify candidates
// without depending on any particular dictionary implementation.
type LemmaExists func(pos wordnet.Pos, lemma string) bool

// Morphy holds the per-POS exception tables loaded from *.exc files.
type Morphy struct {
	exceptions map[wordnet.Pos]map[string][]string
}

// Load reads noun.exc/verb.exc/adj.exc/adv.exc from dictDir. Missing files
// are treated as empty tables.
func Load(dictDir string) (*Morphy, error) {
	m := &Morphy{exceptions: make(map[wordnet.Pos]map[string][]string)}
	files := map[wordnet.Pos]string{
		wordnet.Noun: "noun.exc",
		wordnet.Verb: "verb.exc",
		wordnet.Adj:  "adj.exc",
		wordnet.Adv:  "adv.exc",
	}
	for pos, name := range files {
		exc, err := loadExc(filepath.Join(dictDir, name))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		m.exceptions[pos] = exc
	}
	return m, nil
}

func loadExc(path string) (map[string][]string, error) {
	m := make(map[string][]string)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		surface := normalize(fields[0])
		lemmas := make([]string, 0, len(fields)-1)
		for _, f := range fields[1:] {
			lemmas = append(lemmas, normalize(f))
		}
		if len(lemmas) > 0 {
			m[surface] = lemmas
		}
	}
	return m, scanner.Err()
}

func normalize(text string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "_")
}

// LemmasFor generates candidate lemmas for surface under pos: the surface
// form itself if it exists, then exception-table entries, then rule-derived
// guesses, each verified via lemmaExists and deduplicated preserving
// first-seen order.
func (m *Morphy) LemmasFor(pos wordnet.Pos, surface string, lemmaExists LemmaExists) []Candidate {
	seen := make(map[string]bool)
	var out []Candidate
	normSurface := normalize(surface)

	push := func(lemma string, source CandidateSource) {
		if seen[lemma] {
			return
		}
		seen[lemma] = true
		out = append(out, Candidate{Pos: pos, Lemma: lemma, Source: source})
	}

	if lemmaExists(pos, normSurface) {
		push(normSurface, Surface)
	}

	if excMap, ok := m.exceptions[pos]; ok {
		if lemmas, ok := excMap[normSurface]; ok {
			for _, lemma := range lemmas {
				if lemmaExists(pos, lemma) {
					push(lemma, Exception)
				}
			}
		}
	}

	for _, rule := range rulesFor(pos) {
		if candidate, ok := applyRule(normSurface, rule.suffix, rule.replacement); ok {
			if lemmaExists(pos, candidate) {
				push(candidate, Rule)
			}
		}
	}

	return out
}

type suffixRule struct {
	suffix      string
	replacement string
}

func rulesFor(pos wordnet.Pos) []suffixRule {
	switch pos {
	case wordnet.Noun:
		return []suffixRule{
			{"s", ""},
			{"ses", "s"},
			{"xes", "x"},
			{"zes", "z"},
			{"ches", "ch"},
			{"shes", "sh"},
			{"men", "man"},
			{"ies", "y"},
		}
	case wordnet.Verb:
		return []suffixRule{
			{"s", ""},
			{"ies", "y"},
			{"es", "e"},
			{"es", ""},
			{"ed", "e"},
			{"ed", ""},
			{"ing", "e"},
			{"ing", ""},
		}
	case wordnet.Adj, wordnet.Adv:
		return []suffixRule{
			{"er", ""},
			{"er", "e"},
			{"est", ""},
			{"est", "e"},
		}
	default:
		return nil
	}
}

// applyRule strips suffix from surface and appends replacement, collapsing
// a doubled trailing consonant left behind by an empty replacement (e.g.
// "running" -> "runn" -> "run").
func applyRule(surface, suffix, replacement string) (string, bool) {
	stem, ok := strings.CutSuffix(surface, suffix)
	if !ok {
		return "", false
	}

	candidate := stem + replacement
	if replacement == "" && len(candidate) >= 2 {
		last := candidate[len(candidate)-1]
		prev := candidate[len(candidate)-2]
		if last == prev && !strings.ContainsRune("aeiou", rune(last)) {
			candidate = candidate[:len(candidate)-1]
		}
	}
	return candidate, true
}
