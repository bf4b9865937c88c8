package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wordlex/wordlex/pkg/morphy"
	"github.com/wordlex/wordlex/pkg/wordnet"
)

// dictionaryNote builds the user-facing hint for a dictionary/related
// lookup: it fires on zero results, and also when the only way to reach a
// result was an Exception- or Rule-sourced morphy fallback rather than the
// surface form itself.
func dictionaryNote(word string, empty bool, fallbackLemma string) *string {
	switch {
	case empty:
		n := fmt.Sprintf("no WordNet entries found for %q", word)
		return &n
	case fallbackLemma != "":
		n := fmt.Sprintf("showing results for the lemma %q", fallbackLemma)
		return &n
	default:
		return nil
	}
}

func parsePosFilter(pos string) ([]wordnet.Pos, error) {
	if pos == "" {
		return wordnet.AllPos(), nil
	}
	p, ok := wordnet.PosFromChar(strings.ToLower(pos)[0])
	if !ok {
		return nil, invalidInput("pos must be one of n|v|a|r")
	}
	return []wordnet.Pos{p}, nil
}

func synsetIDView(id wordnet.SynsetId) SynsetIdView {
	return SynsetIdView{Pos: string(id.Pos.Char()), Offset: id.Offset}
}

func maxSenseCount(best *uint32, candidate uint32) *uint32 {
	if best == nil || candidate > *best {
		v := candidate
		return &v
	}
	return best
}

func bestSenseCountForLemmas(wn *wordnet.Dictionary, pos wordnet.Pos, offset uint32, lemmas []string) *uint32 {
	var best *uint32
	for _, lemma := range lemmas {
		if count, ok := wn.SenseCount(pos, lemma, offset); ok {
			best = maxSenseCount(best, count)
		}
	}
	return best
}

func bestSenseCountFromSynset(wn *wordnet.Dictionary, synset *wordnet.Synset) *uint32 {
	var best *uint32
	for _, w := range synset.Words {
		if count, ok := wn.SenseCount(synset.ID.Pos, w.Text, synset.ID.Offset); ok {
			best = maxSenseCount(best, count)
		}
	}
	return best
}

// sortBySenseThenPosThenOffset mirrors handlers.rs's results.sort_by chain:
// highest sense_count first, then canonical POS order, then synset offset.
func sortBySenseThenPosThenOffset[T any](items []T, pos func(T) wordnet.Pos, offset func(T) uint32, sense func(T) *uint32) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := senseOrZero(sense(items[i])), senseOrZero(sense(items[j]))
		if si != sj {
			return si > sj
		}
		if pos(items[i]) != pos(items[j]) {
			return pos(items[i]) < pos(items[j])
		}
		return offset(items[i]) < offset(items[j])
	})
}

func senseOrZero(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}

// Dictionary looks up every WordNet synset reachable from word via Morphy,
// across the requested parts of speech (or all four if none was given).
func (s *Service) Dictionary(word, posFilter string) (*DictionaryResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, invalidInput("word is required")
	}
	positions, err := parsePosFilter(posFilter)
	if err != nil {
		return nil, err
	}

	seenLemmas := make(map[string]bool)
	var lemmas []string
	synsets := make(map[wordnet.SynsetId]*DictionarySynset)
	var fallbackLemma string

	for _, pos := range positions {
		candidates := s.Morphy.LemmasFor(pos, word, s.WordNet.LemmaExists)
		for _, cand := range candidates {
			if cand.Source != morphy.Surface && fallbackLemma == "" {
				fallbackLemma = cand.Lemma
			}
			if !seenLemmas[cand.Lemma] {
				seenLemmas[cand.Lemma] = true
				lemmas = append(lemmas, cand.Lemma)
			}
			for _, sid := range s.WordNet.SynsetsForLemma(pos, cand.Lemma) {
				syn, ok := s.WordNet.GetSynset(sid)
				if !ok {
					continue
				}
				entry, ok := synsets[sid]
				if !ok {
					entry = &DictionarySynset{
						Pos:        syn.ID.Pos.String(),
						SynsetID:   synsetIDView(syn.ID),
						Lemmas:     lemmaTexts(syn),
						Definition: syn.Gloss.Definition,
						Examples:   append([]string(nil), syn.Gloss.Examples...),
					}
					synsets[sid] = entry
				}
				if count, ok := s.WordNet.SenseCount(pos, cand.Lemma, sid.Offset); ok {
					entry.SenseCount = maxSenseCount(entry.SenseCount, count)
				}
			}
		}
	}

	results := make([]DictionarySynset, 0, len(synsets))
	for _, v := range synsets {
		results = append(results, *v)
	}
	sortBySenseThenPosThenOffset(results,
		func(d DictionarySynset) wordnet.Pos { p, _ := wordnet.PosFromChar(d.SynsetID.Pos[0]); return p },
		func(d DictionarySynset) uint32 { return d.SynsetID.Offset },
		func(d DictionarySynset) *uint32 { return d.SenseCount },
	)

	note := dictionaryNote(word, len(results) == 0, fallbackLemma)

	return &DictionaryResult{
		Word:       word,
		Normalized: strings.ToLower(word),
		Lemmas:     lemmas,
		Results:    results,
		Note:       note,
	}, nil
}

// Related looks up word's synsets like Dictionary, additionally collecting
// every outgoing WordNet pointer grouped and labeled by relation kind.
func (s *Service) Related(word, posFilter string) (*RelatedResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, invalidInput("word is required")
	}
	positions, err := parsePosFilter(posFilter)
	if err != nil {
		return nil, err
	}

	seenLemmas := make(map[string]bool)
	var lemmas []string
	seenSynsets := make(map[wordnet.SynsetId]bool)
	var out []RelatedSynset
	var fallbackLemma string

	for _, pos := range positions {
		candidates := s.Morphy.LemmasFor(pos, word, s.WordNet.LemmaExists)
		for _, cand := range candidates {
			if cand.Source != morphy.Surface && fallbackLemma == "" {
				fallbackLemma = cand.Lemma
			}
			if !seenLemmas[cand.Lemma] {
				seenLemmas[cand.Lemma] = true
				lemmas = append(lemmas, cand.Lemma)
			}
			for _, sid := range s.WordNet.SynsetsForLemma(pos, cand.Lemma) {
				if seenSynsets[sid] {
					continue
				}
				seenSynsets[sid] = true
				syn, ok := s.WordNet.GetSynset(sid)
				if !ok {
					continue
				}
				out = append(out, RelatedSynset{
					Pos:        syn.ID.Pos.String(),
					SynsetID:   synsetIDView(syn.ID),
					Lemmas:     lemmaTexts(syn),
					Definition: syn.Gloss.Definition,
					Examples:   append([]string(nil), syn.Gloss.Examples...),
					SenseCount: bestSenseCountForLemmas(s.WordNet, pos, sid.Offset, lemmas),
					Relations:  collectRelations(s.WordNet, syn),
				})
			}
		}
	}

	sortBySenseThenPosThenOffset(out,
		func(r RelatedSynset) wordnet.Pos { p, _ := wordnet.PosFromChar(r.SynsetID.Pos[0]); return p },
		func(r RelatedSynset) uint32 { return r.SynsetID.Offset },
		func(r RelatedSynset) *uint32 { return r.SenseCount },
	)

	note := dictionaryNote(word, len(out) == 0, fallbackLemma)

	return &RelatedResult{
		Word:       word,
		Normalized: strings.ToLower(word),
		Lemmas:     lemmas,
		Synsets:    out,
		Note:       note,
	}, nil
}

func lemmaTexts(syn *wordnet.Synset) []string {
	out := make([]string, len(syn.Words))
	for i, w := range syn.Words {
		out[i] = w.Text
	}
	return out
}

var relationOrder = []string{
	"hypernyms", "hyponyms", "similar_to", "antonyms", "derivations",
	"also_see", "entails", "causes", "verb_group", "attributes",
	"participle", "pertainyms", "member_meronyms", "part_meronyms",
	"substance_meronyms", "member_holonyms", "part_holonyms",
	"substance_holonyms", "topic_domain", "topic_members",
	"region_domain", "region_members", "usage_domain",
}

func relationOrderIndex(kind string) int {
	for i, k := range relationOrder {
		if k == kind {
			return i
		}
	}
	return len(relationOrder) + 1
}

func relationLabel(symbol string) (kind, label string) {
	switch symbol {
	case "!":
		return "antonyms", "Antonyms"
	case "@", "@i":
		return "hypernyms", "Hypernyms"
	case "~", "~i":
		return "hyponyms", "Hyponyms"
	case "&":
		return "similar_to", "Similar to"
	case "^":
		return "also_see", "Also see"
	case "+":
		return "derivations", "Derivationally related"
	case "=":
		return "attributes", "Attributes"
	case "<":
		return "participle", "Participle of"
	case "\\":
		return "pertainyms", "Pertainyms"
	case "*":
		return "entails", "Entails"
	case ">":
		return "causes", "Causes"
	case "$":
		return "verb_group", "Verb group"
	case "#m":
		return "member_holonyms", "Member holonyms"
	case "#s":
		return "substance_holonyms", "Substance holonyms"
	case "#p":
		return "part_holonyms", "Part holonyms"
	case "%m":
		return "member_meronyms", "Member meronyms"
	case "%s":
		return "substance_meronyms", "Substance meronyms"
	case "%p":
		return "part_meronyms", "Part meronyms"
	case ";c":
		return "topic_domain", "Topic domain"
	case "-c":
		return "topic_members", "Topic members"
	case ";r":
		return "region_domain", "Region domain"
	case "-r":
		return "region_members", "Region members"
	case ";u":
		return "usage_domain", "Usage domain"
	case "-u":
		return "usage_members", "Usage members"
	default:
		return "other", "Other"
	}
}

func lemmaSortKey(lemmas []string) string {
	if len(lemmas) == 0 {
		return ""
	}
	return strings.ToLower(lemmas[0])
}

func collectRelations(wn *wordnet.Dictionary, synset *wordnet.Synset) []RelationGroup {
	groups := make(map[string]*RelationGroup)

	for _, ptr := range synset.Pointers {
		kind, label := relationLabel(ptr.Symbol)
		target, ok := wn.GetSynset(ptr.Target)
		if !ok {
			continue
		}
		rt := RelatedTarget{
			Pos:        target.ID.Pos.String(),
			SynsetID:   synsetIDView(target.ID),
			Lemmas:     lemmaTexts(target),
			Definition: target.Gloss.Definition,
			SenseCount: bestSenseCountFromSynset(wn, target),
		}
		group, ok := groups[kind]
		if !ok {
			group = &RelationGroup{Kind: kind, Label: label, Symbol: ptr.Symbol}
			groups[kind] = group
		}
		exists := false
		for _, t := range group.Targets {
			if t.SynsetID == rt.SynsetID {
				exists = true
				break
			}
		}
		if !exists {
			group.Targets = append(group.Targets, rt)
		}
	}

	out := make([]RelationGroup, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Targets, func(i, j int) bool {
			si, sj := senseOrZero(g.Targets[i].SenseCount), senseOrZero(g.Targets[j].SenseCount)
			if si != sj {
				return si > sj
			}
			return lemmaSortKey(g.Targets[i].Lemmas) < lemmaSortKey(g.Targets[j].Lemmas)
		})
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := relationOrderIndex(out[i].Kind), relationOrderIndex(out[j].Kind)
		if oi != oj {
			return oi < oj
		}
		return out[i].Label < out[j].Label
	})
	return out
}
